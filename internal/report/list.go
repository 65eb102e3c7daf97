package report

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SavedFile is one persisted report within a review directory.
type SavedFile struct {
	Name string // file name, e.g. "junior_review.md"
	Path string
}

// SavedReview is one review directory and its reports.
type SavedReview struct {
	Name  string // derived directory name
	Dir   string
	Files []SavedFile
}

// canonical report order for display; anything else sorts after.
var fileOrder = map[string]int{
	"junior_review.md":  0,
	"senior_review.md":  1,
	"manager_review.md": 2,
	"planner_review.md": 3,
}

// ListReviews scans the reviews root and returns every saved review with at
// least one Markdown report, newest directory name last. A missing root is
// not an error; there is simply nothing saved yet.
func ListReviews(root string) ([]SavedReview, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var reviews []SavedReview
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		var saved []SavedFile
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") {
				continue
			}
			saved = append(saved, SavedFile{Name: f.Name(), Path: filepath.Join(dir, f.Name())})
		}
		if len(saved) == 0 {
			continue
		}

		sort.Slice(saved, func(i, j int) bool {
			oi, oki := fileOrder[saved[i].Name]
			oj, okj := fileOrder[saved[j].Name]
			switch {
			case oki && okj:
				return oi < oj
			case oki:
				return true
			case okj:
				return false
			default:
				return saved[i].Name < saved[j].Name
			}
		})

		reviews = append(reviews, SavedReview{Name: entry.Name(), Dir: dir, Files: saved})
	}

	sort.Slice(reviews, func(i, j int) bool { return reviews[i].Name < reviews[j].Name })
	return reviews, nil
}
