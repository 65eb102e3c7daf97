// Package report persists classified review notes as Markdown files under a
// deterministic, input-derived directory.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Bucket is one ordered accumulation of notes destined for a single report
// file. Notes are written in slice order.
type Bucket struct {
	Name  string // short identifier used in status output, e.g. "junior"
	Title string // level-1 heading of the generated file
	File  string // file name within the review directory
	Notes []string
}

// Buckets assembles the four canonical report buckets in their fixed order.
func Buckets(junior, senior, manager, planner []string) []Bucket {
	return []Bucket{
		{Name: "junior", Title: "Junior Developer Review", File: "junior_review.md", Notes: junior},
		{Name: "senior", Title: "Senior Developer Review", File: "senior_review.md", Notes: senior},
		{Name: "manager", Title: "Manager Notes", File: "manager_review.md", Notes: manager},
		{Name: "planner", Title: "Planner Notes", File: "planner_review.md", Notes: planner},
	}
}

// DirName derives the review directory name from the reviewed file's path:
// the last three path segments joined by underscores, with every dot replaced
// by an underscore. Shorter paths use all their segments.
//
//	/a/b/c/file.py -> b_c_file_py
//	a/b/c.py       -> a_b_c_py
func DirName(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		parts = parts[len(parts)-3:]
	}
	return strings.ReplaceAll(strings.Join(parts, "_"), ".", "_")
}

// Dir returns the full review directory path for an input file under root.
func Dir(root, inputPath string) string {
	return filepath.Join(root, DirName(inputPath))
}

// Result records the outcome of writing one bucket.
type Result struct {
	Bucket  string
	Path    string
	Err     error
	Skipped bool // bucket was empty, no file written
}

// Write persists every non-empty bucket into dir, creating it first. Each
// file is a level-1 heading followed by the notes in order, each note
// terminated by a blank line. A failed bucket does not stop the remaining
// ones; per-bucket errors are returned in the results. Only directory
// creation is fatal, since no file can be attempted without it.
func Write(dir string, buckets []Bucket) ([]Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating review directory: %w", err)
	}

	results := make([]Result, 0, len(buckets))
	for _, b := range buckets {
		res := Result{Bucket: b.Name, Path: filepath.Join(dir, b.File)}
		if len(b.Notes) == 0 {
			res.Skipped = true
			results = append(results, res)
			continue
		}
		if err := os.WriteFile(res.Path, []byte(render(b)), 0o644); err != nil {
			res.Err = fmt.Errorf("writing %s report: %w", b.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func render(b Bucket) string {
	var sb strings.Builder
	sb.WriteString("# " + b.Title + "\n\n")
	for _, note := range b.Notes {
		sb.WriteString(note)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
