package trace

import "sort"

// RequiredTools is the set of tools the manager must exercise for a review
// to be considered complete.
var RequiredTools = []string{JuniorToolName, SeniorToolName}

// Audit reports which required tools were never invoked, sorted by name.
// An empty result means the required set was fully exercised. The finding is
// advisory: callers log it and still persist whatever the run produced.
func Audit(used map[string]bool, required []string) []string {
	var missing []string
	for _, name := range required {
		if !used[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
