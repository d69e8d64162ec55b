package keywords

import (
	"fmt"
	"strings"
)

// feedbackFor scores one analysis against its range and, for failures,
// writes remediation text a writer (or model) can act on directly.
//
// Multi-word phrases and standalone single words are judged on total count.
// A single word with parent phrases gets the extra hint that using a parent
// phrase also raises its own count.
func feedbackFor(a Analysis) (bool, string) {
	passes := a.Total >= a.MinRequired && a.Total <= a.MaxAllowed
	if passes {
		return true, ""
	}

	if a.Total > a.MaxAllowed {
		excess := a.Total - a.MaxAllowed
		return false, fmt.Sprintf("Reduce '%s' by %d occurrences (current: %d, max: %d)",
			a.Keyword, excess, a.Total, a.MaxAllowed)
	}

	deficit := a.MinRequired - a.Total
	if a.IsCompound || len(a.Parents) == 0 {
		return false, fmt.Sprintf("Use '%s' %d more times (current: %d, required: %d-%d)",
			a.Keyword, deficit, a.Total, a.MinRequired, a.MaxAllowed)
	}

	// Single word nested in one or more phrases: spell out the breakdown and
	// point at the first parent as the preferred vehicle.
	var parts []string
	for _, p := range a.Parents {
		parts = append(parts, fmt.Sprintf("'%s' (%dx)", p, a.CompoundSources[p]))
	}
	return false, fmt.Sprintf(
		"Use '%s' %d more times. Currently: %d total (%d standalone + %d in phrases like %s). "+
			"Required: %d-%d. Tip: using parent phrases like '%s' will also count towards '%s'.",
		a.Keyword, deficit, a.Total, a.Standalone, a.Compound, strings.Join(parts, ", "),
		a.MinRequired, a.MaxAllowed, a.Parents[0], a.Keyword)
}
