package common

import "strings"

// AllowedOverallStatuses lists the report condition buckets accepted as a
// list filter.
var AllowedOverallStatuses = []string{"excellent", "good", "fair", "poor"}

var allowedOverallStatusSet = makeStringSet(AllowedOverallStatuses)

func makeStringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		set[item] = struct{}{}
	}
	return set
}

// CanonicalOverallStatus normalises a status filter input. Unknown values
// yield an empty string so callers can reject them.
func CanonicalOverallStatus(input string) string {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return ""
	}
	if _, ok := allowedOverallStatusSet[trimmed]; ok {
		return trimmed
	}
	return ""
}
