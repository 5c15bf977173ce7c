package tokens

import "strings"

// PassesFilter applies a space-separated text filter to a value.
// Each term must appear in the value (case-insensitive); terms
// prefixed with "-" must not appear. An empty filter passes everything.
//
// eg. "anim -blocking" matches "anim_v001" but not "anim_blocking_v001"
func PassesFilter(value, filter string) bool {
	if filter == "" {
		return true
	}
	lowered := strings.ToLower(value)
	for _, term := range strings.Fields(filter) {
		if negated := strings.TrimPrefix(term, "-"); negated != term {
			if strings.Contains(lowered, strings.ToLower(negated)) {
				return false
			}
			continue
		}
		if !strings.Contains(lowered, strings.ToLower(term)) {
			return false
		}
	}
	return true
}
