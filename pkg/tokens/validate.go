package tokens

import (
	"sort"
	"strings"

	"github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/logging"
)

// Validate checks a single token value against the job rules. Tokens
// with no rule always pass. The returned error identifies the token
// and the value that failed.
func Validate(value, token string, rules Rules) error {
	logger := logging.GetLogger("tokens")

	rule, ok := rules[token]
	if !ok {
		return nil
	}

	// Whitelisted values bypass all other checks
	for _, entry := range rule.Whitelist {
		if value == entry {
			return nil
		}
	}

	if len(rule.Allowed) > 0 {
		found := false
		for _, entry := range rule.Allowed {
			if value == entry {
				found = true
				break
			}
		}
		if !found {
			return invalid(token, value, "not in allowed values")
		}
	}

	if rule.StrictLen && len(rule.Len) > 0 {
		matched := false
		for _, length := range rule.Len {
			if len(value) == length {
				matched = true
				break
			}
		}
		if !matched {
			return invalid(token, value, "fails len")
		}
	}

	if rule.IsDigit && !isDigits(value) {
		return invalid(token, value, "fails as it is non-numeric")
	}

	if rule.NoSpace && strings.Contains(value, " ") {
		return invalid(token, value, "fails as it contains spaces")
	}

	if rule.NoUnderscore && strings.Contains(value, "_") {
		return invalid(token, value, "fails as it contains underscores")
	}

	if rule.Filter != "" && !PassesFilter(value, rule.Filter) {
		return invalid(token, value, "fails filter")
	}

	logger.Trace().Str("token", token).Str("value", value).Msg("token valid")
	return nil
}

// ValidateAll validates every entry in the data map. The first failure
// is returned; remaining entries are not checked. Iteration is in
// sorted token order so the failing token is deterministic.
func ValidateAll(data map[string]string, rules Rules) error {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := Validate(data[name], name, rules); err != nil {
			return err
		}
	}
	return nil
}

// IsValid is the boolean form of Validate
func IsValid(value, token string, rules Rules) bool {
	return Validate(value, token, rules) == nil
}

// AreValid is the boolean form of ValidateAll
func AreValid(data map[string]string, rules Rules) bool {
	return ValidateAll(data, rules) == nil
}

func invalid(token, value, reason string) error {
	return errors.Newf(
		errors.ErrTokenInvalid, "token %q as %q %s", token, value, reason).
		WithDetail("token", token).
		WithDetail("value", value)
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
