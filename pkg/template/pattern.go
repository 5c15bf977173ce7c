package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/paths"
)

// DefaultExpression is the value expression a placeholder matches when
// the pattern does not carry an inline constraint.
const DefaultExpression = `[\w_. \-]+`

// segment is one piece of a parsed pattern: either a literal run or a
// single {token} placeholder with its optional inline expression.
type segment struct {
	literal string
	token   string
	expr    string
}

func (s segment) isToken() bool {
	return s.token != ""
}

// placeholder renders the segment back to its pattern form
func (s segment) placeholder() string {
	if !s.isToken() {
		return s.literal
	}
	if s.expr != "" {
		return "{" + s.token + ":" + s.expr + "}"
	}
	return "{" + s.token + "}"
}

// parsePattern splits a pattern string into literal and placeholder
// segments. Braces inside an inline expression (eg. {ver:[0-9]{3}})
// are tracked by depth, not by the first closing brace.
func parsePattern(pattern string) ([]segment, error) {
	var segs []segment
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(pattern) {
		if pattern[i] != '{' {
			lit.WriteByte(pattern[i])
			i++
			continue
		}

		depth := 1
		j := i + 1
		for j < len(pattern) && depth > 0 {
			switch pattern[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			j++
		}
		if depth != 0 {
			return nil, errors.Newf(
				errors.ErrPatternInvalid, "unbalanced braces in pattern %q", pattern)
		}

		body := pattern[i+1 : j-1]
		name, expr, _ := strings.Cut(body, ":")
		if !isTokenName(name) {
			return nil, errors.Newf(
				errors.ErrPatternInvalid, "bad token name %q in pattern %q", name, pattern)
		}

		flush()
		segs = append(segs, segment{token: name, expr: expr})
		i = j
	}
	flush()

	return segs, nil
}

func isTokenName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		ok := r == '_' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	return true
}

// compiled is the matcher built once per template from its segments
type compiled struct {
	re *regexp.Regexp

	// groupToken maps regexp group name back to token name; repeated
	// tokens get numbered groups since RE2 has no backreferences
	groupToken map[string]string
}

func compileSegments(segs []segment, anchor Anchor) (*compiled, error) {
	var sb strings.Builder
	if anchor == AnchorStart || anchor == AnchorBoth {
		sb.WriteString("^")
	}

	counts := make(map[string]int)
	groupToken := make(map[string]string)
	for _, seg := range segs {
		if !seg.isToken() {
			sb.WriteString(regexp.QuoteMeta(seg.literal))
			continue
		}
		counts[seg.token]++
		group := seg.token
		if counts[seg.token] > 1 {
			group = fmt.Sprintf("%s__%d", seg.token, counts[seg.token])
		}
		expr := seg.expr
		if expr == "" {
			expr = DefaultExpression
		}
		groupToken[group] = seg.token
		sb.WriteString("(?P<" + group + ">" + expr + ")")
	}

	if anchor == AnchorEnd || anchor == AnchorBoth {
		sb.WriteString("$")
	}

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, errors.Wrapf(
			err, errors.ErrPatternInvalid, "failed to compile pattern")
	}
	return &compiled{re: re, groupToken: groupToken}, nil
}

// extract matches the path and returns token data. Repeated tokens must
// resolve to the same value.
func (c *compiled) extract(path string) (map[string]string, error) {
	match := c.re.FindStringSubmatch(path)
	if match == nil {
		return nil, errors.Newf(
			errors.ErrParseFailed, "path %q did not match pattern", path)
	}

	data := make(map[string]string)
	for idx, group := range c.re.SubexpNames() {
		if group == "" {
			continue
		}
		token := c.groupToken[group]
		value := match[idx]
		if existing, ok := data[token]; ok && existing != value {
			return nil, errors.Newf(
				errors.ErrParseFailed,
				"token %q resolved inconsistently (%q vs %q)", token, existing, value)
		}
		data[token] = value
	}
	return data, nil
}

// formatSegments renders the segments with the given data. Every token
// segment must have an entry in data; the error reports the complete
// missing set.
func formatSegments(segs []segment, data map[string]string) (string, error) {
	var sb strings.Builder
	var missing []string
	seen := make(map[string]bool)

	for _, seg := range segs {
		if !seg.isToken() {
			sb.WriteString(seg.literal)
			continue
		}
		value, ok := data[seg.token]
		if !ok {
			if !seen[seg.token] {
				seen[seg.token] = true
				missing = append(missing, seg.token)
			}
			continue
		}
		sb.WriteString(value)
	}

	if len(missing) > 0 {
		return "", errors.NewMissingKeys(missing)
	}
	return sb.String(), nil
}

// ExpandVariations expands the [optional] segments of a raw pattern
// into the full set of concrete alternatives. For n distinct optional
// segments the result has 2ⁿ entries in a stable order, from every
// option absent to every option present.
//
// eg. "{a}[_{b}]" -> ["{a}", "{a}_{b}"]
func ExpandVariations(pattern string) ([]string, error) {
	if strings.Count(pattern, "[") != strings.Count(pattern, "]") {
		return nil, errors.Newf(
			errors.ErrPatternInvalid, "unbalanced brackets in pattern %q", pattern)
	}
	if !strings.Contains(pattern, "[") {
		return []string{pattern}, nil
	}

	// Collect options in order of appearance, deduped
	var opts []string
	seen := make(map[string]bool)
	for _, chunk := range strings.Split(pattern, "[")[1:] {
		opt, _, ok := strings.Cut(chunk, "]")
		if !ok || seen[opt] {
			continue
		}
		seen[opt] = true
		opts = append(opts, opt)
	}

	n := len(opts)
	variations := make([]string, 0, 1<<n)
	for i := 0; i < 1<<n; i++ {
		expanded := pattern
		for j, opt := range opts {
			replace := ""
			if i>>(n-1-j)&1 == 1 {
				replace = opt
			}
			expanded = strings.ReplaceAll(expanded, "["+opt+"]", replace)
		}
		variations = append(variations, paths.Norm(expanded))
	}
	return variations, nil
}
