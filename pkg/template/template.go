package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/logging"
	"github.com/pathforge/pathforge/pkg/paths"
	"github.com/pathforge/pathforge/pkg/tokens"
)

// Anchor selects whether a pattern must match from the start or the end
// of a candidate path. End anchoring is the default: it lets templates
// ignore however many parent directories precede their own structure.
type Anchor int

const (
	// AnchorEnd matches the pattern against the end of the path
	AnchorEnd Anchor = iota
	// AnchorStart matches the pattern against the start of the path
	AnchorStart
	// AnchorBoth requires the pattern to cover the whole path
	AnchorBoth
)

// PathType classifies the filesystem entry a template describes. The
// discovery engine prunes candidates by entry kind before parsing.
type PathType string

const (
	// PathTypeAny applies no filtering
	PathTypeAny PathType = ""
	// PathTypeFile matches regular files
	PathTypeFile PathType = "f"
	// PathTypeDir matches directories
	PathTypeDir PathType = "d"
	// PathTypeSeq matches file-sequence directories
	PathTypeSeq PathType = "s"
)

// hostApps is the closed vocabulary of host-application qualifiers a
// template name may begin with.
var hostApps = map[string]bool{
	"blender":   true,
	"c4d":       true,
	"flame":     true,
	"hou":       true,
	"maya":      true,
	"nuke":      true,
	"substance": true,
	"terragen":  true,
}

// profileNames is the closed vocabulary of profile qualifiers; a
// profile follows the host qualifier when both are present.
var profileNames = map[string]bool{
	"asset": true,
	"shot":  true,
}

// Options configures template construction
type Options struct {
	Anchor      Anchor
	PathType    PathType
	SeparateDir bool
	Alt         int
	Rules       tokens.Rules
	Source      *Template
}

// Template is an immutable compiled path pattern plus its metadata
type Template struct {
	name     string
	category string
	host     string
	profile  string

	pattern string
	segs    []segment
	comp    *compiled

	anchor      Anchor
	pathType    PathType
	separateDir bool
	alt         int

	rules    tokens.Rules
	embedded map[string]string
	source   *Template

	cmpKey string
}

// TokenSpec describes one token of a template: its name, the value
// expression it must satisfy, and whether a value is already bound.
type TokenSpec struct {
	Name       string
	Expression string
	Bound      bool
}

// New compiles a pattern into a Template. The name carries optional
// host and profile qualifiers, in that order; reusing a qualifier word
// later in the name is a configuration error.
func New(name, pattern string, opts Options) (*Template, error) {
	segs, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}
	comp, err := compileSegments(segs, opts.Anchor)
	if err != nil {
		return nil, err
	}

	t := &Template{
		name:        name,
		pattern:     pattern,
		segs:        segs,
		comp:        comp,
		anchor:      opts.Anchor,
		pathType:    opts.PathType,
		separateDir: opts.SeparateDir,
		alt:         opts.Alt,
		rules:       opts.Rules,
		embedded:    make(map[string]string),
		source:      opts.Source,
	}
	if t.source == nil {
		t.source = t
	}

	parts := strings.Split(name, "_")
	if len(parts) > 0 && hostApps[parts[0]] {
		t.host = parts[0]
		parts = parts[1:]
	}
	if len(parts) > 0 && profileNames[parts[0]] {
		t.profile = parts[0]
		parts = parts[1:]
	}
	for _, part := range parts {
		if hostApps[part] || profileNames[part] {
			return nil, errors.Newf(
				errors.ErrReservedWord,
				"template name %q reuses reserved qualifier %q", name, part)
		}
	}
	t.category = strings.Join(parts, "_")

	// Host templates sort first, then profile-specific ones, then the
	// longest pattern dominates
	t.cmpKey = fmt.Sprintf(
		"%d_%d_%05d_%s",
		boolToInt(t.host == ""), boolToInt(t.profile == ""),
		10000-len(t.pattern), t.category)

	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Name returns the template's declared name (alt suffix stripped)
func (t *Template) Name() string { return t.name }

// Category is the semantic name left after the host and profile
// qualifiers are removed; callers dispatch on it.
func (t *Template) Category() string { return t.category }

// Host returns the host-application qualifier, or an empty string
func (t *Template) Host() string { return t.host }

// Profile returns the profile qualifier, or an empty string
func (t *Template) Profile() string { return t.profile }

// Pattern returns the current pattern, with any applied data baked in
func (t *Template) Pattern() string { return t.pattern }

// Anchor returns the anchor mode
func (t *Template) Anchor() Anchor { return t.anchor }

// PathType returns the filesystem entry kind this template describes
func (t *Template) PathType() PathType { return t.pathType }

// Alt returns the priority index distinguishing alternative templates
// of the same category (0 = primary)
func (t *Template) Alt() int { return t.alt }

// Source returns the template this one was derived from
func (t *Template) Source() *Template { return t.source }

// Rules returns the token rules this template validates against
func (t *Template) Rules() tokens.Rules { return t.rules }

// CompareKey returns the sort key implementing the canonical template
// order: host-qualified first, then profile-qualified, then longer
// patterns, ties broken by category name.
func (t *Template) CompareKey() string { return t.cmpKey }

// String implements fmt.Stringer
func (t *Template) String() string {
	return fmt.Sprintf("%s<%s>", t.name, t.pattern)
}

// EmbeddedData returns a copy of the token values already bound into
// this template by ApplyData.
func (t *Template) EmbeddedData() map[string]string {
	data := make(map[string]string, len(t.embedded))
	for k, v := range t.embedded {
		data[k] = v
	}
	return data
}

// Keys returns the unresolved token names, in order of appearance
func (t *Template) Keys() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, seg := range t.segs {
		if seg.isToken() && !seen[seg.token] {
			seen[seg.token] = true
			keys = append(keys, seg.token)
		}
	}
	return keys
}

// HasKey reports whether the token is still unresolved in the pattern
func (t *Template) HasKey(token string) bool {
	for _, seg := range t.segs {
		if seg.token == token {
			return true
		}
	}
	return false
}

// Tokens returns a descriptor for every token this template knows
// about: unresolved ones in pattern order, then bound ones sorted.
func (t *Template) Tokens() []TokenSpec {
	var specs []TokenSpec
	seen := make(map[string]bool)
	for _, seg := range t.segs {
		if !seg.isToken() || seen[seg.token] {
			continue
		}
		seen[seg.token] = true
		specs = append(specs, TokenSpec{Name: seg.token, Expression: seg.expr})
	}

	var bound []string
	for name := range t.embedded {
		if !seen[name] {
			bound = append(bound, name)
		}
	}
	sort.Strings(bound)
	for _, name := range bound {
		specs = append(specs, TokenSpec{Name: name, Bound: true})
	}
	return specs
}

// IsAbs reports whether the pattern is rooted at an absolute path
func (t *Template) IsAbs() bool {
	return paths.IsAbs(t.pattern)
}

// IsResolved reports whether every token has data applied
func (t *Template) IsResolved() bool {
	return len(t.Keys()) == 0
}

// ApplyData returns a new template with the given values baked into
// the pattern as literals. Keys absent from the pattern and empty
// values are ignored, so applying the same data twice is a no-op.
func (t *Template) ApplyData(data map[string]string) *Template {
	logger := logging.GetLogger("template")

	applied := make(map[string]string)
	var sb strings.Builder
	for _, seg := range t.segs {
		if seg.isToken() {
			value, ok := data[seg.token]
			if ok && value != "" {
				if strings.ContainsAny(value, "{}[]") {
					logger.Warn().
						Str("token", seg.token).
						Str("value", value).
						Msg("refusing to apply value with pattern metacharacters")
				} else {
					applied[seg.token] = value
					sb.WriteString(value)
					continue
				}
			}
		}
		sb.WriteString(seg.placeholder())
	}

	if len(applied) == 0 {
		return t
	}

	dup := t.mustDuplicate(t.name, sb.String(), t.separateDir)
	for k, v := range applied {
		dup.embedded[k] = v
	}
	return dup
}

// Format resolves the template into a concrete path. Every remaining
// key must be present in data; the error reports the complete missing
// set, and nothing is partially written.
func (t *Template) Format(data map[string]string) (string, error) {
	return formatSegments(t.segs, data)
}

// Parse extracts token data from a path. It is the inverse of Format:
// literal segments must match, token values must pass the job rules,
// and the resolved data is re-rendered and checked to be a suffix of
// the original path. That round trip is the defense against parses
// that match syntactically but resolve the wrong structure.
func (t *Template) Parse(path string) (map[string]string, error) {
	normed := paths.Norm(path)
	if t.separateDir {
		return t.parseSeparate(normed)
	}

	data, err := t.comp.extract(normed)
	if err != nil {
		return nil, err
	}

	if len(t.rules) > 0 {
		if err := tokens.ValidateAll(data, t.rules); err != nil {
			return nil, errors.Wrap(
				err, errors.ErrParseFailed, "token validation failed")
		}
	}

	for k, v := range t.embedded {
		data[k] = v
	}

	remapped, err := t.Format(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrParseFailed, "round trip failed")
	}
	if !strings.HasSuffix(normed, remapped) {
		return nil, errors.Newf(
			errors.ErrParseFailed, "tokens failed to map back to path %q", path)
	}

	return data, nil
}

// parseSeparate parses the directory and the filename independently.
// Complex filenames with many tokens parse reliably once the values
// recovered from the directory are bound into the filename pattern.
func (t *Template) parseSeparate(path string) (map[string]string, error) {
	dirTmpl, err := t.duplicate(t.name, paths.Dir(t.pattern), false)
	if err != nil {
		return nil, err
	}
	data, err := dirTmpl.Parse(paths.Dir(path))
	if err != nil {
		return nil, err
	}

	fileTmpl, err := t.duplicate(t.name, paths.Base(t.pattern), false)
	if err != nil {
		return nil, err
	}
	fileData, err := fileTmpl.ApplyData(data).Parse(paths.Base(path))
	if err != nil {
		return nil, err
	}

	for k, v := range fileData {
		data[k] = v
	}
	return data, nil
}

// CropToToken truncates the pattern at the directory level that
// introduces the token, used to enumerate on-disk values of one token
// without resolving full paths.
//
// eg. "{a}/{b}/{c}" cropped to b gives "{a}/{b}"
func (t *Template) CropToToken(token string, includeTokenDir bool) (*Template, error) {
	parts := strings.Split(t.pattern, "/")
	idx := -1
	for i, part := range parts {
		if strings.Contains(part, "{"+token+"}") ||
			strings.Contains(part, "{"+token+":") {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.Newf(
			errors.ErrTokenNotFound,
			"token %q not in template %q", token, t.pattern)
	}

	end := idx
	if includeTokenDir {
		end = idx + 1
	}
	return t.duplicate(t.name, strings.Join(parts[:end], "/"), false)
}

// SplitHardened peels off every leading path level containing no
// placeholder, yielding the literal root directory and a template for
// the remainder.
//
// eg. "/mnt/jobs/{entity}/{task}" -> "/mnt/jobs", "{entity}/{task}"
func (t *Template) SplitHardened() (string, *Template) {
	parts := strings.Split(t.pattern, "/")
	i := 0
	for i < len(parts) && !strings.Contains(parts[i], "{") {
		i++
	}
	root := strings.Join(parts[:i], "/")
	rest := t.mustDuplicate(t.name, strings.Join(parts[i:], "/"), t.separateDir)
	return root, rest
}

// ToDir returns the template for this template's parent directory
func (t *Template) ToDir() *Template {
	return t.mustDuplicate(t.name, paths.Dir(t.pattern), t.separateDir)
}

// Duplicate returns a copy with a new name and pattern, keeping the
// anchor, path type, rules, embedded data and source.
func (t *Template) Duplicate(name, pattern string) (*Template, error) {
	return t.duplicate(name, pattern, t.separateDir)
}

func (t *Template) duplicate(name, pattern string, separateDir bool) (*Template, error) {
	dup, err := New(name, pattern, Options{
		Anchor:      t.anchor,
		PathType:    t.pathType,
		SeparateDir: separateDir,
		Alt:         t.alt,
		Rules:       t.rules,
		Source:      t.source,
	})
	if err != nil {
		return nil, err
	}
	for k, v := range t.embedded {
		dup.embedded[k] = v
	}
	return dup, nil
}

// mustDuplicate is duplicate for pattern rewrites that cannot fail:
// the source pattern already compiled and the rewrite only removes or
// literalizes segments.
func (t *Template) mustDuplicate(name, pattern string, separateDir bool) *Template {
	dup, err := t.duplicate(name, pattern, separateDir)
	if err != nil {
		panic(err)
	}
	return dup
}

// Sort orders templates by the canonical comparison key: host-qualified
// templates first, then profile-qualified, then longer patterns, ties
// broken by category then alt index. The sort is stable.
func Sort(templates []*Template) {
	sort.SliceStable(templates, func(i, j int) bool {
		if templates[i].cmpKey != templates[j].cmpKey {
			return templates[i].cmpKey < templates[j].cmpKey
		}
		return templates[i].alt < templates[j].alt
	})
}
