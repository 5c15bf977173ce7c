package template

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pathforge/pathforge/pkg/config"
	"github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/logging"
)

// pathTypeSuffixes maps template-name suffixes to the filesystem entry
// kind the template describes.
var pathTypeSuffixes = []struct {
	suffix string
	type_  PathType
}{
	{"blast", PathTypeSeq},
	{"cache", PathTypeFile},
	{"cache_seq", PathTypeSeq},
	{"empty_file", PathTypeFile},
	{"entity_path", PathTypeDir},
	{"mov", PathTypeFile},
	{"plate", PathTypeSeq},
	{"publish", PathTypeFile},
	{"render", PathTypeSeq},
	{"seq_dir", PathTypeDir},
	{"sequence_path", PathTypeDir},
	{"shot_path", PathTypeDir},
	{"work", PathTypeFile},
	{"work_dir", PathTypeDir},
}

// BuildTemplates compiles a job's raw template table into Template
// objects grouped by category. Optional segments are expanded into
// their concrete variations, inline token expressions are injected from
// the job's token rules, and the job root replaces the {job_path}
// token so every template is rooted on disk.
//
// Configuration errors are fatal here, not at use time: a name reusing
// a reserved qualifier, a name without a known path type, or two
// distinct raw patterns compiling to the same concrete string.
func BuildTemplates(job *config.Job) (map[string][]*Template, error) {
	logger := logging.GetLogger("template.build")
	start := time.Now()
	defer logging.LogDuration(start, "build templates")

	names := make([]string, 0, len(job.Templates))
	for name := range job.Templates {
		names = append(names, name)
	}
	sort.Strings(names)

	byCategory := make(map[string][]*Template)
	sources := make(map[string]string) // concrete pattern → raw template name
	for _, rawName := range names {
		raw := job.Templates[rawName]
		variations, err := ExpandVariations(raw)
		if err != nil {
			return nil, err
		}

		name, alt := extractAlt(rawName)
		anchor, separateDir := conventionsFor(name)

		for _, pattern := range variations {
			pattern = injectExpressions(pattern, job)

			if prior, ok := sources[pattern]; ok && prior != rawName {
				return nil, errors.Newf(
					errors.ErrPatternClash,
					"templates %q and %q compile to the same pattern %q",
					prior, rawName, pattern)
			}
			sources[pattern] = rawName

			pathType, err := pathTypeFor(name, pattern)
			if err != nil {
				return nil, err
			}

			tmpl, err := New(name, pattern, Options{
				Anchor:      anchor,
				PathType:    pathType,
				SeparateDir: separateDir,
				Alt:         alt,
				Rules:       job.Rules(),
			})
			if err != nil {
				return nil, err
			}
			if job.Root != "" {
				tmpl = tmpl.ApplyData(map[string]string{"job_path": job.Root})
			}

			byCategory[tmpl.Category()] = append(byCategory[tmpl.Category()], tmpl)
		}
	}

	buildSeqDirTemplates(byCategory, job)
	buildSequenceTemplate(byCategory, job)

	for _, templates := range byCategory {
		Sort(templates)
	}

	logger.Debug().
		Str("job", job.Name).
		Int("categories", len(byCategory)).
		Msg("Built templates")

	return byCategory, nil
}

// Primary returns the template callers should format new paths with:
// the best-sorted entry with a zero alt index.
func Primary(templates []*Template) *Template {
	if len(templates) == 0 {
		return nil
	}
	sorted := append([]*Template(nil), templates...)
	Sort(sorted)
	for _, tmpl := range sorted {
		if tmpl.Alt() == 0 {
			return tmpl
		}
	}
	return sorted[0]
}

// extractAlt splits the _alt<N> priority suffix off a template name.
//
// eg. "cache_alt1" -> "cache", 1
func extractAlt(name string) (string, int) {
	idx := strings.LastIndex(name, "_")
	if idx < 0 {
		return name, 0
	}
	last := name[idx+1:]
	if !strings.HasPrefix(last, "alt") {
		return name, 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(last, "alt"))
	if err != nil {
		return name, 0
	}
	return name[:idx], n
}

// conventionsFor derives anchor and parse mode from the template name.
// Renders, plates and movs live under deep, token-heavy directories and
// parse more reliably start-anchored with the directory handled first;
// caches keep end anchoring but still split the directory parse.
func conventionsFor(name string) (Anchor, bool) {
	if strings.Contains(name, "render") ||
		strings.Contains(name, "plate") ||
		strings.Contains(name, "mov") {
		return AnchorStart, true
	}
	if strings.Contains(name, "cache") {
		return AnchorEnd, true
	}
	return AnchorEnd, false
}

// injectExpressions rewrites plain placeholders to carry the inline
// expression implied by the job's token rules.
func injectExpressions(pattern string, job *config.Job) string {
	for token, rule := range job.Rules() {
		expr := rule.Expression()
		if expr == "" {
			continue
		}
		pattern = strings.ReplaceAll(
			pattern, "{"+token+"}", "{"+token+":"+expr+"}")
	}
	return pattern
}

// pathTypeFor maps a template name to the entry kind it describes. A
// name with no known suffix and no extension token is a config error.
func pathTypeFor(name, pattern string) (PathType, error) {
	for _, entry := range pathTypeSuffixes {
		if strings.HasSuffix(name, entry.suffix) {
			return entry.type_, nil
		}
	}
	if strings.HasSuffix(pattern, ".{extn}") ||
		strings.Contains(pattern, ".{extn:") {
		return PathTypeFile, nil
	}
	return PathTypeAny, errors.Newf(
		errors.ErrPathTypeUnknown,
		"cannot derive path type for template %q", name)
}

// buildSeqDirTemplates adds a directory template for every distinct
// directory holding file sequences; disk pipelines cache against these.
func buildSeqDirTemplates(byCategory map[string][]*Template, job *config.Job) {
	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	seen := make(map[string]bool)
	for _, category := range categories {
		for _, tmpl := range byCategory[category] {
			if tmpl.PathType() != PathTypeSeq {
				continue
			}
			dirPattern := tmpl.ToDir().Pattern()
			if seen[dirPattern] {
				continue
			}
			seen[dirPattern] = true
			seqDir, err := New("seq_dir", dirPattern, Options{
				PathType: PathTypeDir,
				Rules:    job.Rules(),
			})
			if err != nil {
				continue
			}
			byCategory["seq_dir"] = append(byCategory["seq_dir"], seqDir)
		}
	}
}

// buildSequenceTemplate derives the sequence directory template from
// the shot entity path, when the latter carries a {sequence} token.
func buildSequenceTemplate(byCategory map[string][]*Template, job *config.Job) {
	var shot *Template
	for _, tmpl := range byCategory["entity_path"] {
		if tmpl.Profile() != "shot" || !tmpl.HasKey("sequence") {
			continue
		}
		if shot != nil {
			return
		}
		shot = tmpl
	}
	if shot == nil {
		return
	}
	root, _, found := strings.Cut(shot.Pattern(), "{sequence}")
	if !found {
		return
	}
	seq, err := New("sequence_path", root+"{sequence}", Options{
		PathType: PathTypeDir,
		Rules:    job.Rules(),
	})
	if err != nil {
		return
	}
	byCategory["sequence_path"] = []*Template{seq}
}
