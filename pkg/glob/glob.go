package glob

import (
	"context"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/logging"
	"github.com/pathforge/pathforge/pkg/paths"
	"github.com/pathforge/pathforge/pkg/template"
)

// Match pairs a discovered path with the template that claimed it
type Match struct {
	Template *template.Template
	Path     string
}

// probe tracks one template through the traversal: the caller's
// template for final parsing, and the narrowing remainder pattern that
// plans which directories still need visiting.
type probe struct {
	tmpl *template.Template
	rest *template.Template
}

// probeKey dedupes probes per subdirectory. Identity of the caller's
// template matters: distinct templates may share a pattern and still
// compete for the same paths.
type probeKey struct {
	tmpl *template.Template
	rest string
}

// candidate is a match plus the key count used for clash resolution:
// how many tokens were still unresolved at the final level, after the
// descent bound everything the directory levels could.
type candidate struct {
	match     Match
	remaining int
}

type globber struct {
	fsys    FS
	matches map[string]candidate
}

// Templates finds every path matching any of the given templates.
//
// Each template must carry an absolute literal root (apply the job
// root first); a missing root directory is not an error and simply
// contributes no matches. When two templates claim the same path the
// one with fewer keys left unresolved at its final level wins.
// Results follow the canonical template order, then path order. The
// context is checked between directory listings so long scans can be
// aborted.
func Templates(ctx context.Context, fsys FS, templates []*template.Template) ([]Match, error) {
	logger := logging.GetLogger("glob")
	start := time.Now()
	defer logging.LogDuration(start, "glob templates")

	g := &globber{fsys: fsys, matches: make(map[string]candidate)}

	groups := make(map[string][]probe)
	for _, tmpl := range templates {
		root, rest := tmpl.SplitHardened()
		if !paths.IsAbs(root) {
			return nil, errors.Newf(
				errors.ErrRootNotAbs,
				"template %q has no absolute root to glob from", tmpl.Pattern())
		}
		if rest.Pattern() == "" {
			g.matchLiteral(tmpl, root)
			continue
		}
		groups[root] = append(groups[root], probe{tmpl: tmpl, rest: rest})
	}

	roots := make([]string, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	for _, root := range roots {
		if err := g.walk(ctx, root, groups[root]); err != nil {
			return nil, err
		}
	}

	results := make([]Match, 0, len(g.matches))
	for _, cand := range g.matches {
		results = append(results, cand.match)
	}
	sort.Slice(results, func(i, j int) bool {
		ki, kj := results[i].Template.CompareKey(), results[j].Template.CompareKey()
		if ki != kj {
			return ki < kj
		}
		return results[i].Path < results[j].Path
	})

	logger.Debug().
		Int("templates", len(templates)).
		Int("matches", len(results)).
		Msg("Glob complete")

	return results, nil
}

// Paths finds every path matching a single template, sorted
func Paths(ctx context.Context, fsys FS, tmpl *template.Template) ([]string, error) {
	matches, err := Templates(ctx, fsys, []*template.Template{tmpl})
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.Path)
	}
	sort.Strings(result)
	return result, nil
}

// matchLiteral handles a fully resolved template: the only candidate
// is its own pattern, confirmed by listing the parent directory.
func (g *globber) matchLiteral(tmpl *template.Template, path string) {
	entries, err := g.fsys.ReadDir(paths.Dir(path))
	if err != nil {
		return
	}
	name := paths.Base(path)
	for _, entry := range entries {
		if entry.Name() == name && matchesKind(tmpl.PathType(), entry) {
			g.emit(tmpl, path, 0)
			return
		}
	}
}

// walk lists one directory and advances every live probe through it.
// The listing happens exactly once per directory regardless of how
// many probes are interested in it.
func (g *globber) walk(ctx context.Context, dir string, probes []probe) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrAborted, "glob aborted")
	}

	entries, err := g.fsys.ReadDir(dir)
	if err != nil {
		// Missing or unreadable directories contribute no matches
		return nil
	}

	var finalized, deeper []probe
	for _, p := range probes {
		if strings.Contains(p.rest.Pattern(), "/") {
			deeper = append(deeper, p)
		} else {
			finalized = append(finalized, p)
		}
	}

	for _, entry := range entries {
		path := dir + "/" + entry.Name()
		for _, p := range finalized {
			if !matchesKind(p.tmpl.PathType(), entry) {
				continue
			}
			if _, err := p.tmpl.Parse(path); err != nil {
				continue
			}
			g.emit(p.tmpl, path, len(p.rest.Keys()))
		}
	}

	subProbes := make(map[string][]probe)
	subSeen := make(map[string]map[probeKey]bool)
	for _, p := range deeper {
		first, remainder, _ := strings.Cut(p.rest.Pattern(), "/")

		// A tokenized level is matched name by name, binding the
		// recovered values into the remainder so deeper levels narrow
		var segTmpl *template.Template
		if strings.Contains(first, "{") {
			st, err := template.New(p.rest.Name(), first, template.Options{
				Anchor: template.AnchorBoth,
				Rules:  p.rest.Rules(),
			})
			if err != nil {
				continue
			}
			segTmpl = st.ApplyData(p.rest.EmbeddedData())
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			var data map[string]string
			if segTmpl == nil {
				if entry.Name() != first {
					continue
				}
			} else {
				parsed, err := segTmpl.Parse(entry.Name())
				if err != nil {
					continue
				}
				data = parsed
			}

			next, err := p.rest.Duplicate(p.rest.Name(), remainder)
			if err != nil {
				continue
			}
			if data != nil {
				next = next.ApplyData(data)
			}

			name := entry.Name()
			if subSeen[name] == nil {
				subSeen[name] = make(map[probeKey]bool)
			}
			key := probeKey{tmpl: p.tmpl, rest: next.Pattern()}
			if subSeen[name][key] {
				continue
			}
			subSeen[name][key] = true
			subProbes[name] = append(subProbes[name], probe{tmpl: p.tmpl, rest: next})
		}
	}

	subdirs := make([]string, 0, len(subProbes))
	for name := range subProbes {
		subdirs = append(subdirs, name)
	}
	sort.Strings(subdirs)

	for _, name := range subdirs {
		if err := g.walk(ctx, dir+"/"+name, subProbes[name]); err != nil {
			return err
		}
	}
	return nil
}

// emit records a match, resolving clashes in favor of the candidate
// with fewer keys left unresolved at the final level, ties broken by
// the canonical template order.
func (g *globber) emit(tmpl *template.Template, path string, remaining int) {
	cand := candidate{
		match:     Match{Template: tmpl, Path: path},
		remaining: remaining,
	}
	existing, ok := g.matches[path]
	if !ok || better(cand, existing) {
		g.matches[path] = cand
	}
}

func better(a, b candidate) bool {
	if a.remaining != b.remaining {
		return a.remaining < b.remaining
	}
	return a.match.Template.CompareKey() < b.match.Template.CompareKey()
}

func matchesKind(pathType template.PathType, entry fs.DirEntry) bool {
	switch pathType {
	case template.PathTypeFile:
		return !entry.IsDir()
	case template.PathTypeDir, template.PathTypeSeq:
		return entry.IsDir()
	}
	return true
}
