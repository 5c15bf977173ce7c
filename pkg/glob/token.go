package glob

import (
	"context"
	"sort"
	"strings"

	"github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/paths"
	"github.com/pathforge/pathforge/pkg/template"
)

// Token enumerates the distinct on-disk values of one token. The
// template is cropped to the directory level that introduces the
// token, that single directory is listed, and each entry name is
// parsed and validated against the one-segment tail. Values are
// returned sorted, without duplicates.
//
// Every level above the token must already be literal; apply data
// first when it is not.
func Token(ctx context.Context, fsys FS, tmpl *template.Template, token string) ([]string, error) {
	cropped, err := tmpl.CropToToken(token, true)
	if err != nil {
		return nil, err
	}

	dir := paths.Dir(cropped.Pattern())
	if strings.Contains(dir, "{") {
		return nil, errors.Newf(
			errors.ErrPatternInvalid,
			"cannot enumerate %q: directory above it is not literal in %q",
			token, tmpl.Pattern())
	}
	if !paths.IsAbs(dir) {
		return nil, errors.Newf(
			errors.ErrRootNotAbs,
			"cannot enumerate %q: template %q has no absolute root",
			token, tmpl.Pattern())
	}

	tail, err := template.New(cropped.Name(), paths.Base(cropped.Pattern()), template.Options{
		Anchor: template.AnchorBoth,
		Rules:  cropped.Rules(),
	})
	if err != nil {
		return nil, err
	}
	tail = tail.ApplyData(cropped.EmbeddedData())

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrAborted, "glob aborted")
	}
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, nil
	}

	// Token values name directories, except when the token lives in
	// the template's final segment; there the path type governs.
	final := cropped.Pattern() == tmpl.Pattern()

	seen := make(map[string]bool)
	var values []string
	for _, entry := range entries {
		if final {
			if !matchesKind(tmpl.PathType(), entry) {
				continue
			}
		} else if !entry.IsDir() {
			continue
		}
		data, err := tail.Parse(entry.Name())
		if err != nil {
			continue
		}
		value, ok := data[token]
		if !ok || seen[value] {
			continue
		}
		seen[value] = true
		values = append(values, value)
	}
	sort.Strings(values)
	return values, nil
}
