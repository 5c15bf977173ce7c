package template

import (
	"testing"

	"github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, name, pattern string, opts Options) *Template {
	t.Helper()
	tmpl, err := New(name, pattern, opts)
	require.NoError(t, err)
	return tmpl
}

func TestFormatAndParseRoundTrip(t *testing.T) {
	tmpl := mustNew(t, "work", "{job}/{entity}/work/{task}_v{ver}.{extn}", Options{})
	data := map[string]string{
		"job":    "SHOW",
		"entity": "bunny",
		"task":   "anim",
		"ver":    "001",
		"extn":   "ma",
	}

	path, err := tmpl.Format(data)
	require.NoError(t, err)
	assert.Equal(t, "SHOW/bunny/work/anim_v001.ma", path)

	parsed, err := tmpl.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, data, parsed)
}

func TestFormatMissingKeysReportsAll(t *testing.T) {
	tmpl := mustNew(t, "work", "{job}/{entity}/work/{task}_v{ver}.{extn}", Options{})

	_, err := tmpl.Format(map[string]string{"job": "SHOW", "task": "anim"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingKeys))
	assert.Equal(t, []string{"entity", "extn", "ver"}, errors.MissingKeys(err))
}

func TestParseLiteralMismatch(t *testing.T) {
	tmpl := mustNew(t, "work", "{entity}/work/{task}.{extn}", Options{})
	_, err := tmpl.Parse("bunny/publish/anim.ma")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrParseFailed))
}

func TestParseValidatesTokens(t *testing.T) {
	rules := tokens.Rules{"ver": {IsDigit: true, StrictLen: true, Len: []int{3}}}
	tmpl := mustNew(t, "work", "{task}_v{ver}.{extn}", Options{Rules: rules})

	_, err := tmpl.Parse("anim_vABC.ma")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrParseFailed))

	data, err := tmpl.Parse("anim_v001.ma")
	require.NoError(t, err)
	assert.Equal(t, "001", data["ver"])
}

func TestParseAnchorEndIgnoresLeadingDirs(t *testing.T) {
	tmpl := mustNew(t, "work", "work/{task}_v{ver}.{extn}", Options{})
	data, err := tmpl.Parse("/mnt/jobs/SHOW/bunny/work/anim_v001.ma")
	require.NoError(t, err)
	assert.Equal(t, "anim", data["task"])
}

func TestParseInlineConstraint(t *testing.T) {
	tmpl := mustNew(t, "work", "{task:[^_]+}_v{ver}.{extn}", Options{})

	// With end anchoring the constrained token binds to the last
	// underscore-free run before _v, not the whole base name
	data, err := tmpl.Parse("anim_block_v001.ma")
	require.NoError(t, err)
	assert.Equal(t, "block", data["task"])

	data, err = tmpl.Parse("anim_v001.ma")
	require.NoError(t, err)
	assert.Equal(t, "anim", data["task"])
}

func TestApplyData(t *testing.T) {
	tmpl := mustNew(t, "work", "{entity}/work/{task}_v{ver}.{extn}", Options{})
	applied := tmpl.ApplyData(map[string]string{"entity": "bunny", "extn": "ma"})

	assert.Equal(t, "bunny/work/{task}_v{ver}.ma", applied.Pattern())
	assert.Equal(t, []string{"task", "ver"}, applied.Keys())
	assert.Equal(t,
		map[string]string{"entity": "bunny", "extn": "ma"}, applied.EmbeddedData())

	// The source template is untouched
	assert.Equal(t, "{entity}/work/{task}_v{ver}.{extn}", tmpl.Pattern())
}

func TestApplyDataIdempotent(t *testing.T) {
	tmpl := mustNew(t, "work", "{entity}/{task}.{extn}", Options{})
	values := map[string]string{"entity": "bunny"}

	once := tmpl.ApplyData(values)
	twice := once.ApplyData(values)
	assert.Equal(t, once.Pattern(), twice.Pattern())
	assert.Equal(t, once.EmbeddedData(), twice.EmbeddedData())
}

func TestApplyDataSkipsEmptyAndUnknown(t *testing.T) {
	tmpl := mustNew(t, "work", "{entity}/{task}", Options{})
	applied := tmpl.ApplyData(map[string]string{
		"entity": "",
		"other":  "value",
	})
	assert.Same(t, tmpl, applied)
}

func TestParseReturnsEmbeddedData(t *testing.T) {
	tmpl := mustNew(t, "work", "{entity}/work/{task}_v{ver}.{extn}", Options{})
	applied := tmpl.ApplyData(map[string]string{"entity": "bunny"})

	data, err := applied.Parse("bunny/work/anim_v001.ma")
	require.NoError(t, err)
	assert.Equal(t, "bunny", data["entity"])
	assert.Equal(t, "anim", data["task"])
}

func TestParseSeparateDir(t *testing.T) {
	tmpl := mustNew(t, "shot_cache",
		"{entity}/cache/{task}/{entity}_{task}_v{ver}.{extn}",
		Options{SeparateDir: true})

	data, err := tmpl.Parse("sh010/cache/anim/sh010_anim_v001.abc")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"entity": "sh010",
		"task":   "anim",
		"ver":    "001",
		"extn":   "abc",
	}, data)

	// Filename disagreeing with the directory tokens must not parse
	_, err = tmpl.Parse("sh010/cache/anim/sh020_anim_v001.abc")
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	tmpl := mustNew(t, "work", "{a}/{b}/{a}_{c}", Options{})
	assert.Equal(t, []string{"a", "b", "c"}, tmpl.Keys())
	assert.True(t, tmpl.HasKey("b"))
	assert.False(t, tmpl.HasKey("z"))
}

func TestTokenSpecs(t *testing.T) {
	tmpl := mustNew(t, "work", "{entity}/{task:[^_]+}_v{ver}", Options{})
	applied := tmpl.ApplyData(map[string]string{"entity": "bunny"})

	specs := applied.Tokens()
	require.Len(t, specs, 3)
	assert.Equal(t, TokenSpec{Name: "task", Expression: "[^_]+"}, specs[0])
	assert.Equal(t, TokenSpec{Name: "ver"}, specs[1])
	assert.Equal(t, TokenSpec{Name: "entity", Bound: true}, specs[2])
}

func TestCropToToken(t *testing.T) {
	tmpl := mustNew(t, "work", "/mnt/jobs/{job}/{entity}/work/{task}", Options{})

	cropped, err := tmpl.CropToToken("entity", true)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/jobs/{job}/{entity}", cropped.Pattern())

	excl, err := tmpl.CropToToken("entity", false)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/jobs/{job}", excl.Pattern())

	_, err = tmpl.CropToToken("missing", true)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTokenNotFound))
}

func TestSplitHardened(t *testing.T) {
	tmpl := mustNew(t, "work", "/mnt/jobs/SHOW/{entity}/{task}_v{ver}.{extn}", Options{})
	root, rest := tmpl.SplitHardened()
	assert.Equal(t, "/mnt/jobs/SHOW", root)
	assert.Equal(t, "{entity}/{task}_v{ver}.{extn}", rest.Pattern())

	literal := mustNew(t, "work", "/mnt/jobs/SHOW", Options{})
	root, rest = literal.SplitHardened()
	assert.Equal(t, "/mnt/jobs/SHOW", root)
	assert.Equal(t, "", rest.Pattern())
}

func TestToDir(t *testing.T) {
	tmpl := mustNew(t, "work", "{entity}/work/{task}_v{ver}.{extn}", Options{})
	assert.Equal(t, "{entity}/work", tmpl.ToDir().Pattern())
}

func TestIsAbsIsResolved(t *testing.T) {
	rel := mustNew(t, "work", "{entity}/{task}", Options{})
	assert.False(t, rel.IsAbs())
	assert.False(t, rel.IsResolved())

	abs := mustNew(t, "work", "/mnt/jobs/done", Options{})
	assert.True(t, abs.IsAbs())
	assert.True(t, abs.IsResolved())
}

func TestNameQualifiers(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		profile  string
		category string
	}{
		{"work", "", "", "work"},
		{"shot_work", "", "shot", "work"},
		{"maya_work", "maya", "", "work"},
		{"maya_shot_work", "maya", "shot", "work"},
		{"nuke_render", "nuke", "", "render"},
	}
	for _, tt := range tests {
		tmpl := mustNew(t, tt.name, "{a}", Options{})
		assert.Equal(t, tt.host, tmpl.Host(), tt.name)
		assert.Equal(t, tt.profile, tmpl.Profile(), tt.name)
		assert.Equal(t, tt.category, tmpl.Category(), tt.name)
	}
}

func TestNameQualifierReuseRejected(t *testing.T) {
	_, err := New("maya_work_maya", "{a}", Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrReservedWord))

	_, err = New("shot_work_asset", "{a}", Options{})
	assert.Error(t, err)
}

func TestSortOrder(t *testing.T) {
	generic := mustNew(t, "work", "{entity}/work/{task}.{extn}", Options{})
	hostQualified := mustNew(t, "maya_work", "{entity}/work/{task}.{extn}", Options{})
	profileQualified := mustNew(t, "shot_work", "{entity}/work/{task}.{extn}", Options{})
	longer := mustNew(t, "work", "{entity}/work/{task}_extra/{task}.{extn}", Options{})

	templates := []*Template{generic, profileQualified, longer, hostQualified}
	Sort(templates)

	assert.Same(t, hostQualified, templates[0])
	assert.Same(t, profileQualified, templates[1])
	assert.Same(t, longer, templates[2], "longer pattern sorts before shorter")
	assert.Same(t, generic, templates[3])
}

func TestDuplicateKeepsMetadata(t *testing.T) {
	rules := tokens.Rules{"ver": {IsDigit: true}}
	tmpl := mustNew(t, "maya_work", "{entity}/{task}_v{ver}", Options{
		Anchor:   AnchorStart,
		PathType: PathTypeFile,
		Rules:    rules,
	})
	applied := tmpl.ApplyData(map[string]string{"entity": "bunny"})

	dup, err := applied.Duplicate("maya_work", "{task}_v{ver}")
	require.NoError(t, err)
	assert.Equal(t, AnchorStart, dup.Anchor())
	assert.Equal(t, PathTypeFile, dup.PathType())
	assert.Equal(t, map[string]string{"entity": "bunny"}, dup.EmbeddedData())
	assert.Same(t, tmpl, dup.Source())
}
