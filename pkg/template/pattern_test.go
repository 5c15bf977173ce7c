package template

import (
	"testing"

	"github.com/pathforge/pathforge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePattern(t *testing.T) {
	segs, err := parsePattern("{job}/{entity}/work/{task}_v{ver}.{extn}")
	require.NoError(t, err)

	var names []string
	for _, seg := range segs {
		if seg.isToken() {
			names = append(names, seg.token)
		}
	}
	assert.Equal(t, []string{"job", "entity", "task", "ver", "extn"}, names)
}

func TestParsePatternInlineExpression(t *testing.T) {
	segs, err := parsePattern("{task:[^_]+}_v{ver:[0-9]{3}}.{extn}")
	require.NoError(t, err)

	assert.Equal(t, "task", segs[0].token)
	assert.Equal(t, "[^_]+", segs[0].expr)
	assert.Equal(t, "ver", segs[2].token)
	assert.Equal(t, "[0-9]{3}", segs[2].expr)
}

func TestParsePatternUnbalanced(t *testing.T) {
	_, err := parsePattern("{job/{entity}")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternInvalid))
}

func TestParsePatternBadName(t *testing.T) {
	_, err := parsePattern("{bad name}")
	assert.Error(t, err)
}

func TestSegmentPlaceholderRoundTrip(t *testing.T) {
	for _, pattern := range []string{
		"{job}/{entity}",
		"{task:[^_]+}_v{ver}",
		"plain/literal",
	} {
		segs, err := parsePattern(pattern)
		require.NoError(t, err)
		var rebuilt string
		for _, seg := range segs {
			rebuilt += seg.placeholder()
		}
		assert.Equal(t, pattern, rebuilt)
	}
}

func TestExtractRepeatedToken(t *testing.T) {
	segs, err := parsePattern("{task}/{task}_v{ver}")
	require.NoError(t, err)
	comp, err := compileSegments(segs, AnchorEnd)
	require.NoError(t, err)

	data, err := comp.extract("anim/anim_v001")
	require.NoError(t, err)
	assert.Equal(t, "anim", data["task"])

	_, err = comp.extract("anim/comp_v001")
	assert.Error(t, err, "repeated token with differing values must not parse")
}

func TestExpandVariationsNone(t *testing.T) {
	variations, err := ExpandVariations("{a}/{b}")
	require.NoError(t, err)
	assert.Equal(t, []string{"{a}/{b}"}, variations)
}

func TestExpandVariationsSingle(t *testing.T) {
	variations, err := ExpandVariations("{a}[_{b}]")
	require.NoError(t, err)
	assert.Equal(t, []string{"{a}", "{a}_{b}"}, variations)
}

func TestExpandVariationsTwo(t *testing.T) {
	variations, err := ExpandVariations("{a}[_{b}][_{c}].{extn}")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"{a}.{extn}",
		"{a}_{c}.{extn}",
		"{a}_{b}.{extn}",
		"{a}_{b}_{c}.{extn}",
	}, variations)
}

func TestExpandVariationsDeterministic(t *testing.T) {
	first, err := ExpandVariations("{a}[_{b}][_{c}][_{d}]")
	require.NoError(t, err)
	assert.Len(t, first, 8)
	for i := 0; i < 20; i++ {
		again, err := ExpandVariations("{a}[_{b}][_{c}][_{d}]")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExpandVariationsUnbalanced(t *testing.T) {
	_, err := ExpandVariations("{a}[_{b}")
	assert.Error(t, err)
}

func TestFormatSegmentsMissing(t *testing.T) {
	segs, err := parsePattern("{a}/{b}/{c}")
	require.NoError(t, err)

	_, err = formatSegments(segs, map[string]string{"b": "B"})
	require.Error(t, err)
	assert.Equal(t, []string{"a", "c"}, errors.MissingKeys(err))
}
