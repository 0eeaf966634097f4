package pattern_test

import (
	"testing"

	"github.com/coreman2200/ledcore/internal/colormath"
	"github.com/coreman2200/ledcore/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileScalarExpression(t *testing.T) {
	r := pattern.NewRegistry()
	require.NoError(t, r.Register("id1", "x + t * 0.5"))

	p, ok := r.Get("id1")
	require.True(t, ok)

	res := p.Current().Eval(0.2, 0.4, colormath.RGB{}, nil)
	assert.False(t, res.IsColor)
	assert.InDelta(t, 0.5, res.Pos, 1e-9)
}

func TestCompileColorConstructor(t *testing.T) {
	r := pattern.NewRegistry()
	require.NoError(t, r.Register("id2", "hsv(x, 1, 1)"))

	p, ok := r.Get("id2")
	require.True(t, ok)

	res := p.Current().Eval(0, 0.25, colormath.RGB{}, nil)
	assert.True(t, res.IsColor)
	want := colormath.HSVToRGB(colormath.HSV{H: 0.25, S: 1, V: 1})
	assert.InDelta(t, want.R, res.Color.R, 1e-9)
	assert.InDelta(t, want.G, res.Color.G, 1e-9)
	assert.InDelta(t, want.B, res.Color.B, 1e-9)
}

func TestCompileFailureKeepsPriorForm(t *testing.T) {
	r := pattern.NewRegistry()
	require.NoError(t, r.Register("id3", "sin(t)"))
	p, _ := r.Get("id3")
	prior := p.Current()

	err := p.Compile("sin(t +")
	assert.Error(t, err)
	assert.Same(t, prior, p.Current())
}

func TestFunctionCallsAndPrevColor(t *testing.T) {
	r := pattern.NewRegistry()
	require.NoError(t, r.Register("id4", "prev_r + pulse(t, 0.5)"))
	p, _ := r.Get("id4")

	res := p.Current().Eval(0.1, 0, colormath.RGB{R: 0.3}, nil)
	assert.False(t, res.IsColor)
	want := 0.3 + colormath.Pulse(0.1, 0.5)
	assert.InDelta(t, want, res.Pos, 1e-9)
}

func TestUnknownFunctionErrors(t *testing.T) {
	r := pattern.NewRegistry()
	err := r.Register("id5", "nope(x)")
	assert.Error(t, err)
}

func TestWrongArityErrors(t *testing.T) {
	r := pattern.NewRegistry()
	err := r.Register("id6", "sin(x, t)")
	assert.Error(t, err)
}
