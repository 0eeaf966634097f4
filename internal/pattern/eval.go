package pattern

import "github.com/coreman2200/ledcore/internal/colormath"

// Result is a pattern's per-pixel output: either a scalar palette
// position (IsColor false; the raw expression value, which
// Palette.Sample reduces modulo 1) or a fully resolved color (IsColor
// true).
type Result struct {
	IsColor bool
	Pos     float64
	Color   colormath.RGB
}

// Compiled is a pattern's compiled form: a tree that can be evaluated
// many times with varying (t, x, prev).
type Compiled struct {
	root     node
	isColor  bool
	colorFn  *colorCallNode
}

func compileNode(root node) *Compiled {
	if cc, ok := root.(*colorCallNode); ok {
		return &Compiled{root: root, isColor: true, colorFn: cc}
	}
	return &Compiled{root: root, isColor: false}
}

// Eval invokes the compiled pattern against (t, x, prevColor). vars
// supplies any additional named values (group scale, speed are already
// folded into t/x by the caller — vars is for future extension and may
// be nil).
func (c *Compiled) Eval(t, x float64, prev colormath.RGB, vars map[string]float64) Result {
	e := &env{t: t, x: x, prevR: prev.R, prevG: prev.G, prevB: prev.B, vars: vars}
	if c.isColor {
		args := make([]float64, len(c.colorFn.args))
		for i, a := range c.colorFn.args {
			args[i] = a.eval(e)
		}
		switch c.colorFn.kind {
		case "hsv":
			return Result{IsColor: true, Color: colormath.HSVToRGB(colormath.HSV{H: args[0], S: args[1], V: args[2]})}
		default: // "rgb"
			return Result{IsColor: true, Color: colormath.RGB{R: args[0], G: args[1], B: args[2]}}
		}
	}
	return Result{IsColor: false, Pos: c.root.eval(e)}
}
