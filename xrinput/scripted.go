package xrinput

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ScriptedGamepad drives both controllers from a tengo script. Each Step the
// script sees `t` (seconds since start), `dt` and `frame`, and assigns the
// `left` and `right` arrays using the xr-standard axis layout. An array the
// script leaves undefined makes that hand expose no axes.
type ScriptedGamepad struct {
	compiled *tengo.Compiled
	elapsed  float64
	frame    int
	left     Gamepad
	right    Gamepad
}

func NewScriptedGamepad(src []byte) (*ScriptedGamepad, error) {
	compiled, err := compileScript(src)
	if err != nil {
		return nil, err
	}
	return &ScriptedGamepad{compiled: compiled}, nil
}

// Reload swaps in a new script and restarts the clock. Sources handed out
// earlier keep working. On error the previous script stays active.
func (s *ScriptedGamepad) Reload(src []byte) error {
	compiled, err := compileScript(src)
	if err != nil {
		return err
	}
	s.compiled = compiled
	s.elapsed = 0
	s.frame = 0
	s.left.Axes = s.left.Axes[:0]
	s.right.Axes = s.right.Axes[:0]
	return nil
}

func compileScript(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript(src)
	_ = script.Add("t", 0.0)
	_ = script.Add("dt", 0.0)
	_ = script.Add("frame", 0)
	_ = script.Add("left", nil)
	_ = script.Add("right", nil)
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("xrinput: compile script: %w", err)
	}
	return compiled, nil
}

// Step advances the script clock by dt and re-runs the script.
func (s *ScriptedGamepad) Step(dt float64) error {
	if s == nil || s.compiled == nil {
		return fmt.Errorf("xrinput: nil scripted gamepad")
	}
	if err := s.compiled.Set("t", s.elapsed); err != nil {
		return err
	}
	if err := s.compiled.Set("dt", dt); err != nil {
		return err
	}
	if err := s.compiled.Set("frame", s.frame); err != nil {
		return err
	}
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("xrinput: run script: %w", err)
	}
	s.elapsed += dt
	s.frame++

	s.left.Axes = readAxes(s.compiled, "left", s.left.Axes[:0])
	s.right.Axes = readAxes(s.compiled, "right", s.right.Axes[:0])
	return nil
}

// Source returns the controller source for hand.
func (s *ScriptedGamepad) Source(hand Hand) Source {
	if hand == HandRight {
		return &s.right
	}
	return &s.left
}

func readAxes(c *tengo.Compiled, name string, dst []float64) []float64 {
	if !c.IsDefined(name) {
		return nil
	}
	v := c.Get(name)
	if v.IsUndefined() {
		return nil
	}
	for _, item := range v.Array() {
		dst = append(dst, toFloat(item))
	}
	return dst
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return clampUnit(n)
	case int64:
		return clampUnit(float64(n))
	case int:
		return clampUnit(float64(n))
	default:
		return 0
	}
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
