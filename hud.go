package main

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/vrrig/common"
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
	"github.com/milk9111/vrrig/ecs/system"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const hudLineHeight = 16

// HUD draws status text in the top-left corner.
type HUD struct {
	face text.Face
}

func NewHUD() *HUD {
	return &HUD{face: text.NewGoXFace(basicfont.Face7x13)}
}

func (h *HUD) Draw(screen *ebiten.Image, lines []string) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(12, 12)
	op.ColorScale.ScaleWithColor(colornames.White)
	op.LineSpacing = hudLineHeight
	text.Draw(screen, strings.Join(lines, "\n"), h.face, op)
}

func (g *Game) hudLines() []string {
	lines := []string{fmt.Sprintf("FPS: %.1f  frame: %d", ebiten.ActualFPS(), g.frames)}

	m, ok := ecs.Get(g.world, g.rig.Root, component.MovementComponent.Kind())
	if !ok {
		return append(lines, "no rig")
	}

	status := "waiting for controllers"
	if m.Ready {
		status = "controllers ready"
	}
	source := "gamepad"
	if g.script != nil {
		source = "script " + g.scriptName
	}
	lines = append(lines, fmt.Sprintf("%s (%s)", status, source))
	lines = append(lines, fmt.Sprintf("input x=%+.2f y=%+.2f rot=%+.2f", m.LastInput.X, m.LastInput.Y, m.LastInput.Rot))

	if pos, rot, ok := system.WorldPose(g.world, g.rig.Root); ok {
		lines = append(lines, fmt.Sprintf("pos %.2f, %.2f, %.2f  yaw %.1f", pos[0], pos[1], pos[2], mgl64.RadToDeg(common.Yaw(rot))))
	}
	if body, ok := ecs.Get(g.world, g.rig.Root, component.PhysicsBodyComponent.Kind()); ok {
		v := body.LinearVelocity()
		lines = append(lines, fmt.Sprintf("vel %.2f, %.2f, %.2f  grounded %t", v[0], v[1], v[2], body.Grounded))
	}
	if g.lastEvent != "" {
		lines = append(lines, "last event: "+g.lastEvent)
	}
	if g.scriptErr != "" {
		lines = append(lines, "script error: "+g.scriptErr)
	}

	if g.debug {
		lines = append(lines,
			fmt.Sprintf("walk %.2f  rotate %.2f", m.WalkSpeed, m.RotationSpeed),
			fmt.Sprintf("keys %v", m.Keys.Codes()),
			fmt.Sprintf("move dir %.2f, %.2f, %.2f", m.MoveDir[0], m.MoveDir[1], m.MoveDir[2]),
			fmt.Sprintf("entities %d  systems %d  events %d", len(ecs.Entities(g.world)), len(g.world.Systems()), g.lastEvents),
		)
	}

	return append(lines, "WASD move  arrows turn  RMB drag look  R respawn  C copy pose  Esc pause")
}
