package main

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/vrrig/common"
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
	"github.com/milk9111/vrrig/ecs/entity"
	"github.com/milk9111/vrrig/ecs/system"
	"github.com/milk9111/vrrig/xrinput"
	"golang.org/x/image/colornames"
)

// pixelsPerMeter scales the top-down view. World X runs right and world -Z
// runs up the screen.
const pixelsPerMeter = 16

var (
	floorColor   = color.NRGBA{R: 0x22, G: 0x26, B: 0x2e, A: 0xff}
	gridColor    = color.NRGBA{R: 0x33, G: 0x38, B: 0x44, A: 0xff}
	idleHandTint = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

func toScreen(p mgl64.Vec3) (float32, float32) {
	cx, cy := float64(common.BaseWidth)/2, float64(common.BaseHeight)/2
	return float32(cx + p[0]*pixelsPerMeter), float32(cy + p[2]*pixelsPerMeter)
}

func drawArena(screen *ebiten.Image, w *ecs.World, rig entity.Rig, cfg system.PhysicsConfig) {
	screen.Fill(colornames.Black)

	if h := cfg.ArenaHalfExtent; h > 0 {
		x0, y0 := toScreen(mgl64.Vec3{-h, 0, -h})
		size := float32(2 * h * pixelsPerMeter)
		vector.FillRect(screen, x0, y0, size, size, floorColor, false)
		for m := -h; m <= h; m += 2 {
			ax, ay := toScreen(mgl64.Vec3{m, 0, -h})
			bx, by := toScreen(mgl64.Vec3{m, 0, h})
			vector.StrokeLine(screen, ax, ay, bx, by, 1, gridColor, false)
			ax, ay = toScreen(mgl64.Vec3{-h, 0, m})
			bx, by = toScreen(mgl64.Vec3{h, 0, m})
			vector.StrokeLine(screen, ax, ay, bx, by, 1, gridColor, false)
		}
		border := colornames.Slategray
		if cfg.Walls {
			border = colornames.Orange
		}
		vector.StrokeRect(screen, x0, y0, size, size, 2, border, true)
	}

	if m, ok := ecs.Get(w, rig.Root, component.MovementComponent.Kind()); ok {
		sx, sy := toScreen(m.SpawnPoint)
		vector.StrokeCircle(screen, sx, sy, 4, 1, colornames.Lightgreen, true)
	}

	pos, _, ok := system.WorldPose(w, rig.Root)
	if !ok {
		return
	}
	radius := 0.3
	if body, ok := ecs.Get(w, rig.Root, component.PhysicsBodyComponent.Kind()); ok {
		radius = body.Radius
	}
	px, py := toScreen(pos)
	vector.FillCircle(screen, px, py, float32(radius*pixelsPerMeter), colornames.Steelblue, true)

	if fwd, ok := system.Forward(w, rig.Head); ok {
		if dir, ok := common.Normalize(common.Flatten(fwd)); ok {
			hx, hy := toScreen(pos.Add(dir.Mul(1.5)))
			vector.StrokeLine(screen, px, py, hx, hy, 2, colornames.Gold, true)
		}
	}

	for _, hand := range []ecs.Entity{rig.Left, rig.Right} {
		drawHand(screen, w, hand)
	}
}

func drawHand(screen *ebiten.Image, w *ecs.World, e ecs.Entity) {
	pos, _, ok := system.WorldPose(w, e)
	if !ok {
		return
	}
	var tint color.Color = idleHandTint
	if ecs.Has(w, e, component.ControllerInputComponent.Kind()) {
		tint = colornames.Tomato
		if c, ok := ecs.Get(w, e, component.XRControllerComponent.Kind()); ok && c.Hand == xrinput.HandRight {
			tint = colornames.Mediumpurple
		}
	}
	x, y := toScreen(pos)
	vector.FillCircle(screen, x, y, 3, tint, true)
}
