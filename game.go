package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/vrrig/common"
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
	"github.com/milk9111/vrrig/ecs/entity"
	"github.com/milk9111/vrrig/ecs/system"
	"github.com/milk9111/vrrig/input"
	"github.com/milk9111/vrrig/prefabs"
	"github.com/milk9111/vrrig/xrinput"
	"golang.design/x/clipboard"
)

// lookSensitivity converts dragged pixels to radians of head rotation.
const lookSensitivity = 0.004

type Game struct {
	frames int
	debug  bool
	paused bool

	world      *ecs.World
	dispatcher *input.Dispatcher
	poller     *input.Poller
	movement   *system.MovementSystem
	physics    *system.PhysicsSystem
	rig        entity.Rig
	spec       *prefabs.RigSpec

	unsubscribe func()
	watcher     *prefabs.Watcher

	script     *xrinput.ScriptedGamepad
	scriptName string
	scriptErr  string

	clipboardErr error

	dragging     bool
	lastX, lastY int

	pauseUI    *ebitenui.UI
	hud        *HUD
	lastEvent  string
	lastEvents int
}

func NewGame(debug bool, scriptName string) (*Game, error) {
	spec, err := prefabs.LoadRigSpec()
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	g := &Game{
		debug:      debug,
		world:      ecs.NewWorld(),
		dispatcher: input.NewDispatcher(),
		movement:   system.NewMovementSystem(),
		spec:       spec,
		scriptName: scriptName,
		hud:        NewHUD(),
	}
	g.poller = input.NewPoller(g.dispatcher)

	if scriptName != "" {
		src, err := prefabs.LoadScript(scriptName)
		if err != nil {
			return nil, fmt.Errorf("game: load script %q (available: %s): %w", scriptName, strings.Join(prefabs.Scripts(), ", "), err)
		}
		g.script, err = xrinput.NewScriptedGamepad(src)
		if err != nil {
			return nil, fmt.Errorf("game: %w", err)
		}
	}

	g.physics = system.NewPhysicsSystem(system.PhysicsConfig{
		Gravity:         spec.Physics.Gravity,
		FloorHeight:     spec.Physics.FloorHeight,
		ArenaHalfExtent: spec.Physics.ArenaHalfExtent,
		Walls:           spec.Physics.Walls,
	})

	g.world.AddSystem(system.NewHeadLookSystem(g.lookDelta))
	g.world.AddSystem(system.NewControllerAttachSystem(spec.Controllers.AttachDelayFrames, g.sourceFor))
	g.world.AddSystem(g.movement)
	g.world.AddSystem(g.physics)
	g.world.AddSystem(system.NewRespawnSystem(g.physics, spec.Physics.RespawnBelow))

	g.rig, err = entity.BuildRig(g.world, spec, g.dispatcher, g.movement)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	g.unsubscribe = g.dispatcher.Subscribe(input.ListenerFuncs{
		OnKeyDown: g.onKeyDown,
		OnBlur:    func() { g.paused = true },
	})

	g.clipboardErr = clipboard.Init()
	if g.clipboardErr != nil {
		log.Printf("game: clipboard unavailable: %v", g.clipboardErr)
	}

	g.watcher = startWatcher()
	g.pauseUI = NewPauseUI(g)

	log.Printf("game: rig %q ready at %v (script=%q)", spec.Name, g.rig.Root, scriptName)
	return g, nil
}

func startWatcher() *prefabs.Watcher {
	dirs := []string{"prefabs", filepath.Join("prefabs", "scripts")}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			// running outside the source tree: embedded prefabs only
			return nil
		}
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		log.Printf("game: hot reload disabled: %v", err)
		return nil
	}
	return w
}

// Close releases listeners and the prefab watcher.
func (g *Game) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
	if rig, ok := entity.FindRig(g.world); ok {
		entity.DestroyRig(g.world, rig, g.movement)
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
}

func (g *Game) sourceFor(hand xrinput.Hand) xrinput.Source {
	if g.script != nil {
		return g.script.Source(hand)
	}
	return xrinput.NewEbitenGamepad(hand)
}

func (g *Game) onKeyDown(code string) {
	switch code {
	case "Escape":
		g.paused = !g.paused
	case "KeyR":
		if g.paused {
			return
		}
		if err := ecs.Add(g.world, g.rig.Root, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{}); err != nil {
			log.Printf("game: respawn request: %v", err)
		}
	case "KeyC":
		g.copyPose()
	}
}

func (g *Game) copyPose() {
	pos, rot, ok := system.WorldPose(g.world, g.rig.Root)
	if !ok {
		return
	}
	pose := formatPose(pos, rot)
	if g.clipboardErr != nil {
		log.Printf("game: pose (clipboard unavailable):\n%s", pose)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(pose))
	log.Printf("game: copied pose to clipboard")
}

// formatPose renders a pose as a rig.yaml transform block.
func formatPose(pos mgl64.Vec3, rot mgl64.Quat) string {
	yaw := mgl64.RadToDeg(common.Yaw(rot))
	return fmt.Sprintf("transform:\n  x: %.3f\n  y: %.3f\n  z: %.3f\n  yaw: %.2f\n", pos[0], pos[1], pos[2], yaw)
}

func (g *Game) lookDelta() (float64, float64) {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		g.dragging = false
		return 0, 0
	}
	x, y := ebiten.CursorPosition()
	if !g.dragging {
		g.dragging = true
		g.lastX, g.lastY = x, y
		return 0, 0
	}
	dx, dy := x-g.lastX, y-g.lastY
	g.lastX, g.lastY = x, y
	return -float64(dx) * lookSensitivity, -float64(dy) * lookSensitivity
}

func (g *Game) Update() error {
	g.poller.Poll()
	g.reload()

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.frames++
	dt := 1 / float64(ebiten.TPS())

	if g.script != nil {
		if err := g.script.Step(dt); err != nil {
			if msg := err.Error(); msg != g.scriptErr {
				log.Printf("game: %v", err)
				g.scriptErr = msg
			}
		} else {
			g.scriptErr = ""
		}
	}

	g.world.Update(dt)

	g.lastEvents = g.world.Events().Len()
	for _, evt := range g.world.Events().Drain() {
		g.lastEvent = string(evt.Type)
		if g.debug || evt.Type == ecs.EventControllersReady {
			log.Printf("game: %s entity=%s data=%v", evt.Type, evt.Entity, evt.Data)
		}
	}
	return nil
}

// reload applies pending prefab edits without blocking the frame.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("game: watcher: %v", err)
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeSpec:
		if filepath.Base(change.Path) != prefabs.RigSpecFile {
			return
		}
		data, err := os.ReadFile(change.Path)
		if err != nil {
			log.Printf("game: reload %s: %v", change.Path, err)
			return
		}
		spec, err := prefabs.ParseRigSpec(data)
		if err != nil {
			log.Printf("game: reload %s: %v", change.Path, err)
			return
		}
		g.spec = spec
		system.ApplyTuning(g.world, spec.WalkSpeed, spec.RotationSpeed)
		if rig, ok := entity.FindRig(g.world); ok {
			if m, ok := ecs.Get(g.world, rig.Root, component.MovementComponent.Kind()); ok {
				m.Bindings = spec.Bindings
			}
		}
		log.Printf("game: reloaded %s (walk=%.2f rot=%.2f)", change.Path, spec.WalkSpeed, spec.RotationSpeed)
	case prefabs.ChangeScript:
		if g.script == nil || !sameScript(change.Path, g.scriptName) {
			return
		}
		src, err := prefabs.LoadScript(g.scriptName)
		if err != nil {
			log.Printf("game: reload %s: %v", change.Path, err)
			return
		}
		if err := g.script.Reload(src); err != nil {
			log.Printf("game: reload %s: %v", change.Path, err)
			return
		}
		log.Printf("game: reloaded %s", change.Path)
	}
}

func sameScript(path, name string) bool {
	base := strings.TrimSuffix(filepath.Base(path), ".tengo")
	return base == strings.TrimSuffix(filepath.Base(name), ".tengo")
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawArena(screen, g.world, g.rig, g.physics.Config())
	if g.debug {
		system.DrawPhysicsDebug(g.physics, screen, func(v cp.Vector) (float32, float32) {
			return toScreen(mgl64.Vec3{v.X, 0, v.Y})
		})
	}
	g.hud.Draw(screen, g.hudLines())

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
