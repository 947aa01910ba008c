package prefabs

import (
	"fmt"

	"github.com/milk9111/vrrig/xrinput"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

const RigSpecFile = "rig.yaml"

type RigSpec struct {
	Name          string           `yaml:"name"`
	WalkSpeed     float64          `yaml:"walk_speed"`
	RotationSpeed float64          `yaml:"rotation_speed"`
	Transform     TransformSpec    `yaml:"transform"`
	Head          HeadSpec         `yaml:"head"`
	Body          BodySpec         `yaml:"body"`
	Controllers   ControllersSpec  `yaml:"controllers"`
	Bindings      xrinput.Bindings `yaml:"bindings"`
	Physics       PhysicsSpec      `yaml:"physics"`
}

type TransformSpec struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	Z   float64 `yaml:"z"`
	Yaw float64 `yaml:"yaw"`
}

type HeadSpec struct {
	Height float64 `yaml:"height"`
}

type BodySpec struct {
	Radius   float64 `yaml:"radius"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
}

type ControllersSpec struct {
	AttachDelayFrames int     `yaml:"attach_delay_frames"`
	HandOffsetX       float64 `yaml:"hand_offset_x"`
	HandOffsetY       float64 `yaml:"hand_offset_y"`
}

type PhysicsSpec struct {
	Gravity         float64 `yaml:"gravity"`
	FloorHeight     float64 `yaml:"floor_height"`
	ArenaHalfExtent float64 `yaml:"arena_half_extent"`
	Walls           bool    `yaml:"walls"`
	RespawnBelow    float64 `yaml:"respawn_below"`
}

// ApplyDefaults fills zero values that have no meaningful zero.
func (s *RigSpec) ApplyDefaults() {
	if s == nil {
		return
	}
	if s.Name == "" {
		s.Name = "player_rig"
	}
	if s.WalkSpeed <= 0 {
		s.WalkSpeed = 6.0
	}
	if s.RotationSpeed <= 0 {
		s.RotationSpeed = 3.0
	}
	if s.Head.Height <= 0 {
		s.Head.Height = 1.6
	}
	if s.Body.Radius <= 0 {
		s.Body.Radius = 0.3
	}
	if s.Body.Mass <= 0 {
		s.Body.Mass = 70
	}
	if s.Controllers.AttachDelayFrames < 0 {
		s.Controllers.AttachDelayFrames = 0
	}
	s.Bindings = s.Bindings.WithDefaults()
}

func LoadRigSpec() (*RigSpec, error) {
	spec, err := LoadSpec[RigSpec](RigSpecFile)
	if err != nil {
		return nil, err
	}
	spec.ApplyDefaults()
	return &spec, nil
}

// ParseRigSpec decodes a rig spec from raw YAML and applies defaults.
func ParseRigSpec(data []byte) (*RigSpec, error) {
	var spec RigSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal rig spec: %w", err)
	}
	spec.ApplyDefaults()
	return &spec, nil
}
