// Package config provides configuration loading and access for the controller.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable of the controller and its host simulation.
// The controller copies what it needs at construction; nothing here is
// re-read during a tick.
type Config struct {
	Sim       SimConfig       `yaml:"sim"`
	Logging   LoggingConfig   `yaml:"logging"`
	Look      LookConfig      `yaml:"look"`
	Movement  MovementConfig  `yaml:"movement"`
	Jump      JumpConfig      `yaml:"jump"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Camera    CameraConfig    `yaml:"camera"`
	Level     LevelConfig     `yaml:"level"`
	Agents    []AgentConfig   `yaml:"agents"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Screen    ScreenConfig    `yaml:"screen"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimConfig holds the fixed-step simulation parameters.
type SimConfig struct {
	DT   float64 `yaml:"dt"`
	Seed int64   `yaml:"seed"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LookConfig holds mouse look parameters.
type LookConfig struct {
	MouseSensitivity  float64 `yaml:"mouse_sensitivity"`
	VerticalLookLimit float64 `yaml:"vertical_look_limit"` // degrees
}

// MovementConfig holds planar movement parameters.
type MovementConfig struct {
	MoveSpeed      float64 `yaml:"move_speed"`
	SprintSpeed    float64 `yaml:"sprint_speed"`
	Responsiveness float64 `yaml:"responsiveness"` // approach rate toward desired velocity
	StopDamping    float64 `yaml:"stop_damping"`   // decay rate with no input
	InputDeadzone  float64 `yaml:"input_deadzone"`
	ResidualSpeed  float64 `yaml:"residual_speed"` // planar speeds below this snap to zero
}

// JumpConfig holds jump parameters.
type JumpConfig struct {
	Height     float64 `yaml:"height"`
	Cooldown   float64 `yaml:"cooldown"`
	Gravity    float64 `yaml:"gravity"`     // virtual, sizes the impulse only
	AirGravity float64 `yaml:"air_gravity"` // pull along -up while airborne
}

// SurfaceConfig holds surface detection and orientation parameters.
type SurfaceConfig struct {
	CapsuleHeight        float64 `yaml:"capsule_height"`
	CapsuleRadius        float64 `yaml:"capsule_radius"`
	GroundCheckDistance  float64 `yaml:"ground_check_distance"`
	SurfaceCheckDistance float64 `yaml:"surface_check_distance"`
	EdgeProbeDistance    float64 `yaml:"edge_probe_distance"`
	LayerMask            uint32  `yaml:"layer_mask"`
	RotationSpeed        float64 `yaml:"rotation_speed"`
	StickForce           float64 `yaml:"stick_force"`
	DirectionProbing     bool    `yaml:"direction_probing"`
	EdgeProbing          bool    `yaml:"edge_probing"`
	SphereBlend          float64 `yaml:"sphere_blend"` // weight of the sphere-cast normal, 0 disables
	SphereRadius         float64 `yaml:"sphere_radius"`
	MinWrapAngle         float64 `yaml:"min_wrap_angle"` // degrees
	MaxWrapAngle         float64 `yaml:"max_wrap_angle"` // degrees
	SingleStage          bool    `yaml:"single_stage"`   // skip the second slerp on the full rotation
}

// CameraConfig holds camera stabilisation parameters.
type CameraConfig struct {
	TransitionSpeed float64 `yaml:"transition_speed"`
	RollSmoothing   float64 `yaml:"roll_smoothing"`
	StrafeTilt      bool    `yaml:"strafe_tilt"`
	MaxStrafeTilt   float64 `yaml:"max_strafe_tilt"` // degrees
	TiltSpeed       float64 `yaml:"tilt_speed"`
	EyeHeight       float64 `yaml:"eye_height"`
}

// Vec3 is a YAML-friendly [x, y, z] triple.
type Vec3 [3]float64

// Vec converts to a gonum vector.
func (v Vec3) Vec() r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// LevelConfig describes the static geometry of the host collision world.
type LevelConfig struct {
	Room  RoomConfig  `yaml:"room"`
	Boxes []BoxConfig `yaml:"boxes"`
}

// RoomConfig is a closed axis-aligned room; its six faces are walkable.
type RoomConfig struct {
	Min Vec3 `yaml:"min"`
	Max Vec3 `yaml:"max"`
}

// BoxConfig is a solid axis-aligned box inside the room.
type BoxConfig struct {
	Name  string `yaml:"name"`
	Min   Vec3   `yaml:"min"`
	Max   Vec3   `yaml:"max"`
	Layer uint32 `yaml:"layer"` // 0 = layer 1
}

// AgentConfig describes an agent spawned at startup.
type AgentConfig struct {
	Name     string  `yaml:"name"`
	Position Vec3    `yaml:"position"`
	Yaw      float64 `yaml:"yaw"`   // degrees around world up
	Input    string  `yaml:"input"` // neutral, wander, script:<path>, keyboard
	Seed     int64   `yaml:"seed"`  // wander seed, 0 = sim seed
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
	TraceEvery  int     `yaml:"trace_every"`
	PerfWindow  int     `yaml:"perf_window"`
}

// ScreenConfig holds debug viewer display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CastDistance     float64 // capsule half height + ground check margin
	JumpVelocity     float64 // sqrt(2*height*|gravity|)
	StatsWindowTicks int     // Telemetry.StatsWindow in ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate reports every tunable that would make the controller misbehave.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Sim.DT > 0 && !math.IsInf(c.Sim.DT, 0), "sim.dt must be positive, got %v", c.Sim.DT)
	check(c.Look.VerticalLookLimit >= 0 && c.Look.VerticalLookLimit <= 90,
		"look.vertical_look_limit must be in [0, 90], got %v", c.Look.VerticalLookLimit)
	check(c.Movement.MoveSpeed >= 0, "movement.move_speed must not be negative")
	check(c.Movement.SprintSpeed >= 0, "movement.sprint_speed must not be negative")
	check(c.Movement.Responsiveness >= 0, "movement.responsiveness must not be negative")
	check(c.Movement.StopDamping >= 0, "movement.stop_damping must not be negative")
	check(c.Jump.Height >= 0, "jump.height must not be negative")
	check(c.Jump.Cooldown >= 0, "jump.cooldown must not be negative")
	check(c.Jump.AirGravity >= 0, "jump.air_gravity must not be negative")
	check(c.Surface.CapsuleHeight > 0, "surface.capsule_height must be positive")
	check(c.Surface.CapsuleRadius > 0 && c.Surface.CapsuleRadius <= c.Surface.CapsuleHeight/2,
		"surface.capsule_radius must be in (0, capsule_height/2], got %v", c.Surface.CapsuleRadius)
	check(c.Surface.GroundCheckDistance >= 0, "surface.ground_check_distance must not be negative")
	check(c.Surface.RotationSpeed > 0, "surface.rotation_speed must be positive")
	check(c.Surface.StickForce >= 0, "surface.stick_force must not be negative")
	check(c.Surface.SphereBlend >= 0 && c.Surface.SphereBlend <= 1,
		"surface.sphere_blend must be in [0, 1], got %v", c.Surface.SphereBlend)
	check(c.Surface.SphereRadius >= 0, "surface.sphere_radius must not be negative")
	check(c.Surface.MinWrapAngle >= 0 && c.Surface.MinWrapAngle < c.Surface.MaxWrapAngle && c.Surface.MaxWrapAngle <= 180,
		"surface wrap angles must satisfy 0 <= min < max <= 180, got %v/%v", c.Surface.MinWrapAngle, c.Surface.MaxWrapAngle)
	check(c.Camera.TransitionSpeed >= 0, "camera.transition_speed must not be negative")
	check(c.Camera.RollSmoothing >= 0, "camera.roll_smoothing must not be negative")
	check(c.Telemetry.TraceEvery >= 0, "telemetry.trace_every must not be negative")

	for i, b := range c.Level.Boxes {
		for axis := 0; axis < 3; axis++ {
			check(b.Min[axis] < b.Max[axis], "level.boxes[%d] (%s): min must be below max on every axis", i, b.Name)
		}
	}
	for axis := 0; axis < 3; axis++ {
		check(c.Level.Room.Min[axis] < c.Level.Room.Max[axis], "level.room: min must be below max on every axis")
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.CastDistance = c.Surface.CapsuleHeight*0.5 + c.Surface.GroundCheckDistance
	c.Derived.JumpVelocity = math.Sqrt(c.Jump.Height * 2 * math.Abs(c.Jump.Gravity))

	ticks := int(math.Round(c.Telemetry.StatsWindow / c.Sim.DT))
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.StatsWindowTicks = ticks

	if c.Telemetry.TraceEvery == 0 {
		c.Telemetry.TraceEvery = 1
	}
	for i := range c.Agents {
		if c.Agents[i].Input == "" {
			c.Agents[i].Input = "neutral"
		}
		if c.Agents[i].Seed == 0 {
			c.Agents[i].Seed = c.Sim.Seed + int64(i)
		}
	}
}

// Recompute refreshes derived values after fields were changed in code
// (the tuning tool edits a loaded config in place).
func (c *Config) Recompute() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
