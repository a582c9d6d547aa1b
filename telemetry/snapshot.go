package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the locomotion state of every agent for restoring a run.
type Snapshot struct {
	Version int    `json:"version"`
	Seed    int64  `json:"seed"`
	Tick    uint64 `json:"tick"`

	Agents []AgentSnapshot `json:"agents"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// AgentSnapshot is one agent's complete locomotion state.
type AgentSnapshot struct {
	ID       uint32 `json:"id"`
	Name     string `json:"name"`
	Respawns int32  `json:"respawns"`

	Position       [3]float64 `json:"position"`
	Rotation       [4]float64 `json:"rotation"` // w, x, y, z
	CurrentUp      [3]float64 `json:"current_up"`
	TargetUp       [3]float64 `json:"target_up"`
	Velocity       [3]float64 `json:"velocity"`
	PlanarVelocity [3]float64 `json:"planar_velocity"`

	Yaw                   float64 `json:"yaw"`
	Pitch                 float64 `json:"pitch"`
	Grounded              bool    `json:"grounded"`
	JumpCooldownRemaining float64 `json:"jump_cooldown"`
	StrafeTilt            float64 `json:"strafe_tilt"`
}

func vec3(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func fromVec3(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }

// NewAgentSnapshot captures s.
func NewAgentSnapshot(agent components.Agent, s *components.AgentState) AgentSnapshot {
	return AgentSnapshot{
		ID:       agent.ID,
		Name:     agent.Name,
		Respawns: agent.Respawns,

		Position:       vec3(s.Position),
		Rotation:       [4]float64{s.Rotation.Real, s.Rotation.Imag, s.Rotation.Jmag, s.Rotation.Kmag},
		CurrentUp:      vec3(s.CurrentUp),
		TargetUp:       vec3(s.TargetUp),
		Velocity:       vec3(s.Velocity),
		PlanarVelocity: vec3(s.PlanarVelocity),

		Yaw:                   s.Yaw,
		Pitch:                 s.Pitch,
		Grounded:              s.Grounded,
		JumpCooldownRemaining: s.JumpCooldownRemaining,
		StrafeTilt:            s.StrafeTilt,
	}
}

// State rebuilds the agent state recorded in the snapshot.
func (a AgentSnapshot) State() components.AgentState {
	return components.AgentState{
		Position:  fromVec3(a.Position),
		Rotation:  quat.Number{Real: a.Rotation[0], Imag: a.Rotation[1], Jmag: a.Rotation[2], Kmag: a.Rotation[3]},
		CurrentUp: fromVec3(a.CurrentUp),
		TargetUp:  fromVec3(a.TargetUp),

		Velocity:       fromVec3(a.Velocity),
		PlanarVelocity: fromVec3(a.PlanarVelocity),

		Yaw:                   a.Yaw,
		Pitch:                 a.Pitch,
		Grounded:              a.Grounded,
		JumpCooldownRemaining: a.JumpCooldownRemaining,
		StrafeTilt:            a.StrafeTilt,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
