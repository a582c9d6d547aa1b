package sim

import (
	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/systems"
	"github.com/pthm-cable/wallwalk/telemetry"
)

// AgentView is a read-only copy of one agent for the viewer and tests.
type AgentView struct {
	Agent   components.Agent
	State   components.AgentState
	Rig     components.CameraRig
	Capsule components.Capsule
	Pose    components.Pose
	Report  systems.TickReport // zero until the agent has ticked
}

// Snapshot returns a copy of every agent in spawn order.
func (s *Sim) Snapshot() []AgentView {
	views := make([]AgentView, 0, len(s.entities))
	for _, e := range s.entities {
		agent, state, rig, capsule, pose := s.agentMapper.Get(e)
		views = append(views, AgentView{
			Agent:   *agent,
			State:   *state,
			Rig:     *rig,
			Capsule: *capsule,
			Pose:    *pose,
			Report:  s.reports[agent.ID],
		})
	}
	return views
}

// Agent returns a copy of one agent.
func (s *Sim) Agent(id uint32) (AgentView, bool) {
	e, ok := s.byID[id]
	if !ok {
		return AgentView{}, false
	}
	agent, state, rig, capsule, pose := s.agentMapper.Get(e)
	return AgentView{
		Agent:   *agent,
		State:   *state,
		Rig:     *rig,
		Capsule: *capsule,
		Pose:    *pose,
		Report:  s.reports[id],
	}, true
}

// State returns a pointer to an agent's live state, for tools that edit it
// between steps.
func (s *Sim) State(id uint32) *components.AgentState {
	e, ok := s.byID[id]
	if !ok {
		return nil
	}
	return s.stateMap.Get(e)
}

// snapshot captures every agent for saving to disk.
func (s *Sim) snapshot(bm *telemetry.Bookmark) *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		Seed:     s.cfg.Sim.Seed,
		Tick:     s.tick,
		Bookmark: bm,
	}
	for _, e := range s.entities {
		agent, state, _, _, _ := s.agentMapper.Get(e)
		snap.Agents = append(snap.Agents, telemetry.NewAgentSnapshot(*agent, state))
	}
	return snap
}

// SaveSnapshot writes the current state under the output directory and
// returns the file path. Without an output directory nothing is written.
func (s *Sim) SaveSnapshot() (string, error) {
	return s.outputManager.WriteSnapshot(s.snapshot(nil))
}

// CaptureSnapshot returns the current state without writing it.
func (s *Sim) CaptureSnapshot() *telemetry.Snapshot {
	return s.snapshot(nil)
}
