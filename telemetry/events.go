// Package telemetry records locomotion events, sampled traces, window
// statistics, tick timings and state snapshots.
package telemetry

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// EventType identifies telemetry events.
type EventType string

const (
	EventJump          EventType = "jump"
	EventLand          EventType = "land"
	EventLeaveGround   EventType = "leave_ground"
	EventSurfaceChange EventType = "surface_change"
	EventQueryError    EventType = "query_error"
	EventMoveError     EventType = "move_error"
	EventRespawn       EventType = "respawn"
)

// Event is a single locomotion transition for one agent.
type Event struct {
	Tick    uint64    `csv:"tick"`
	AgentID uint32    `csv:"agent"`
	Type    EventType `csv:"event"`

	// Optional fields depending on event type
	Source  string  `csv:"source"` // probe that found the surface
	NormalX float64 `csv:"normal_x"`
	NormalY float64 `csv:"normal_y"`
	NormalZ float64 `csv:"normal_z"`
	Speed   float64 `csv:"speed"` // total speed at the time of the event
	Count   int     `csv:"count"` // failed queries for query_error
}

func (e Event) withNormal(n r3.Vec) Event {
	e.NormalX, e.NormalY, e.NormalZ = n.X, n.Y, n.Z
	return e
}

// Normal returns the surface normal carried by the event.
func (e Event) Normal() r3.Vec {
	return r3.Vec{X: e.NormalX, Y: e.NormalY, Z: e.NormalZ}
}

// NewJumpEvent creates a jump event.
func NewJumpEvent(tick uint64, agentID uint32, speed float64) Event {
	return Event{Type: EventJump, Tick: tick, AgentID: agentID, Speed: speed}
}

// NewLandEvent creates a landing event on the surface with normal n.
func NewLandEvent(tick uint64, agentID uint32, source string, n r3.Vec, speed float64) Event {
	return Event{Type: EventLand, Tick: tick, AgentID: agentID, Source: source, Speed: speed}.withNormal(n)
}

// NewLeaveGroundEvent creates an event for losing the surface without a jump.
func NewLeaveGroundEvent(tick uint64, agentID uint32, speed float64) Event {
	return Event{Type: EventLeaveGround, Tick: tick, AgentID: agentID, Speed: speed}
}

// NewSurfaceChangeEvent creates an event for a new target surface.
func NewSurfaceChangeEvent(tick uint64, agentID uint32, source string, n r3.Vec) Event {
	return Event{Type: EventSurfaceChange, Tick: tick, AgentID: agentID, Source: source}.withNormal(n)
}

// NewQueryErrorEvent creates an event for failed or unusable probe queries.
func NewQueryErrorEvent(tick uint64, agentID uint32, count int) Event {
	return Event{Type: EventQueryError, Tick: tick, AgentID: agentID, Count: count}
}

// NewMoveErrorEvent creates an event for a rejected capsule move.
func NewMoveErrorEvent(tick uint64, agentID uint32) Event {
	return Event{Type: EventMoveError, Tick: tick, AgentID: agentID}
}

// NewRespawnEvent creates a respawn event.
func NewRespawnEvent(tick uint64, agentID uint32) Event {
	return Event{Type: EventRespawn, Tick: tick, AgentID: agentID}
}
