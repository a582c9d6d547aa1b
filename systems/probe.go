package systems

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
)

// ProbeSource identifies which probe produced the accepted surface.
type ProbeSource uint8

const (
	SourceNone      ProbeSource = iota
	SourceDown                  // ray along -up
	SourceDirection             // ray along the movement direction
	SourceEdge                  // ray back under the feet past a ledge
)

// String returns the source name used in telemetry.
func (s ProbeSource) String() string {
	switch s {
	case SourceDown:
		return "down"
	case SourceDirection:
		return "direction"
	case SourceEdge:
		return "edge"
	default:
		return "none"
	}
}

// ProbeResult is the outcome of one surface probe.
type ProbeResult struct {
	Grounded    bool        `inspect:"bool"`
	Skipped     bool        `inspect:"bool"` // cooldown active, no queries issued
	Source      ProbeSource `inspect:"label"`
	Normal      r3.Vec      `inspect:"vec,fmt:%.3f"`
	Distance    float64     `inspect:"label,fmt:%.3f"`
	QueryErrors int         `inspect:"label"` // failed queries and unusable normals
}

// SurfaceProbe finds the supporting surface around an agent.
type SurfaceProbe struct {
	cfg      config.SurfaceConfig
	deadzone float64
	residual float64
	logger   *slog.Logger
}

// NewSurfaceProbe creates a probe with its own copy of the tunables.
func NewSurfaceProbe(cfg config.SurfaceConfig, movement config.MovementConfig, logger *slog.Logger) *SurfaceProbe {
	if logger == nil {
		logger = slog.Default()
	}
	return &SurfaceProbe{
		cfg:      cfg,
		deadzone: movement.InputDeadzone,
		residual: movement.ResidualSpeed,
		logger:   logger,
	}
}

// Probe updates Grounded and TargetUp and drops sinking velocity when a
// surface is found. While the jump cooldown runs nothing is queried and the
// agent is ungrounded.
func (p *SurfaceProbe) Probe(world CollisionWorld, state *components.AgentState, capsule components.Capsule, move r2.Vec) ProbeResult {
	if state.JumpCooldownRemaining > 0 {
		state.Grounded = false
		return ProbeResult{Skipped: true}
	}

	var res ProbeResult
	up := state.CurrentUp
	down := r3.Scale(-1, up)
	castDist := capsule.Height*0.5 + p.cfg.GroundCheckDistance
	mask := p.cfg.LayerMask

	var candidate r3.Vec
	if n, dist, ok := p.accept(&res, "down")(world.Raycast(state.Position, down, castDist, mask)); ok {
		candidate = n
		res.Source, res.Distance = SourceDown, dist
		if p.cfg.SphereBlend > 0 {
			sn, _, sok := p.accept(&res, "sphere")(world.SphereCast(state.Position, p.cfg.SphereRadius, down, castDist, mask))
			if sok {
				if merged, ok := geom.Normalize(geom.LerpVec(candidate, sn, p.cfg.SphereBlend)); ok {
					candidate = merged
				}
			}
		}
	}

	if p.cfg.DirectionProbing {
		forward, right := Frame(up, state.Yaw)
		best := -1.0
		for _, dir := range p.directions(move, forward, right) {
			n, dist, ok := p.accept(&res, "direction")(world.Raycast(state.Position, dir, p.cfg.SurfaceCheckDistance, mask))
			if !ok || !p.wraps(up, n) {
				continue
			}
			if best < 0 || dist < best {
				best = dist
				candidate = n
				res.Source, res.Distance = SourceDirection, dist
			}
		}
	}

	if res.Source == SourceNone && p.cfg.EdgeProbing {
		if back, ok := geom.Normalize(r3.Scale(-1, state.PlanarVelocity)); ok && r3.Norm(state.PlanarVelocity) >= p.residual {
			origin := r3.Add(state.Position, r3.Scale(castDist, down))
			n, dist, ok := p.accept(&res, "edge")(world.Raycast(origin, back, p.cfg.EdgeProbeDistance, mask))
			if ok && p.wraps(up, n) {
				candidate = n
				res.Source, res.Distance = SourceEdge, dist
			}
		}
	}

	if res.Source == SourceNone {
		state.Grounded = false
		return res
	}

	state.Grounded = true
	state.TargetUp = candidate
	if upVel := r3.Dot(state.Velocity, up); upVel < 0 {
		state.Velocity = r3.Sub(state.Velocity, r3.Scale(upVel, up))
	}
	res.Grounded = true
	res.Normal = candidate
	return res
}

// accept adapts a query result into a usable unit normal. Errors and
// degenerate normals count as misses and are tallied in res.
func (p *SurfaceProbe) accept(res *ProbeResult, probe string) func(components.Hit, bool, error) (r3.Vec, float64, bool) {
	return func(hit components.Hit, ok bool, err error) (r3.Vec, float64, bool) {
		if err != nil {
			res.QueryErrors++
			p.logger.Debug("surface query failed", "probe", probe, "error", err)
			return r3.Vec{}, 0, false
		}
		if !ok {
			return r3.Vec{}, 0, false
		}
		n, valid := geom.Normalize(hit.Normal)
		if !valid {
			res.QueryErrors++
			p.logger.Debug("surface query returned unusable normal", "probe", probe, "normal", hit.Normal)
			return r3.Vec{}, 0, false
		}
		return n, hit.Distance, true
	}
}

// wraps reports whether a surface is steep enough to wrap onto but not so
// close to antiparallel that it is the surface behind us.
func (p *SurfaceProbe) wraps(up, normal r3.Vec) bool {
	a := geom.AngleBetween(up, normal)
	return a > p.cfg.MinWrapAngle && a < p.cfg.MaxWrapAngle
}

// directions returns the probe rays selected by the move input.
func (p *SurfaceProbe) directions(move r2.Vec, forward, right r3.Vec) []r3.Vec {
	dirs := make([]r3.Vec, 0, 2)
	switch y := geom.Deadzone(move.Y, p.deadzone); {
	case y > 0:
		dirs = append(dirs, forward)
	case y < 0:
		dirs = append(dirs, r3.Scale(-1, forward))
	}
	switch x := geom.Deadzone(move.X, p.deadzone); {
	case x > 0:
		dirs = append(dirs, right)
	case x < 0:
		dirs = append(dirs, r3.Scale(-1, right))
	}
	return dirs
}
