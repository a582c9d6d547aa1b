package components

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Agent bundles identity and spawn data.
type Agent struct {
	ID            uint32      `inspect:"label"`
	Name          string      `inspect:"skip"`
	SpawnPosition r3.Vec      `inspect:"skip"`
	SpawnRotation quat.Number `inspect:"skip"`
	Respawns      int32       `inspect:"label"`
}
