package game

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pthm-cable/wallwalk/config"
)

// NewLogger builds the process logger from the logging config: a JSON or
// text slog handler writing to w at the configured level.
func NewLogger(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("logging level: %w", err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("logging format %q: want json or text", cfg.Format)
	}
}

// LogFrameStats logs the viewer's average frame phase timings.
func (g *Game) LogFrameStats() {
	attrs := make([]any, 0, 2*len(g.frameTimes.SortedNames())+2)
	attrs = append(attrs, "tick", g.sim.Tick())
	for _, name := range g.frameTimes.SortedNames() {
		attrs = append(attrs, name, g.frameTimes.Avg(name))
	}
	g.logger.Info("frame", attrs...)
}
