package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstWall    BookmarkType = "first_wall"
	BookmarkFirstCeiling BookmarkType = "first_ceiling"
	BookmarkLongFall     BookmarkType = "long_fall"
	BookmarkErrorBurst   BookmarkType = "error_burst"
	BookmarkSurfaceSpree BookmarkType = "surface_spree"
)

// Up-axis tilts, in degrees from world up, that count as walls and ceilings.
const (
	wallAngle    = 60.0
	ceilingAngle = 150.0
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        uint64       `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark at info level.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments from window stats.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	seenWall    bool
	seenCeiling bool
	falling     bool // previous window was entirely airborne
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkFirstWall,
		bd.checkFirstCeiling,
		bd.checkLongFall,
		bd.checkErrorBurst,
		bd.checkSurfaceSpree,
	} {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFirstWall(stats WindowStats) *Bookmark {
	if bd.seenWall || stats.MaxUpAngle < wallAngle {
		return nil
	}
	bd.seenWall = true
	return &Bookmark{
		Type:        BookmarkFirstWall,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Up axis tilted %.0f° from world up", stats.MaxUpAngle),
	}
}

func (bd *BookmarkDetector) checkFirstCeiling(stats WindowStats) *Bookmark {
	if bd.seenCeiling || stats.MaxUpAngle < ceilingAngle {
		return nil
	}
	bd.seenCeiling = true
	return &Bookmark{
		Type:        BookmarkFirstCeiling,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Walking inverted at %.0f° from world up", stats.MaxUpAngle),
	}
}

// checkLongFall fires once when a whole window passes with nobody grounded.
func (bd *BookmarkDetector) checkLongFall(stats WindowStats) *Bookmark {
	airborne := stats.Agents > 0 && stats.GroundedFraction == 0
	defer func() { bd.falling = airborne }()
	if !airborne || bd.falling {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkLongFall,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No agent grounded for %d ticks", stats.WindowEndTick-stats.WindowStartTick),
	}
}

func (bd *BookmarkDetector) checkErrorBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 2 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.QueryErrors + h.MoveErrors
	}
	avg := float64(total) / float64(len(history))
	current := stats.QueryErrors + stats.MoveErrors

	if current >= 10 && float64(current) > avg*2 {
		return &Bookmark{
			Type:        BookmarkErrorBurst,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d failed queries or moves, average %.1f", current, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSurfaceSpree(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 2 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.SurfaceChanges
	}
	avg := float64(total) / float64(len(history))

	if stats.SurfaceChanges >= 5 && float64(stats.SurfaceChanges) > avg*2 {
		return &Bookmark{
			Type:        BookmarkSurfaceSpree,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d surface changes, %.1fx average (%.1f)", stats.SurfaceChanges, float64(stats.SurfaceChanges)/max(avg, 1), avg),
		}
	}
	return nil
}
