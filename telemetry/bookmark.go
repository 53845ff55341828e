package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkClustering   BookmarkType = "clustering"
	BookmarkDispersal    BookmarkType = "dispersal"
	BookmarkClampStorm   BookmarkType = "clamp_storm"
	BookmarkSteadyState  BookmarkType = "steady_state"
	BookmarkFieldRestart BookmarkType = "field_restart"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentNeighborPeak float64 // peak mean neighbor count in recent history
	steadyWindowsCount int     // consecutive windows with a steady neighbor mean
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady state detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if stats.Resets > 0 {
		// History from the previous field says nothing about the new one.
		bd.clear()
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFieldRestart,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Field reset %d time(s), now %d particles", stats.Resets, stats.Particles),
		})
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Clustering: mean neighbor count > 2x rolling average
		if b := bd.checkClustering(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Dispersal: mean neighbor count dropped >30% from recent peak
		if b := bd.checkDispersal(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Clamp storm: clamp rate > 2x rolling average
		if b := bd.checkClampStorm(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Steady state: low variance of the neighbor mean over 5+ windows
		if b := bd.checkSteadyState(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.NeighborMean > bd.recentNeighborPeak {
		bd.recentNeighborPeak = stats.NeighborMean
	}

	return bookmarks
}

func (bd *BookmarkDetector) clear() {
	bd.historyIdx = 0
	bd.historyFull = false
	bd.recentNeighborPeak = 0
	bd.steadyWindowsCount = 0
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

func (bd *BookmarkDetector) checkClustering(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.NeighborMean
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.NeighborMean > avg*2.0 && stats.NeighborMean >= 1 {
		return &Bookmark{
			Type:        BookmarkClustering,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean neighbors %.2f is %.1fx average (%.2f)", stats.NeighborMean, stats.NeighborMean/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkDispersal(stats WindowStats) *Bookmark {
	if bd.recentNeighborPeak < 1 {
		return nil
	}

	drop := 1.0 - stats.NeighborMean/bd.recentNeighborPeak
	if drop > 0.30 {
		// Reset peak after triggering
		oldPeak := bd.recentNeighborPeak
		bd.recentNeighborPeak = stats.NeighborMean

		return &Bookmark{
			Type:        BookmarkDispersal,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean neighbors fell %.0f%% from peak %.2f to %.2f", drop*100, oldPeak, stats.NeighborMean),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkClampStorm(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var clamps, displacements int
	for _, h := range history {
		clamps += h.Clamps
		displacements += h.Displacements
	}
	if displacements == 0 || clamps == 0 {
		return nil
	}
	avgRate := float64(clamps) / float64(displacements)

	if stats.ClampRate > avgRate*2.0 && stats.Clamps >= 10 {
		return &Bookmark{
			Type:        BookmarkClampStorm,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Clamp rate %.3f is %.1fx average (%.3f)", stats.ClampRate, stats.ClampRate/avgRate, avgRate),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSteadyState(stats WindowStats) *Bookmark {
	if stats.Particles == 0 {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += h.NeighborMean
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := h.NeighborMean - mean
		variance += d * d
	}
	variance /= 4

	cv2 := 0.0
	if mean > 0 {
		cv2 = variance / (mean * mean)
	}

	if cv2 < 0.01 { // CV^2 < 0.01 means CV < 0.1
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteadyState,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean neighbors steady near %.2f over 5+ windows", mean),
		}
	}
	return nil
}
