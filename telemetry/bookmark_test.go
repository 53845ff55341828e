package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Clustering(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 600),
			Particles:     1000,
			NeighborMean:  1.5,
		})
	}

	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 3000,
		Particles:     1000,
		NeighborMean:  4.0,
	})
	if !hasBookmark(bookmarks, BookmarkClustering) {
		t.Error("expected clustering bookmark")
	}
}

func TestBookmarkDetector_Dispersal(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 600),
			Particles:     1000,
			NeighborMean:  6,
		})
	}

	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 3000,
		Particles:     1000,
		NeighborMean:  3, // 50% drop
	})
	if !hasBookmark(bookmarks, BookmarkDispersal) {
		t.Error("expected dispersal bookmark")
	}
}

func TestBookmarkDetector_ClampStorm(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 600),
			Particles:     1000,
			Displacements: 1000,
			Clamps:        50,
			ClampRate:     0.05,
		})
	}

	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 2400,
		Particles:     1000,
		Displacements: 1000,
		Clamps:        300,
		ClampRate:     0.3,
	})
	if !hasBookmark(bookmarks, BookmarkClampStorm) {
		t.Error("expected clamp_storm bookmark")
	}
}

func TestBookmarkDetector_SteadyState(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: int32(i * 600),
			Particles:     1000,
			NeighborMean:  2.0,
		})
		if hasBookmark(bookmarks, BookmarkSteadyState) {
			triggered++
		}
	}
	if triggered != 1 {
		t.Errorf("steady_state triggered %d times, want exactly 1", triggered)
	}
}

func TestBookmarkDetector_ResetClearsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Particles: 1000, NeighborMean: 6})
	}

	// A reset drops the neighbor mean but must not read as dispersal.
	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 3000,
		Particles:     500,
		NeighborMean:  1,
		Resets:        1,
	})
	if !hasBookmark(bookmarks, BookmarkFieldRestart) {
		t.Error("expected field_restart bookmark")
	}
	if hasBookmark(bookmarks, BookmarkDispersal) {
		t.Error("dispersal should not trigger across a reset")
	}
}
