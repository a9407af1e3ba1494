package fetch

import (
	"time"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/internal/ghclient"
)

// window scans a newest-first connection and keeps only items created at or
// after cutoff. On an ordered query the first item older than cutoff ends the
// scan. If a page ever shows an item newer than the one before it, the
// ordering cannot be trusted and the scan continues over the whole history.
type window struct {
	label     string
	cutoff    time.Time
	ordered   bool
	violated  bool
	last      time.Time
	seenFirst bool
}

func newWindow(label string, cutoff time.Time, q ghclient.Query) *window {
	return &window{label: label, cutoff: cutoff, ordered: q.Ordered}
}

// contains reports whether t falls inside the window.
func (w *window) contains(t time.Time) bool {
	return !t.Before(w.cutoff)
}

// earlyExit reports whether the scan may still stop at an out-of-window item.
func (w *window) earlyExit() bool {
	return w.ordered && !w.violated
}

// checkOrder looks at a whole page before any item is visited.
func (w *window) checkOrder(times []time.Time) {
	for _, t := range times {
		if w.seenFirst && t.After(w.last) && !w.violated {
			w.violated = true
			contract.LogInfo("⚠️  %s: results are not newest first, scanning full history", w.label)
		}
		w.last = t
		w.seenFirst = true
	}
}

// scan visits the in-window nodes of one page.
func scan[T any](w *window, nodes []T, createdAt func(T) time.Time, visit func(T)) ghclient.Step {
	times := make([]time.Time, len(nodes))
	for i, n := range nodes {
		times[i] = createdAt(n)
	}
	w.checkOrder(times)

	count := 0
	for i, n := range nodes {
		if !w.contains(times[i]) {
			if w.earlyExit() {
				return ghclient.Step{Count: count, Stop: true}
			}
			continue
		}
		visit(n)
		count++
	}
	return ghclient.Step{Count: count}
}
