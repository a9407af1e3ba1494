package fetch

import (
	"testing"
	"time"

	"github.com/huangsam/commpulse/internal/ghclient"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowScan(t *testing.T) {
	cutoff := day(10)
	tests := []struct {
		name     string
		ordered  bool
		pages    [][]time.Time
		expected []int // Visited days, in order
		stopped  bool
	}{
		{
			name:     "ordered stops at first old item",
			ordered:  true,
			pages:    [][]time.Time{{day(20), day(15), day(9), day(8)}},
			expected: []int{20, 15},
			stopped:  true,
		},
		{
			name:     "boundary item is inside",
			ordered:  true,
			pages:    [][]time.Time{{day(11), day(10)}, {day(9)}},
			expected: []int{11, 10},
			stopped:  true,
		},
		{
			name:     "unordered query never stops",
			ordered:  false,
			pages:    [][]time.Time{{day(20), day(1), day(15)}, {day(2), day(12)}},
			expected: []int{20, 15, 12},
		},
		{
			name:     "ordering violation degrades to full scan",
			ordered:  true,
			pages:    [][]time.Time{{day(20), day(5), day(18)}, {day(3), day(11)}},
			expected: []int{20, 18, 11},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWindow("test", cutoff, ghclient.Query{Ordered: tt.ordered})
			var visited []int
			stopped := false
			for _, page := range tt.pages {
				step := scan(w, page, func(t time.Time) time.Time { return t }, func(t time.Time) {
					visited = append(visited, t.Day())
				})
				if step.Stop {
					stopped = true
					break
				}
			}
			assert.Equal(t, tt.expected, visited)
			assert.Equal(t, tt.stopped, stopped)
		})
	}
}
