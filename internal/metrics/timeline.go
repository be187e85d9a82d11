package metrics

import (
	"strings"
	"time"
)

// Window selects how far back Range looks.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

// ParseWindow normalizes user input; anything unrecognized is WindowAll.
func ParseWindow(s string) Window {
	switch w := Window(strings.ToLower(strings.TrimSpace(s))); w {
	case WindowDay, WindowWeek, WindowMonth:
		return w
	default:
		return WindowAll
	}
}

// Cutoff returns the earliest retained instant for the window and whether the window filters at all.
func (w Window) Cutoff(now time.Time) (time.Time, bool) {
	switch w {
	case WindowDay:
		return now.Add(-24 * time.Hour), true
	case WindowWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case WindowMonth:
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}

// Range keeps the points dated at or after the window's cutoff, preserving order.
func Range(points []TimelinePoint, window Window, now time.Time) []TimelinePoint {
	cutoff, filtered := window.Cutoff(now)

	out := make([]TimelinePoint, 0, len(points))
	for _, p := range points {
		if filtered && p.Date.Before(cutoff) {
			continue
		}
		out = append(out, p)
	}

	return out
}

// TimelineDelta pairs a point with its score change against the preceding point.
type TimelineDelta struct {
	TimelinePoint
	Delta *int `json:"delta"`
}

// Deltas computes per-point changes over the given sequence. The first point has no delta.
func Deltas(points []TimelinePoint) []TimelineDelta {
	out := make([]TimelineDelta, 0, len(points))
	for i, p := range points {
		row := TimelineDelta{TimelinePoint: p}
		if i > 0 {
			d := p.ATSScore - points[i-1].ATSScore
			row.Delta = &d
		}
		out = append(out, row)
	}

	return out
}

// TotalImprovement is max(score) − min(score) over the whole series, 0 when empty.
func TotalImprovement(points []TimelinePoint) int {
	if len(points) == 0 {
		return 0
	}

	lo, hi := points[0].ATSScore, points[0].ATSScore
	for _, p := range points[1:] {
		lo = min(lo, p.ATSScore)
		hi = max(hi, p.ATSScore)
	}

	return hi - lo
}
