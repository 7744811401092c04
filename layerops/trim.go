package layerops

import "github.com/rivo/uniseg"

// SnapSpan shrinks [start, end) so both bounds fall on grapheme cluster
// boundaries of raw. Start moves forward, end moves backward; a span
// that collapses reports (start, start). Bounds outside the string are
// clamped first.
func SnapSpan(raw string, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(raw) {
		end = len(raw)
	}
	if start >= end {
		return start, start
	}

	snappedStart, snappedEnd := -1, -1
	state := -1
	rest := raw
	pos := 0
	for len(rest) > 0 {
		if pos == start {
			snappedStart = pos
		}
		if pos == end {
			snappedEnd = pos
		}
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		next := pos + len(cluster)
		if snappedStart < 0 && pos < start && start < next {
			snappedStart = next
		}
		if snappedEnd < 0 && pos < end && end < next {
			snappedEnd = pos
		}
		pos = next
	}
	if snappedStart < 0 {
		snappedStart = start
	}
	if snappedEnd < 0 {
		snappedEnd = end
	}
	if snappedStart >= snappedEnd {
		return snappedStart, snappedStart
	}
	return snappedStart, snappedEnd
}
