package series

// DefaultWindow is the smoothing window applied to the raw series.
const DefaultWindow = 7

// Average computes a trailing moving average over raw, which must be
// ordered ascending by date. Point i of the result is the arithmetic mean of
// raw[i : i+window] and carries the last date of that window, so the output
// drops the first window-1 dates. A series shorter than the window yields
// nil rather than indexing out of bounds.
//
// Pure and deterministic; callers dispatch it to the worker pool when the
// history is large.
func Average(raw []Measurement, window int) []Measurement {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(raw) < window {
		return nil
	}

	out := make([]Measurement, 0, len(raw)-window+1)

	var sum float64
	for i, m := range raw {
		sum += m.Weight
		if i >= window {
			sum -= raw[i-window].Weight
		}
		if i >= window-1 {
			out = append(out, Measurement{
				Date:   m.Date,
				Weight: sum / float64(window),
			})
		}
	}
	return out
}
