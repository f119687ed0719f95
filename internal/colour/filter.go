package colour

const (
	// DistinctThreshold is the minimum RGB distance between two kept colours.
	DistinctThreshold = 50.0

	// MinDistinct is the number of colours a filtered palette must reach
	// before the filtered result is used at all.
	MinDistinct = 3

	// MaxDistinct caps the size of a filtered palette.
	MaxDistinct = 4
)

// FilterDistinct greedily selects perceptually distinct colours.
//
// Candidates are visited in order and kept when they are at least
// DistinctThreshold away from every colour kept so far. When fewer than
// MinDistinct colours survive, the greedy result is discarded and the first
// MinDistinct candidates are returned unfiltered. Otherwise the kept colours
// are capped at MaxDistinct in selection order.
func FilterDistinct(candidates []RGB) Palette {
	kept := make(Palette, 0, MaxDistinct)
	for _, c := range candidates {
		distinct := true
		for _, k := range kept {
			if Distance(c, k) < DistinctThreshold {
				distinct = false
				break
			}
		}
		if distinct {
			kept = append(kept, c)
		}
	}

	if len(kept) < MinDistinct {
		n := min(MinDistinct, len(candidates))
		return Palette(candidates[:n]).Clone()
	}

	if len(kept) > MaxDistinct {
		kept = kept[:MaxDistinct]
	}
	return kept
}
