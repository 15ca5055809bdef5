package plan

import (
	"math"

	"github.com/alexgasconn/RacePlanner/internal/segment"
)

const (
	metersPerKm = 1000.0
	metersPerMi = 1609.344

	// Segments shorter than this get zero duration instead of a pace.
	minSegmentLengthM = 1.0

	// Pace clamp band relative to the course average, applied unless
	// the gradient is steep enough to legitimately break it.
	clampFastRatio   = 0.4
	clampSlowRatio   = 3.0
	clampGradientPct = 15.0
)

// Build distributes a goal finish time over the course segments
// according to terrain cost, pacing strategy and accumulated fatigue.
// Running time sums to the goal minus total rest-stop time, so the last
// segment's cumulative time equals the goal within floating point
// tolerance. Pure: fresh accumulators per call, inputs untouched.
func Build(segments []segment.Segment, totalDistanceM float64, opts Options) ([]PlannedSegment, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyTrack
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	restBySegment, totalRestSec := assignRestStops(segments, opts)

	// Rest time alone may exceed the goal; the running budget floors at
	// zero rather than going negative (degenerate but valid plan).
	runningBudget := math.Max(0, float64(opts.GoalTimeSeconds)-totalRestSec)

	efforts, totalEffort := terrainEffort(segments)
	factors := performanceFactors(segments, efforts, totalEffort, totalDistanceM)
	factors = smoothFactors(factors)

	return allocate(segments, opts, restBySegment, runningBudget, efforts, totalEffort, factors, totalDistanceM), nil
}

// assignRestStops maps each stop to the unique segment whose
// (StartM, EndM] interval contains it. Half-open on the left so a stop
// sitting exactly on a boundary is counted once.
func assignRestStops(segments []segment.Segment, opts Options) (map[int]float64, float64) {
	unitM := metersPerKm
	if opts.Units == UnitsImperial {
		unitM = metersPerMi
	}

	penalties := make(map[int]float64, len(opts.RestStops))
	total := 0.0
	for _, stop := range opts.RestStops {
		total += stop.PenaltySec
		distM := stop.Distance * unitM

		// Segments are contiguous from 0, so the first segment whose
		// end reaches the stop owns it. A boundary stop lands in the
		// earlier segment; stops at 0 or past the finish clamp to the
		// first and last segments.
		idx := len(segments) - 1
		for i, seg := range segments {
			if distM <= seg.EndM {
				idx = i
				break
			}
		}
		penalties[idx] += stop.PenaltySec
	}
	return penalties, total
}

// terrainEffort computes metabolic effort units per segment: distance
// scaled by a gradient cost curve plus technicality and altitude
// penalties.
func terrainEffort(segments []segment.Segment) ([]float64, float64) {
	efforts := make([]float64, len(segments))
	total := 0.0
	for i, seg := range segments {
		dist := seg.DistanceM()
		cost := gradientCost(seg.AvgGradientPct / 100)

		// Oscillating terrain that nets out flat still slows runners.
		if dist > 0 {
			oscillation := (seg.GainM + seg.LossM) / dist
			noise := math.Max(0, oscillation-math.Abs(seg.AvgGradientPct)/100)
			cost += noise * 0.5
		}
		if seg.MinElevationM > 2000 {
			cost += (seg.MinElevationM - 2000) / 10000
		}

		efforts[i] = dist * cost
		total += efforts[i]
	}
	return efforts, total
}

// gradientCost models grade-adjusted running cost. Uphill cost grows
// superlinearly; downhill gains are capped in three regimes because
// braking dominates on steep descents.
func gradientCost(g float64) float64 {
	if g >= 0 {
		return 1 + 3.0*g + 12*g*g
	}
	d := -g
	switch {
	case d < 0.15:
		return 1 - 2.0*d
	case d < 0.25:
		return 0.7 + 1.5*(d-0.15)
	default:
		return 0.85 + 3.0*(d-0.25)
	}
}

// performanceFactors combines the race-progress strategy curve with the
// fatigue drift model. Fatigue is tracked as the share of total effort
// consumed through each segment.
func performanceFactors(segments []segment.Segment, efforts []float64, totalEffort, totalDistanceM float64) []float64 {
	factors := make([]float64, len(segments))
	consumed := 0.0
	for i, seg := range segments {
		progress := 0.0
		if totalDistanceM > 0 {
			progress = seg.EndM / totalDistanceM
		}
		strategy := strategyMultiplier(progress)

		consumed += efforts[i]
		fatigue := 1.0
		if totalEffort > 0 {
			rel := consumed / totalEffort
			if rel > 0.80 {
				fatigue = 1 - (rel-0.80)*0.25
			}
		}
		factors[i] = strategy * fatigue
	}
	return factors
}

// strategyMultiplier is the pacing strategy curve: hold back early,
// push through the middle, grit the finish. Values above 1 mean faster
// than terrain alone suggests.
func strategyMultiplier(progress float64) float64 {
	switch {
	case progress < 0.10:
		return 0.96
	case progress < 0.30:
		return 1.00
	case progress <= 0.85:
		return 1.02
	default:
		return 1.01
	}
}

// smoothFactors applies a 3-tap weighted average over interior
// segments. The final segment inherits its predecessor's smoothed
// factor so a truncated remainder cannot produce an outlier, and the
// second-to-last leans 70% on its predecessor. Courses with fewer than
// three segments skip smoothing.
func smoothFactors(factors []float64) []float64 {
	n := len(factors)
	if n < 3 {
		out := make([]float64, n)
		copy(out, factors)
		return out
	}

	out := make([]float64, n)
	out[0] = factors[0]
	for i := 1; i < n-2; i++ {
		out[i] = 0.2*factors[i-1] + 0.6*factors[i] + 0.2*factors[i+1]
	}
	out[n-2] = 0.7*out[n-3] + 0.3*factors[n-2]
	out[n-1] = out[n-2]
	return out
}

// allocate turns effort and performance factors into per-segment times.
// Each segment's share of the running budget is proportional to
// effort / smoothed factor, which is what makes the times sum exactly
// to the budget.
func allocate(segments []segment.Segment, opts Options, restBySegment map[int]float64, runningBudget float64, efforts []float64, totalEffort float64, factors []float64, totalDistanceM float64) []PlannedSegment {
	weights := make([]float64, len(segments))
	totalWeight := 0.0
	for i := range segments {
		w := efforts[i]
		if factors[i] > 0 {
			w = efforts[i] / factors[i]
		}
		weights[i] = w
		totalWeight += w
	}

	avgPaceSecPerKm := 0.0
	if totalDistanceM > 0 {
		avgPaceSecPerKm = runningBudget / (totalDistanceM / metersPerKm)
	}

	planned := make([]PlannedSegment, len(segments))
	elapsed := 0.0
	consumed := 0.0
	for i, seg := range segments {
		running := 0.0
		if totalWeight > 0 {
			running = runningBudget * weights[i] / totalWeight
		}

		dist := seg.DistanceM()
		pace := 0.0
		if dist < minSegmentLengthM {
			running = 0
		} else {
			distKm := dist / metersPerKm
			pace = running / distKm
			// Keep implied paces inside a sane band around the course
			// average; steep terrain is allowed to break it.
			if math.Abs(seg.AvgGradientPct) <= clampGradientPct && avgPaceSecPerKm > 0 {
				clamped := math.Min(math.Max(pace, clampFastRatio*avgPaceSecPerKm), clampSlowRatio*avgPaceSecPerKm)
				if clamped != pace {
					pace = clamped
					running = pace * distKm
				}
			}
		}

		rest := restBySegment[i]
		elapsed += running + rest

		consumed += efforts[i]
		rel := 0.0
		if totalEffort > 0 {
			rel = consumed / totalEffort
		}
		fatiguePct := int(math.Round(rel * 100))
		if fatiguePct < 0 {
			fatiguePct = 0
		}
		if fatiguePct > 100 {
			fatiguePct = 100
		}

		planned[i] = PlannedSegment{
			Segment:            seg,
			ElevationChangeM:   seg.GainM + seg.LossM,
			TargetDurationSec:  running + rest,
			TargetPaceSecPerKm: pace,
			CumulativeSec:      elapsed,
			HasRestStop:        rest > 0,
			FatigueLevelPct:    fatiguePct,
		}
	}
	return planned
}
