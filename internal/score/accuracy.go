// Package score classifies estimated-vs-actual hand score accuracy.
package score

import "math"

// Grade buckets a relative error for display.
type Grade string

const (
	GradeGood Grade = "good"
	GradeOK   Grade = "ok"
	GradeBad  Grade = "bad"
)

// Per-item thresholds on |signed relative error|.
const (
	itemGoodBelow = 0.20
	itemOKBelow   = 0.50
)

// ItemError returns the signed relative error for one screenshot. The
// stored value wins when present so that historical rows keep their
// original normalization; otherwise it is recomputed from the score pair.
// Returns nil unless both scores are present and the estimate is non-zero.
func ItemError(estimated, actual *int64, stored *float64) *float64 {
	if estimated == nil || actual == nil {
		return nil
	}
	if stored != nil {
		v := *stored
		return &v
	}
	if *estimated == 0 {
		return nil
	}
	v := float64(*actual-*estimated) / float64(*estimated)
	return &v
}

// GradeError buckets a single item's error.
func GradeError(err float64) Grade {
	abs := math.Abs(err)
	switch {
	case abs < itemGoodBelow:
		return GradeGood
	case abs < itemOKBelow:
		return GradeOK
	default:
		return GradeBad
	}
}

// RunAccuracy aggregates the qualifying screenshots of one run.
type RunAccuracy struct {
	Count  int     `json:"count"`
	AvgAbs float64 `json:"avg_abs_error"`
	MaxAbs float64 `json:"max_abs_error"`
}

// Aggregate folds per-item errors into a run-level summary. Returns nil
// when no item qualifies, never a zero-count aggregate.
func Aggregate(errs []*float64) *RunAccuracy {
	var sum, max float64
	n := 0
	for _, e := range errs {
		if e == nil {
			continue
		}
		abs := math.Abs(*e)
		sum += abs
		if abs > max {
			max = abs
		}
		n++
	}
	if n == 0 {
		return nil
	}
	return &RunAccuracy{Count: n, AvgAbs: sum / float64(n), MaxAbs: max}
}

// Grade buckets the run-level average absolute error. The thresholds
// coincide numerically with the per-item scale but apply to the average,
// which drives a different visual classification.
func (a *RunAccuracy) Grade() Grade {
	switch {
	case a.AvgAbs < 0.20:
		return GradeGood
	case a.AvgAbs < 0.50:
		return GradeOK
	default:
		return GradeBad
	}
}
