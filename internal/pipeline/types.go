package pipeline

import (
	"time"

	"github.com/sanspareilsmyn/pixellens/internal/frame"
)

// StatisticsResult holds the published run-wide statistics of one analyzed
// frame. Minimum and Maximum are widened to float64 for transport; the typed
// values live inside the per-dtype reducer.
type StatisticsResult struct {
	FrameID      string
	Source       string
	DType        frame.DType
	Count        int64
	Minimum      float64
	Maximum      float64
	Sum          float64
	SumOfSquares float64
	Mean         float64
	Variance     float64
	Sigma        float64
	Elapsed      time.Duration
}
