package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/pixellens/internal/config"
	"github.com/sanspareilsmyn/pixellens/internal/frame"
	"github.com/sanspareilsmyn/pixellens/internal/grid"
	"github.com/sanspareilsmyn/pixellens/internal/stats"
)

// Analyzer runs the parallel statistics reduction over each incoming frame.
// Every frame is a full run: the frame's extent is partitioned into disjoint
// regions, one goroutine folds each region into its own partial accumulator,
// and a single merge publishes the result. A frame that fails is logged and
// skipped; nothing half-computed leaves the analyzer.
type Analyzer struct {
	cfg    config.PipelineConfig
	input  <-chan *frame.Frame
	output chan<- StatisticsResult
	logger *zap.Logger
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(cfg config.PipelineConfig, input <-chan *frame.Frame, output chan<- StatisticsResult, logger *zap.Logger) *Analyzer {
	a := &Analyzer{
		cfg:    cfg,
		input:  input,
		output: output,
		logger: logger,
	}
	logger.Info("Analyzer initialized",
		zap.Int("workers", cfg.Workers),
		zap.Int("min_region_samples", cfg.MinRegionSamples),
	)
	return a
}

// Run starts the analyzer's processing loop.
func (a *Analyzer) Run(ctx context.Context) error {
	sugar := a.logger.Sugar()
	sugar.Info("Starting analyzer loop...")
	defer sugar.Info("Analyzer loop stopped.")

	for {
		select {
		case f, ok := <-a.input:
			if !ok {
				sugar.Info("Analyzer input channel closed.")
				return nil
			}
			a.processFrame(ctx, f)

		case <-ctx.Done():
			sugar.Info("Context cancelled, stopping analyzer.")
			return ctx.Err()
		}
	}
}

// processFrame reduces one frame and sends the result downstream.
func (a *Analyzer) processFrame(ctx context.Context, f *frame.Frame) {
	sugar := a.logger.Sugar()
	started := time.Now()

	result, err := a.reduceFrame(f)
	if err != nil {
		framesFailed.WithLabelValues(f.Source).Inc()
		sugar.Errorw("Frame analysis failed, skipping frame",
			zap.String("frame_id", f.FrameID),
			zap.String("source", f.Source),
			zap.String("dtype", string(f.DType)),
			zap.Error(err),
		)
		return
	}

	result.Elapsed = time.Since(started)
	framesAnalyzed.WithLabelValues(f.Source).Inc()
	frameAnalysisSeconds.WithLabelValues(f.Source).Observe(result.Elapsed.Seconds())

	select {
	case a.output <- result:
		sugar.Debugw("Sent statistics result",
			zap.String("frame_id", result.FrameID),
			zap.Int64("count", result.Count),
			zap.Duration("elapsed", result.Elapsed),
		)
	case <-ctx.Done():
		sugar.Debug("Context cancelled while sending result downstream.")
	}
}

// reduceFrame dispatches on the frame's dtype into the generic reducer.
func (a *Analyzer) reduceFrame(f *frame.Frame) (StatisticsResult, error) {
	switch f.DType {
	case frame.DTypeUint8:
		return reduceAs[uint8](a.cfg, f)
	case frame.DTypeUint16:
		return reduceAs[uint16](a.cfg, f)
	case frame.DTypeInt16:
		return reduceAs[int16](a.cfg, f)
	case frame.DTypeInt32:
		return reduceAs[int32](a.cfg, f)
	case frame.DTypeFloat32:
		return reduceAs[float32](a.cfg, f)
	case frame.DTypeFloat64:
		return reduceAs[float64](a.cfg, f)
	default:
		return StatisticsResult{}, fmt.Errorf("%w: %q", ErrUnsupportedDType, f.DType)
	}
}

// reduceAs runs the full three-phase reduction for one frame: initialize,
// one concurrent partial reduce per region, one merge. The partition is
// validated before any goroutine starts, so a bad region set fails fast
// with nothing accumulated.
func reduceAs[T stats.Sample](cfg config.PipelineConfig, f *frame.Frame) (StatisticsResult, error) {
	g, err := grid.New(f.Dims, convertSamples[T](f.Samples))
	if err != nil {
		return StatisticsResult{}, err
	}

	regions := grid.Partition(g.Len(), workersFor(cfg, g.Len()))
	if err := grid.ValidatePartition(g.Len(), regions); err != nil {
		return StatisticsResult{}, err
	}

	r := stats.NewReducer[T]()
	r.Initialize()

	partials := make([]stats.Partial[T], len(regions))
	errs := make([]error, len(regions))
	var wg sync.WaitGroup
	for i, reg := range regions {
		wg.Add(1)
		go func(i int, reg grid.Region) {
			defer wg.Done()
			partials[i], errs[i] = r.Reduce(g, reg)
		}(i, reg)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return StatisticsResult{}, err
		}
	}
	if err := r.Merge(partials...); err != nil {
		return StatisticsResult{}, err
	}

	res := r.Snapshot()
	return StatisticsResult{
		FrameID:      f.FrameID,
		Source:       f.Source,
		DType:        f.DType,
		Count:        res.Count,
		Minimum:      float64(res.Minimum),
		Maximum:      float64(res.Maximum),
		Sum:          res.Sum,
		SumOfSquares: res.SumOfSquares,
		Mean:         res.Mean,
		Variance:     res.Variance,
		Sigma:        res.Sigma,
	}, nil
}

// workersFor bounds the region count by the configured worker cap and by
// the frame size, so small frames are not split below minRegionSamples.
func workersFor(cfg config.PipelineConfig, n int) int {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if maxBySize := n / cfg.MinRegionSamples; maxBySize < workers {
		workers = maxBySize
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// convertSamples narrows the wire float64 samples to the frame's declared
// sample type. The reducer then widens back to float64 for accumulation,
// matching how samples behave when read from a typed source directly.
func convertSamples[T stats.Sample](in []float64) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = T(v)
	}
	return out
}
