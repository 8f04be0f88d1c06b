package pipeline

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/pixellens/internal/config"
)

// Alerter receives statistics results and checks them against configured
// per-source thresholds, exporting each frame's statistics as Prometheus
// gauges along the way.
type Alerter struct {
	sources map[string]config.SourceConfig
	input   <-chan StatisticsResult
	logger  *zap.Logger
}

// NewAlerter creates a new Alerter instance.
func NewAlerter(sources []config.SourceConfig, input <-chan StatisticsResult, logger *zap.Logger) *Alerter {
	sourceMap := make(map[string]config.SourceConfig)
	for _, s := range sources {
		sourceMap[s.Name] = s
	}

	logger.Debug("Alerter initialized", zap.Int("source_count", len(sourceMap)))

	return &Alerter{
		sources: sourceMap,
		input:   input,
		logger:  logger,
	}
}

// Run starts the alerter's processing loop, checking results against thresholds.
func (a *Alerter) Run(ctx context.Context) error {
	sugar := a.logger.Sugar()
	sugar.Info("Starting alerter loop...")
	defer sugar.Info("Alerter loop stopped.")

	for {
		select {
		case result, ok := <-a.input:
			if !ok {
				sugar.Info("Alerter input channel closed.")
				return nil
			}
			a.processResult(result)

		case <-ctx.Done():
			sugar.Info("Context cancelled, stopping alerter.")
			return ctx.Err()
		}
	}
}

// processResult updates Prometheus gauges, checks thresholds, and logs stats.
func (a *Alerter) processResult(result StatisticsResult) {
	sugar := a.logger.Sugar()
	source := result.Source

	// Update Prometheus Gauges
	frameSampleCount.WithLabelValues(source).Set(float64(result.Count))
	if result.Count > 0 {
		frameMinimum.WithLabelValues(source).Set(result.Minimum)
		frameMaximum.WithLabelValues(source).Set(result.Maximum)
	}
	if !math.IsNaN(result.Mean) {
		frameMean.WithLabelValues(source).Set(result.Mean)
	}
	if !math.IsNaN(result.Sigma) {
		frameSigma.WithLabelValues(source).Set(result.Sigma)
	}

	sourceCfg, exists := a.sources[source]
	if exists {
		thresholds := sourceCfg.Thresholds
		a.checkMean(sugar, result, thresholds.MeanMin, thresholds.MeanMax)
		a.checkSigma(sugar, result, thresholds.SigmaMax)
		a.checkRange(sugar, result, thresholds.MinBelow, thresholds.MaxAbove)
	}

	a.logStats(sugar, result)
}

// checkMean validates the frame mean against the configured band.
func (a *Alerter) checkMean(sugar *zap.SugaredLogger, result StatisticsResult, minThreshold, maxThreshold *float64) {
	if math.IsNaN(result.Mean) {
		return
	}
	if minThreshold != nil && result.Mean < *minThreshold {
		sugar.Warnw("Mean violation (Min)",
			zap.String("source", result.Source),
			zap.String("frame_id", result.FrameID),
			zap.Float64("actual", result.Mean),
			zap.Float64("threshold", *minThreshold),
			zap.String("comparison", "<"),
		)
		frameThresholdViolations.WithLabelValues(result.Source, "mean", "<").Inc()
	}
	if maxThreshold != nil && result.Mean > *maxThreshold {
		sugar.Warnw("Mean violation (Max)",
			zap.String("source", result.Source),
			zap.String("frame_id", result.FrameID),
			zap.Float64("actual", result.Mean),
			zap.Float64("threshold", *maxThreshold),
			zap.String("comparison", ">"),
		)
		frameThresholdViolations.WithLabelValues(result.Source, "mean", ">").Inc()
	}
}

// checkSigma validates the frame standard deviation against its ceiling.
func (a *Alerter) checkSigma(sugar *zap.SugaredLogger, result StatisticsResult, maxThreshold *float64) {
	if maxThreshold == nil || math.IsNaN(result.Sigma) {
		return
	}
	if result.Sigma > *maxThreshold {
		sugar.Warnw("Sigma violation",
			zap.String("source", result.Source),
			zap.String("frame_id", result.FrameID),
			zap.Float64("actual", result.Sigma),
			zap.Float64("threshold", *maxThreshold),
			zap.String("comparison", ">"),
		)
		frameThresholdViolations.WithLabelValues(result.Source, "sigma", ">").Inc()
	}
}

// checkRange validates the frame extrema against the allowed range.
func (a *Alerter) checkRange(sugar *zap.SugaredLogger, result StatisticsResult, minBelow, maxAbove *float64) {
	if result.Count == 0 {
		return
	}
	if minBelow != nil && result.Minimum < *minBelow {
		sugar.Warnw("Minimum violation",
			zap.String("source", result.Source),
			zap.String("frame_id", result.FrameID),
			zap.Float64("actual", result.Minimum),
			zap.Float64("threshold", *minBelow),
			zap.String("comparison", "<"),
		)
		frameThresholdViolations.WithLabelValues(result.Source, "minimum", "<").Inc()
	}
	if maxAbove != nil && result.Maximum > *maxAbove {
		sugar.Warnw("Maximum violation",
			zap.String("source", result.Source),
			zap.String("frame_id", result.FrameID),
			zap.Float64("actual", result.Maximum),
			zap.Float64("threshold", *maxAbove),
			zap.String("comparison", ">"),
		)
		frameThresholdViolations.WithLabelValues(result.Source, "maximum", ">").Inc()
	}
}

// logStats emits one info line per analyzed frame.
func (a *Alerter) logStats(sugar *zap.SugaredLogger, result StatisticsResult) {
	sugar.Infow("Frame statistics",
		zap.String("source", result.Source),
		zap.String("frame_id", result.FrameID),
		zap.String("dtype", string(result.DType)),
		zap.Int64("count", result.Count),
		zap.Float64("minimum", result.Minimum),
		zap.Float64("maximum", result.Maximum),
		zap.Float64("mean", result.Mean),
		zap.Float64("variance", result.Variance),
		zap.Float64("sigma", result.Sigma),
		zap.Duration("elapsed", result.Elapsed),
	)
}
