package analytics

const (
	DefaultAnomalyThreshold    = 2.0
	DefaultMovingAverageWindow = 5
	DefaultTopPercentile       = 0.90

	// anomalyTolerance absorbs floating point error when |z| sits exactly
	// on the threshold.
	anomalyTolerance = 1e-9
)

// Options tunes the derived metrics. Zero values select the defaults.
type Options struct {
	AnomalyThreshold    float64
	MovingAverageWindow int
	TopPercentile       float64
}

// DefaultOptions returns the standard metric settings.
func DefaultOptions() Options {
	return Options{
		AnomalyThreshold:    DefaultAnomalyThreshold,
		MovingAverageWindow: DefaultMovingAverageWindow,
		TopPercentile:       DefaultTopPercentile,
	}
}

func (o Options) withDefaults() Options {
	if o.AnomalyThreshold <= 0 {
		o.AnomalyThreshold = DefaultAnomalyThreshold
	}
	if o.MovingAverageWindow <= 0 {
		o.MovingAverageWindow = DefaultMovingAverageWindow
	}
	if o.TopPercentile <= 0 || o.TopPercentile >= 1 {
		o.TopPercentile = DefaultTopPercentile
	}
	return o
}
