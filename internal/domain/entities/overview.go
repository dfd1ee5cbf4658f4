package entities

// Metric is a rollup counter that distinguishes an observed zero from a value
// that could not be computed because a dependency failed.
type Metric struct {
	Value int64
	Known bool
}

// Observed returns a known metric value
func Observed(v int64) Metric {
	return Metric{Value: v, Known: true}
}

// UnknownMetric marks a counter that was not computed
func UnknownMetric() Metric {
	return Metric{}
}

// Overview is the derived rollup for one business. It is a view, never
// authoritative state.
type Overview struct {
	MessagesSent      Metric
	PageVisits        Metric
	FiveStarRedirects Metric
	FeedbackCount     Metric
}

// Complete reports whether every counter was computed
func (o *Overview) Complete() bool {
	return o.MessagesSent.Known && o.PageVisits.Known &&
		o.FiveStarRedirects.Known && o.FeedbackCount.Known
}
