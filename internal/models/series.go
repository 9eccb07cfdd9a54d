package models

import "time"

// DateFormat is the wire format for calendar dates. All series math
// operates on calendar days; time-of-day is never significant.
const DateFormat = "2006-01-02"

// Day normalizes a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
}

// TimeSeriesPoint is a single (calendar date, value) observation.
type TimeSeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// MetricSeries is the normalized output of a metric extractor: one point
// per calendar date that has at least one underlying record, sorted by
// date ascending. Dates with no records are absent, never zero-filled.
type MetricSeries struct {
	Module    string            `json:"module"`
	Metric    string            `json:"metric"`
	Points    []TimeSeriesPoint `json:"points"`
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
}

// IsEmpty reports whether the series carries no observations.
func (s MetricSeries) IsEmpty() bool {
	return len(s.Points) == 0
}

// Values returns the point values in date order.
func (s MetricSeries) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Value
	}
	return vals
}

// AlignedPair is a same-date pair of values drawn from two series.
type AlignedPair struct {
	Date time.Time `json:"date"`
	A    float64   `json:"value_a"`
	B    float64   `json:"value_b"`
}

// AlignedSample is the inner join of two series on calendar date.
// A zero-length sample is a valid result meaning the series never overlap.
type AlignedSample []AlignedPair

// MetricRef names a (module, metric) pair.
type MetricRef struct {
	Module string `json:"module"`
	Metric string `json:"metric"`
}

func (r MetricRef) String() string {
	return r.Module + "." + r.Metric
}
