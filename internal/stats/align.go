package stats

import (
	"sort"

	"github.com/lifelens/backend/internal/models"
)

// Align inner-joins two metric series on calendar date. Only dates
// present in both series survive; the result is sorted ascending.
// An empty sample is a valid result meaning the series never overlap.
func Align(a, b models.MetricSeries) models.AlignedSample {
	if a.IsEmpty() || b.IsEmpty() {
		return models.AlignedSample{}
	}

	byDate := make(map[string]float64, len(b.Points))
	for _, p := range b.Points {
		byDate[models.Day(p.Date).Format(models.DateFormat)] = p.Value
	}

	sample := make(models.AlignedSample, 0, len(a.Points))
	for _, p := range a.Points {
		day := models.Day(p.Date)
		if v, ok := byDate[day.Format(models.DateFormat)]; ok {
			sample = append(sample, models.AlignedPair{Date: day, A: p.Value, B: v})
		}
	}

	sort.Slice(sample, func(i, j int) bool { return sample[i].Date.Before(sample[j].Date) })
	return sample
}
