package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lifelens/backend/internal/models"
)

// correlationInsightBound is the |r| above which a correlation is worth
// surfacing as an insight.
const correlationInsightBound = 0.5

// metricLabel renders a metric reference for narrative text.
func metricLabel(ref models.MetricRef) string {
	return strings.ReplaceAll(ref.String(), ".", " ")
}

// sentence upper-cases the first letter of a narrative fragment.
func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func strengthWord(strength models.CorrelationStrength) string {
	switch strength {
	case models.StrengthVeryStrongPositive, models.StrengthVeryStrongNegative:
		return "very strongly"
	case models.StrengthStrongPositive, models.StrengthStrongNegative:
		return "strongly"
	case models.StrengthModeratePositive, models.StrengthModerateNegative:
		return "moderately"
	case models.StrengthWeakPositive, models.StrengthWeakNegative:
		return "weakly"
	default:
		return ""
	}
}

// describeCorrelation fills the narrative fields of a correlation result.
func describeCorrelation(result *models.CorrelationResult) {
	labelA := metricLabel(result.MetricA)
	labelB := metricLabel(result.MetricB)
	result.InsightTitle = fmt.Sprintf("%s and %s", sentence(labelA), labelB)

	word := strengthWord(result.Strength)
	switch {
	case result.Strength == models.StrengthNone:
		result.InsightDescription = fmt.Sprintf("%s and %s show no meaningful correlation", sentence(labelA), labelB)
	case result.Coefficient > 0:
		result.InsightDescription = fmt.Sprintf("%s and %s are %s positively correlated (r=%.2f)", sentence(labelA), labelB, word, result.Coefficient)
		result.Recommendations = []string{
			fmt.Sprintf("On days you improve %s, %s tends to rise with it", labelA, labelB),
		}
	default:
		result.InsightDescription = fmt.Sprintf("%s and %s are %s negatively correlated (r=%.2f)", sentence(labelA), labelB, word, result.Coefficient)
		result.Recommendations = []string{
			fmt.Sprintf("Watch %s on days when %s runs high", labelB, labelA),
		}
	}
}

// Synthesize turns raw statistical results into an ordered set of
// human-readable insights. It is pure and deterministic: the same inputs
// always yield the same insights in the same order. Per metric set only
// the highest-severity finding survives.
func Synthesize(
	correlations []models.CorrelationResult,
	trends []models.TrendResult,
	anomalies []models.AnomalyResult,
	forecasts []models.ForecastResult,
) []models.InsightRecord {
	candidates := make([]models.InsightRecord, 0)

	for _, a := range anomalies {
		severity := models.SeverityWarning
		if a.Severity == models.SeverityHigh {
			severity = models.SeverityUrgent
		}

		label := metricLabel(a.Metric)
		verb := "spike"
		if a.AnomalyType == models.AnomalyDrop {
			verb = "drop"
		}
		day := a.Date.Format(models.DateFormat)

		candidates = append(candidates, models.InsightRecord{
			Type:     models.InsightTypeAnomaly,
			Severity: severity,
			Title:    fmt.Sprintf("Unusual %s in %s", verb, label),
			Description: fmt.Sprintf("On %s, %s was %.1f against a typical %.1f (z=%.1f)",
				day, label, a.ActualValue, a.ExpectedValue, a.ZScore),
			RelatedMetrics: []models.MetricRef{a.Metric},
			ActionItems:    []string{fmt.Sprintf("Check what was different on %s", day)},
			Confidence:     math.Min(1.0, math.Abs(a.ZScore)/4.0),
		})
	}

	for _, c := range correlations {
		if math.Abs(c.Coefficient) < correlationInsightBound {
			continue
		}
		if c.InsightDescription == "" {
			describeCorrelation(&c)
		}

		candidates = append(candidates, models.InsightRecord{
			Type:           models.InsightTypeCorrelation,
			Severity:       models.SeverityInfo,
			Title:          c.InsightTitle,
			Description:    c.InsightDescription,
			RelatedMetrics: []models.MetricRef{c.MetricA, c.MetricB},
			ActionItems:    c.Recommendations,
			Confidence:     c.Confidence,
		})
	}

	for _, t := range trends {
		if !t.IsSignificant {
			continue
		}

		label := metricLabel(t.Metric)
		severity := models.SeverityPositive
		verb := "improving"
		action := fmt.Sprintf("Keep doing whatever moved %s", label)
		if t.Direction == models.TrendDeclining {
			severity = models.SeverityWarning
			verb = "declining"
			action = fmt.Sprintf("Look at what changed around %s recently", label)
		}

		candidates = append(candidates, models.InsightRecord{
			Type:     models.InsightTypeTrend,
			Severity: severity,
			Title:    fmt.Sprintf("%s is %s", sentence(label), verb),
			Description: fmt.Sprintf("%s moved %.0f%% between the two halves of the period (%.1f to %.1f)",
				sentence(label), t.ChangePercentage, t.StartValue, t.EndValue),
			RelatedMetrics: []models.MetricRef{t.Metric},
			ActionItems:    []string{action},
			Confidence:     math.Min(1.0, math.Abs(t.ChangePercentage)/100.0),
		})
	}

	for _, f := range forecasts {
		if f.TrendDirection != models.TrendDeclining {
			continue
		}

		label := metricLabel(f.Metric)
		candidates = append(candidates, models.InsightRecord{
			Type:     models.InsightTypeForecast,
			Severity: models.SeverityInfo,
			Title:    fmt.Sprintf("%s projected to keep falling", sentence(label)),
			Description: fmt.Sprintf("At the current slope (%.2f/day), %s will stay below its %.1f average",
				f.HistoricalSlope, label, f.HistoricalAverage),
			RelatedMetrics: []models.MetricRef{f.Metric},
			ActionItems:    []string{fmt.Sprintf("Plan a reset for %s this week", label)},
			Confidence:     0.5,
		})
	}

	return rankInsights(candidates)
}

// dedupeKey identifies an insight by the full sorted set of metrics it
// covers, so single-metric findings on the same metric collapse while
// correlation insights for different pairs sharing a metric both survive.
func dedupeKey(refs []models.MetricRef) string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.String()
	}
	sort.Strings(names)
	return strings.Join(names, "+")
}

// rankInsights dedupes candidates by their metric set, keeping the
// highest-severity (then highest-confidence) finding, and orders the
// survivors deterministically.
func rankInsights(candidates []models.InsightRecord) []models.InsightRecord {
	best := make(map[string]models.InsightRecord)
	for _, c := range candidates {
		if len(c.RelatedMetrics) == 0 {
			continue
		}
		key := dedupeKey(c.RelatedMetrics)
		prev, ok := best[key]
		if !ok {
			best[key] = c
			continue
		}
		if models.SeverityRank(c.Severity) > models.SeverityRank(prev.Severity) ||
			(models.SeverityRank(c.Severity) == models.SeverityRank(prev.Severity) && c.Confidence > prev.Confidence) {
			best[key] = c
		}
	}

	insights := make([]models.InsightRecord, 0, len(best))
	for _, insight := range best {
		insights = append(insights, insight)
	}
	sort.Slice(insights, func(i, j int) bool {
		ri, rj := models.SeverityRank(insights[i].Severity), models.SeverityRank(insights[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if insights[i].Confidence != insights[j].Confidence {
			return insights[i].Confidence > insights[j].Confidence
		}
		return insights[i].Title < insights[j].Title
	})
	return insights
}
