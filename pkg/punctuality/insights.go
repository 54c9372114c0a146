package punctuality

import (
	"fmt"
	"math"
	"strconv"
)

type InsightType string

const (
	InsightTypePositive InsightType = "positive"
	InsightTypeInfo     InsightType = "info"
	InsightTypeWarning  InsightType = "warning"
)

type Insight struct {
	Type InsightType `json:"type"`
	Text string      `json:"text"`
}

const (
	punctualityInsightThreshold  = 5.0
	averageDelayInsightThreshold = 2.0

	BalancedInsightText = "Performance equilibrada entre os turnos - continue monitorando para otimizações"
)

// CompareShifts produces the ordered insight list comparing the morning and night periods.
// When no rule fires a single balanced insight is returned.
func CompareShifts(morning PeriodStats, night PeriodStats) []Insight {
	insights := []Insight{}

	morningLabel := labelOr(morning, PeriodMorning)
	nightLabel := labelOr(night, PeriodNight)

	punctualityDiff := math.Abs(morning.PunctualityPct - night.PunctualityPct)
	if punctualityDiff > punctualityInsightThreshold {
		if morning.PunctualityPct > night.PunctualityPct {
			insights = append(insights, Insight{
				Type: InsightTypePositive,
				Text: fmt.Sprintf("%s supera o %s em %.1f%% na pontualidade (%s%% vs %s%%)",
					morningLabel, nightLabel, punctualityDiff, formatNumber(morning.PunctualityPct), formatNumber(night.PunctualityPct)),
			})
		} else {
			insights = append(insights, Insight{
				Type: InsightTypeInfo,
				Text: fmt.Sprintf("%s supera o %s em %.1f%% na pontualidade (%s%% vs %s%%)",
					nightLabel, morningLabel, punctualityDiff, formatNumber(night.PunctualityPct), formatNumber(morning.PunctualityPct)),
			})
		}
	}

	if morning.Journeys != night.Journeys {
		more, fewer := morning, night
		moreLabel, fewerLabel := morningLabel, nightLabel
		if night.Journeys > morning.Journeys {
			more, fewer = night, morning
			moreLabel, fewerLabel = nightLabel, morningLabel
		}

		insights = append(insights, Insight{
			Type: InsightTypeInfo,
			Text: fmt.Sprintf("%s processa %d jornadas a mais que o %s (%d vs %d)",
				moreLabel, more.Journeys-fewer.Journeys, fewerLabel, more.Journeys, fewer.Journeys),
		})
	}

	if morning.AverageDelay > 0 && night.AverageDelay > 0 {
		delayDiff := math.Abs(morning.AverageDelay - night.AverageDelay)
		if delayDiff > averageDelayInsightThreshold {
			worse, better := night, morning
			worseLabel := nightLabel
			if morning.AverageDelay > night.AverageDelay {
				worse, better = morning, night
				worseLabel = morningLabel
			}

			insights = append(insights, Insight{
				Type: InsightTypeWarning,
				Text: fmt.Sprintf("%s tem atrasos %.1fmin maiores em média (%smin vs %smin)",
					worseLabel, delayDiff, formatNumber(worse.AverageDelay), formatNumber(better.AverageDelay)),
			})
		}
	}

	if morning.DaysWithDelay != night.DaysWithDelay {
		daysDiff := morning.DaysWithDelay - night.DaysWithDelay
		if daysDiff < 0 {
			insights = append(insights, Insight{
				Type: InsightTypePositive,
				Text: fmt.Sprintf("%s teve atrasos em %d dias a menos que o %s", morningLabel, -daysDiff, nightLabel),
			})
		} else {
			insights = append(insights, Insight{
				Type: InsightTypeWarning,
				Text: fmt.Sprintf("%s teve atrasos em %d dias a menos que o %s", nightLabel, daysDiff, morningLabel),
			})
		}
	}

	switch {
	case morning.CriticalRouteCount > night.CriticalRouteCount:
		insights = append(insights, criticalRouteInsight(morning, morningLabel))
	case night.CriticalRouteCount > morning.CriticalRouteCount:
		insights = append(insights, criticalRouteInsight(night, nightLabel))
	}

	if len(insights) == 0 {
		insights = append(insights, Insight{Type: InsightTypeInfo, Text: BalancedInsightText})
	}

	return insights
}

func criticalRouteInsight(stats PeriodStats, label string) Insight {
	return Insight{
		Type: InsightTypeInfo,
		Text: fmt.Sprintf("Rota crítica: \"%s\" no %s com %d atrasos", stats.CriticalRoute, label, stats.CriticalRouteCount),
	}
}

func labelOr(stats PeriodStats, period Period) string {
	if stats.Label != "" {
		return stats.Label
	}
	return period.Label()
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

type MetricWinner string

const (
	MetricWinnerMorning MetricWinner = "matutino"
	MetricWinnerNight   MetricWinner = "noturno"
	MetricWinnerTie     MetricWinner = "empate"
)

type MetricComparison struct {
	Metric     string       `json:"metrica"`
	Morning    float64      `json:"matutino"`
	Night      float64      `json:"noturno"`
	Difference float64      `json:"diferenca"`
	Winner     MetricWinner `json:"vencedor"`
}

// CompareMetric compares one metric of both periods. higherIsBetter picks the
// direction, punctuality wins when higher and delays win when lower.
func CompareMetric(metric string, morning float64, night float64, higherIsBetter bool) MetricComparison {
	comparison := MetricComparison{
		Metric:     metric,
		Morning:    morning,
		Night:      night,
		Difference: roundTo(math.Abs(morning-night), 2),
		Winner:     MetricWinnerTie,
	}

	switch {
	case morning == night:
	case (morning > night) == higherIsBetter:
		comparison.Winner = MetricWinnerMorning
	default:
		comparison.Winner = MetricWinnerNight
	}

	return comparison
}

// ComparisonTable is the side by side view of both periods
func ComparisonTable(report PeriodReport) []MetricComparison {
	morning, night := report.Morning, report.Night

	return []MetricComparison{
		CompareMetric("pontualidade", morning.PunctualityPct, night.PunctualityPct, true),
		CompareMetric("jornadas", float64(morning.Journeys), float64(night.Journeys), true),
		CompareMetric("atrasos", float64(morning.Delayed), float64(night.Delayed), false),
		CompareMetric("atrasoMedio", morning.AverageDelay, night.AverageDelay, false),
		CompareMetric("diasComAtraso", float64(morning.DaysWithDelay), float64(night.DaysWithDelay), false),
	}
}
