package dashboard

import (
	"time"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/punctuality"
	"github.com/maxtour/maxtour/pkg/report"
)

// State is everything the dashboard was last loaded with. Collections are
// always replaced as a whole, never patched.
type State struct {
	Routes      []*ctdf.Route
	Journeys    []*ctdf.Journey
	DelayReport *report.DelayReport
	LoadedAt    time.Time
}

// Snapshot is the computed dashboard for one reference date
type Snapshot struct {
	Date       string                         `json:"data"`
	KPIs       punctuality.KPIs               `json:"kpis"`
	Shifts     []punctuality.ShiftTagSummary  `json:"turnos"`
	Statuses   []punctuality.RouteStatus      `json:"status_rotas"`
	Periods    punctuality.PeriodReport       `json:"periodos"`
	Insights   []punctuality.Insight          `json:"insights"`
	Comparison []punctuality.MetricComparison `json:"comparacao"`
	Delays     *report.DelaySummary           `json:"resumo_atrasos,omitempty"`
	LoadedAt   time.Time                      `json:"carregado_em"`
}

func BuildSnapshot(state State, date string, policy punctuality.LatenessPolicy) *Snapshot {
	periods := punctuality.BuildPeriodStats(state.Journeys, policy)

	snapshot := &Snapshot{
		Date:       date,
		KPIs:       punctuality.DashboardKPIs(state.Journeys, date),
		Statuses:   punctuality.RouteStatuses(state.Routes, state.Journeys),
		Periods:    periods,
		Insights:   punctuality.CompareShifts(periods.Morning, periods.Night),
		Comparison: punctuality.ComparisonTable(periods),
		LoadedAt:   state.LoadedAt,
	}

	for _, shift := range ctdf.ShiftTags {
		snapshot.Shifts = append(snapshot.Shifts, punctuality.ShiftSummary(state.Journeys, shift))
	}

	if state.DelayReport != nil {
		summary := state.DelayReport.Summary
		snapshot.Delays = &summary
	}

	return snapshot
}
