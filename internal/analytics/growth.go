package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/history"
)

type Growth struct {
	Start  history.Point
	End    history.Point
	Change decimal.Decimal
	// Percent is nil when the starting value is zero.
	Percent *decimal.Decimal
	Peak    history.Point
	Trough  history.Point
}

// GrowthOf measures how the reconstructed total moved over the series.
func GrowthOf(series history.Series) (Growth, bool) {
	points := series.Points
	if len(points) == 0 {
		return Growth{}, false
	}
	g := Growth{
		Start:  points[0],
		End:    points[len(points)-1],
		Peak:   points[0],
		Trough: points[0],
	}
	g.Change = g.End.Value.Sub(g.Start.Value)
	if !g.Start.Value.IsZero() {
		pct := g.Change.Div(g.Start.Value.Abs()).Mul(hundred).Round(2)
		g.Percent = &pct
	}
	for _, p := range points[1:] {
		if p.Value.GreaterThan(g.Peak.Value) {
			g.Peak = p
		}
		if p.Value.LessThan(g.Trough.Value) {
			g.Trough = p
		}
	}
	return g, true
}
