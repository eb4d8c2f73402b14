package clmm

import "math"

// InsightKind identifies an analysis tip.
type InsightKind string

const (
	InsightOutperformsHodl   InsightKind = "outperforms_hodl"
	InsightUnderperformsHodl InsightKind = "underperforms_hodl"
	InsightBreakevenReached  InsightKind = "breakeven_reached"
	InsightBreakevenWithin   InsightKind = "breakeven_within"
	InsightBreakevenUnlikely InsightKind = "breakeven_unlikely"
	InsightOutOfRange        InsightKind = "out_of_range"
	InsightNarrowRange       InsightKind = "narrow_range"
	InsightWideRange         InsightKind = "wide_range"
)

// Severity grades an insight for display.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Insight is one analysis tip. Value carries the number the tip refers to
// (percent or days) when there is one.
type Insight struct {
	Kind     InsightKind `json:"kind"`
	Severity Severity    `json:"severity"`
	Value    float64     `json:"value,omitempty"`
}

const (
	netPercentThreshold = 0.01
	breakevenHorizon    = 365
	narrowRangePercent  = 20
	wideRangePercent    = 100
)

// Insights derives analysis tips for a position. Without an exit comparison
// there is nothing to say.
func Insights(p Position) []Insight {
	c := p.Comparison
	if c == nil {
		return nil
	}

	var out []Insight
	switch {
	case c.NetPercent > netPercentThreshold:
		out = append(out, Insight{Kind: InsightOutperformsHodl, Severity: SeveritySuccess, Value: c.NetPercent})
	case c.NetPercent < -netPercentThreshold:
		out = append(out, Insight{Kind: InsightUnderperformsHodl, Severity: SeverityWarning, Value: math.Abs(c.NetPercent)})
	}

	switch {
	case c.NetResult > 0:
		out = append(out, Insight{Kind: InsightBreakevenReached, Severity: SeveritySuccess})
	case c.BreakEvenDays > 0 && c.BreakEvenDays < breakevenHorizon:
		out = append(out, Insight{Kind: InsightBreakevenWithin, Severity: SeverityInfo, Value: math.Ceil(c.BreakEvenDays)})
	case c.NetResult < 0:
		out = append(out, Insight{Kind: InsightBreakevenUnlikely, Severity: SeverityWarning})
	}

	if !p.InRange() {
		out = append(out, Insight{Kind: InsightOutOfRange, Severity: SeverityWarning})
	} else if w := p.Range.WidthPercent(p.CurrentPrice); w < narrowRangePercent {
		out = append(out, Insight{Kind: InsightNarrowRange, Severity: SeverityWarning, Value: w})
	} else if w > wideRangePercent {
		out = append(out, Insight{Kind: InsightWideRange, Severity: SeverityInfo, Value: w})
	}
	return out
}
