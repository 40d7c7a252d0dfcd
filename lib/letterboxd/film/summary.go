package film

import (
	"context"

	"boxd/lib/ratings"
)

// SummaryPrecision is the number of decimals the adjusted average of an
// obscure film is rounded to.
const SummaryPrecision = 2

type Summary struct {
	Info      Info
	Histogram ratings.Histogram
	Rated     bool

	// TrueAverage and AdjustedAverage are on the 1..10 scale, nil when
	// the film has no ratings.
	TrueAverage     *float64
	AdjustedAverage *float64
	Obscure         bool
}

func (c Client) Summary(ctx context.Context, slug string) (Summary, error) {
	ctx, span := tracer.Start(ctx, "client:Summary")
	defer span.End()

	info, err := c.Info(ctx, slug)
	if err != nil {
		return Summary{}, err
	}
	h, rated, err := c.Histogram(ctx, info.Slug)
	if err != nil {
		return Summary{}, err
	}

	out := Summary{
		Info:      info,
		Histogram: h,
		Rated:     rated,
		Obscure:   h.IsObscure(),
	}
	if avg, ok := h.TrueAverage(); ok {
		out.TrueAverage = &avg
	}
	if avg, ok := h.AdjustedAverage(SummaryPrecision); ok {
		out.AdjustedAverage = &avg
	}
	return out, nil
}
