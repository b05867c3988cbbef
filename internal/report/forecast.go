package report

import "context"

// Forecast is a predicted revenue point for a future year.
type Forecast struct {
	Year    int
	Revenue float64
}

// fitLine computes the least-squares line y = a + b*x over the given points.
// ok is false when fewer than two distinct x values exist.
func fitLine(xs, ys []float64) (a, b float64, ok bool) {
	n := float64(len(xs))
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, 0, false
	}
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, 0, false
	}
	b = (n*sumXY - sumX*sumY) / den
	a = (sumY - b*sumX) / n
	return a, b, true
}

// ForecastRevenue fits a straight line to the yearly revenue series and
// extrapolates it to the requested future years. With fewer than two observed
// years there is nothing to fit and the result is nil.
func (s *Service) ForecastRevenue(ctx context.Context, futureYears []int) ([]Forecast, error) {
	yearly, err := s.RevenueByYear(ctx, nil)
	if err != nil {
		return nil, err
	}
	xs := make([]float64, len(yearly))
	ys := make([]float64, len(yearly))
	for i, yr := range yearly {
		xs[i] = float64(yr.Year)
		ys[i] = yr.Revenue
	}
	a, b, ok := fitLine(xs, ys)
	if !ok {
		return nil, nil
	}
	out := make([]Forecast, 0, len(futureYears))
	for _, y := range futureYears {
		out = append(out, Forecast{Year: y, Revenue: a + b*float64(y)})
	}
	return out, nil
}
