// Package report implements the read side of the store: parameterized
// aggregate queries over the materialized star schema, a TTL cache over
// their results, and the linear revenue forecast.
//
// Every filter value is bound through placeholders; year sets arrive as
// typed ints and are never interpolated into SQL text.
package report

import (
	"context"
	"fmt"
	"strings"

	"ecometl/internal/schema"
)

// KPI is the executive summary over the selected years.
type KPI struct {
	Revenue   float64
	Orders    int64
	Customers int64
	AOV       float64
}

// YearRevenue is one (order_year, revenue) aggregate row.
type YearRevenue struct {
	Year    int
	Revenue float64
}

// MonthRevenue is one (order_month, revenue) aggregate row.
type MonthRevenue struct {
	Month   int
	Revenue float64
}

// CategoryRevenue is one (category, revenue) aggregate row from the fact
// table joined to the product catalog.
type CategoryRevenue struct {
	Category string
	Revenue  float64
}

// DeliveryBucket is one (delivery_days, orders) aggregate row.
type DeliveryBucket struct {
	Days   int
	Orders int64
}

// PrimeSplit is the prime vs non-prime order aggregate. Rows with an unknown
// membership flag are excluded.
type PrimeSplit struct {
	Prime   bool
	Orders  int64
	Revenue float64
}

// yearFilter renders a parameterized order_year IN (...) clause for the
// given typed year set. An empty set selects all years.
func yearFilter(years []int) (string, []any) {
	if len(years) == 0 {
		return "", nil
	}
	args := make([]any, len(years))
	for i, y := range years {
		args[i] = y
	}
	clause := fmt.Sprintf(
		"WHERE order_year IN (%s)",
		strings.TrimSuffix(strings.Repeat("?, ", len(years)), ", "),
	)
	return clause, args
}

// KPIs computes the executive summary for the selected years.
func (s *Service) KPIs(ctx context.Context, years []int) (KPI, error) {
	where, args := yearFilter(years)
	q := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(final_amount_inr), 0) AS revenue,
			COUNT(*) AS orders,
			COUNT(DISTINCT customer_id) AS customers,
			COALESCE(AVG(final_amount_inr), 0) AS aov
		FROM %s %s`, schema.TableTransactions, where)

	rows, err := s.query(ctx, "kpis", q, args)
	if err != nil {
		return KPI{}, err
	}
	if len(rows) == 0 {
		return KPI{}, nil
	}
	r := rows[0]
	return KPI{
		Revenue:   asFloat(r["revenue"]),
		Orders:    asInt(r["orders"]),
		Customers: asInt(r["customers"]),
		AOV:       asFloat(r["aov"]),
	}, nil
}

// RevenueByYear returns total revenue per order year, ascending.
func (s *Service) RevenueByYear(ctx context.Context, years []int) ([]YearRevenue, error) {
	where, args := yearFilter(years)
	q := fmt.Sprintf(`
		SELECT order_year, SUM(final_amount_inr) AS revenue
		FROM %s %s
		GROUP BY order_year
		ORDER BY order_year`, schema.TableTransactions, where)

	rows, err := s.query(ctx, "revenue_by_year", q, args)
	if err != nil {
		return nil, err
	}
	out := make([]YearRevenue, 0, len(rows))
	for _, r := range rows {
		out = append(out, YearRevenue{
			Year:    int(asInt(r["order_year"])),
			Revenue: asFloat(r["revenue"]),
		})
	}
	return out, nil
}

// MonthlyRevenue returns total revenue per month within one year.
func (s *Service) MonthlyRevenue(ctx context.Context, year int) ([]MonthRevenue, error) {
	q := fmt.Sprintf(`
		SELECT order_month, SUM(final_amount_inr) AS revenue
		FROM %s
		WHERE order_year = ?
		GROUP BY order_month
		ORDER BY order_month`, schema.TableTransactions)

	rows, err := s.query(ctx, "monthly_revenue", q, []any{year})
	if err != nil {
		return nil, err
	}
	out := make([]MonthRevenue, 0, len(rows))
	for _, r := range rows {
		out = append(out, MonthRevenue{
			Month:   int(asInt(r["order_month"])),
			Revenue: asFloat(r["revenue"]),
		})
	}
	return out, nil
}

// TopCategories returns revenue per product category, descending. When no
// catalog was materialized the join yields no rows and the result is empty,
// not an error.
func (s *Service) TopCategories(ctx context.Context, years []int) ([]CategoryRevenue, error) {
	where, args := yearFilter(years)
	q := fmt.Sprintf(`
		SELECT p.category, SUM(t.final_amount_inr) AS revenue
		FROM %s t
		JOIN %s p ON t.product_id = p.product_id
		%s
		GROUP BY p.category
		ORDER BY revenue DESC`, schema.TableTransactions, schema.TableProducts, where)

	rows, err := s.query(ctx, "top_categories", q, args)
	if err != nil {
		if missingTable(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]CategoryRevenue, 0, len(rows))
	for _, r := range rows {
		cat, _ := r["category"].(string)
		out = append(out, CategoryRevenue{Category: cat, Revenue: asFloat(r["revenue"])})
	}
	return out, nil
}

// DeliveryDistribution returns order counts per delivery-day bucket,
// ascending. Rows with missing delivery days are excluded.
func (s *Service) DeliveryDistribution(ctx context.Context, years []int) ([]DeliveryBucket, error) {
	where, args := yearFilter(years)
	cond := "WHERE delivery_days IS NOT NULL"
	if where != "" {
		cond = where + " AND delivery_days IS NOT NULL"
	}
	q := fmt.Sprintf(`
		SELECT delivery_days, COUNT(*) AS orders
		FROM %s
		%s
		GROUP BY delivery_days
		ORDER BY delivery_days`, schema.TableTransactions, cond)

	rows, err := s.query(ctx, "delivery_distribution", q, args)
	if err != nil {
		return nil, err
	}
	out := make([]DeliveryBucket, 0, len(rows))
	for _, r := range rows {
		out = append(out, DeliveryBucket{
			Days:   int(asInt(r["delivery_days"])),
			Orders: asInt(r["orders"]),
		})
	}
	return out, nil
}

// PrimeMembershipSplit returns order and revenue totals per membership flag,
// non-prime first. Rows with an unknown flag are excluded rather than counted
// as non-prime.
func (s *Service) PrimeMembershipSplit(ctx context.Context, years []int) ([]PrimeSplit, error) {
	where, args := yearFilter(years)
	cond := "WHERE is_prime_member IS NOT NULL"
	if where != "" {
		cond = where + " AND is_prime_member IS NOT NULL"
	}
	q := fmt.Sprintf(`
		SELECT is_prime_member, COUNT(*) AS orders, SUM(final_amount_inr) AS revenue
		FROM %s
		%s
		GROUP BY is_prime_member
		ORDER BY is_prime_member`, schema.TableTransactions, cond)

	rows, err := s.query(ctx, "prime_split", q, args)
	if err != nil {
		return nil, err
	}
	out := make([]PrimeSplit, 0, len(rows))
	for _, r := range rows {
		out = append(out, PrimeSplit{
			Prime:   asInt(r["is_prime_member"]) == 1,
			Orders:  asInt(r["orders"]),
			Revenue: asFloat(r["revenue"]),
		})
	}
	return out, nil
}

// missingTable reports whether err is the backend's "no such table"
// condition, which the category join treats as an empty catalog.
func missingTable(err error) bool {
	s := err.Error()
	return strings.Contains(s, "no such table") || strings.Contains(s, "does not exist")
}

// asFloat coerces an aggregate cell across the types the backends return.
func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	}
	return 0
}

func asInt(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	}
	return 0
}
