package clean

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

/*
TestParseDate_DayFirst verifies that ambiguous slash dates resolve day-first:
"03/04/2021" is 3 April 2021, never 4 March.
*/
func TestParseDate_DayFirst(t *testing.T) {
	t.Parallel()

	got, ok := ParseDate("03/04/2021")
	if !ok {
		t.Fatalf("ParseDate failed on day-first slash date")
	}
	want := time.Date(2021, time.April, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ParseDate = %v, want %v", got, want)
	}
}

/*
TestParseDate_Layouts exercises the accepted layout set plus rejects.
*/
func TestParseDate_Layouts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2021-04-03", time.Date(2021, 4, 3, 0, 0, 0, 0, time.UTC), true},
		{"3/4/2021", time.Date(2021, 4, 3, 0, 0, 0, 0, time.UTC), true},
		{"03-04-2021", time.Date(2021, 4, 3, 0, 0, 0, 0, time.UTC), true},
		{"03.04.2021", time.Date(2021, 4, 3, 0, 0, 0, 0, time.UTC), true},
		{"2021-04-03 10:20:30", time.Date(2021, 4, 3, 10, 20, 30, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"32/01/2021", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && !got.Equal(tc.want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

/*
TestDates_DerivedColumns verifies that Dates emits positionally aligned
date/year/month columns and that unparseable cells are nil in all three.
*/
func TestDates_DerivedColumns(t *testing.T) {
	t.Parallel()

	in := []any{"15/08/2019", "garbage", nil}
	dates, years, months, err := Dates(in)
	if err != nil {
		t.Fatalf("Dates error: %v", err)
	}
	if len(dates) != 3 || len(years) != 3 || len(months) != 3 {
		t.Fatalf("column length mismatch: %d/%d/%d", len(dates), len(years), len(months))
	}
	if d, ok := dates[0].(time.Time); !ok || d.Day() != 15 || d.Month() != time.August {
		t.Fatalf("dates[0] = %#v, want 15 August 2019", dates[0])
	}
	if years[0] != 2019 || months[0] != 8 {
		t.Fatalf("derived year/month = %v/%v, want 2019/8", years[0], months[0])
	}
	for i := 1; i < 3; i++ {
		if dates[i] != nil || years[i] != nil || months[i] != nil {
			t.Fatalf("row %d: unparseable cell leaked a value", i)
		}
	}
}

/*
TestParseCurrency covers symbol/separator stripping and the sentinel strings
that mean "no price".
*/
func TestParseCurrency(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"₹1,234.50", 1234.50, true},
		{"1,00,000", 100000, true},
		{"999", 999, true},
		{42.5, 42.5, true},
		{7, 7, true},
		{"Price on Request", 0, false},
		{"nan", 0, false},
		{"NaN", 0, false},
		{"NAN", 0, false},
		{"Inf", 0, false},
		{"-Inf", 0, false},
		{"Infinity", 0, false},
		{"", 0, false},
		{nil, 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseCurrency(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseCurrency(%#v) = (%v, %v), want (%v, %v)",
				tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

/*
TestParseRating covers fraction numerators and first-numeric-substring
extraction from free text.
*/
func TestParseRating(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"4/5", 4, true},
		{"4.5/5", 4.5, true},
		{"rated 3.8 stars", 3.8, true},
		{"4.2", 4.2, true},
		{3.0, 3.0, true},
		{"", 0, false},
		{"no digits", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseRating(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseRating(%#v) = (%v, %v), want (%v, %v)",
				tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

/*
TestParseBool verifies the tri-state flag mapping: the fixed vocabulary maps
to true/false, everything else stays unknown rather than defaulting to false.
*/
func TestParseBool(t *testing.T) {
	t.Parallel()

	trues := []any{"Yes", "Y", 1, int64(1), 1.0, true}
	for _, v := range trues {
		if val, known := ParseBool(v); !known || !val {
			t.Fatalf("ParseBool(%#v) = (%v, %v), want (true, true)", v, val, known)
		}
	}
	falses := []any{"No", "N", 0, int64(0), 0.0, false}
	for _, v := range falses {
		if val, known := ParseBool(v); !known || val {
			t.Fatalf("ParseBool(%#v) = (%v, %v), want (false, true)", v, val, known)
		}
	}
	unknowns := []any{"yes", "maybe", "", nil, 2, 0.5}
	for _, v := range unknowns {
		if _, known := ParseBool(v); known {
			t.Fatalf("ParseBool(%#v) mapped an unknown value", v)
		}
	}
}

/*
TestParseDeliveryDays covers the free-text sentinels and the [0,15] domain;
out-of-range values are missing, never clamped.
*/
func TestParseDeliveryDays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{"Same Day", 0, true},
		{"1-2 days", 2, true},
		{"7", 7, true},
		{"3.0", 3, true},
		{5, 5, true},
		{0, 0, true},
		{15, 15, true},
		{16, 0, false},
		{-1, 0, false},
		{"Next Week", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseDeliveryDays(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseDeliveryDays(%#v) = (%d, %v), want (%d, %v)",
				tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

/*
TestParsePayment verifies synonym collapsing and upper-cased pass-through for
unmapped methods.
*/
func TestParsePayment(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"phonepe", "UPI"},
		{"GooglePay", "UPI"},
		{"upi", "UPI"},
		{"cod", "Cash on Delivery"},
		{"C.O.D", "Cash on Delivery"},
		{"cc", "Credit Card"},
		{"credit_card", "Credit Card"},
		{"NetBanking", "NETBANKING"},
		{"  debit card  ", "DEBIT CARD"},
	}
	for _, tc := range cases {
		if got := ParsePayment(tc.in); got != tc.want {
			t.Fatalf("ParsePayment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

/*
TestNormalizers_ColumnShape verifies that non-scalar cells abort a batch with
ErrColumnShape instead of becoming nil.
*/
func TestNormalizers_ColumnShape(t *testing.T) {
	t.Parallel()

	bad := []any{"ok", []string{"list"}, "ok"}
	funcs := map[string]func([]any) ([]any, error){
		"Currency":     Currency,
		"Rating":       Rating,
		"Boolean":      Boolean,
		"DeliveryDays": DeliveryDays,
		"Payment":      Payment,
	}
	for name, fn := range funcs {
		if _, err := fn(bad); !errors.Is(err, ErrColumnShape) {
			t.Fatalf("%s error = %v, want ErrColumnShape", name, err)
		}
	}
	if _, _, _, err := Dates(bad); !errors.Is(err, ErrColumnShape) {
		t.Fatalf("Dates error = %v, want ErrColumnShape", err)
	}
}

/*
TestNormalizers_Alignment verifies the positional-alignment invariant: output
length always equals input length.
*/
func TestNormalizers_Alignment(t *testing.T) {
	t.Parallel()

	in := []any{"₹1", nil, "junk", "2"}
	out, err := Currency(in)
	if err != nil {
		t.Fatalf("Currency error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("output length = %d, want %d", len(out), len(in))
	}
	want := []any{1.0, nil, nil, 2.0}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("Currency = %#v, want %#v", out, want)
	}
}
