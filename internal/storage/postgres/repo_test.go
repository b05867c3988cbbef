package postgres

import "testing"

/*
TestRebind verifies '?' placeholders rewrite to $N while quoted literals are
left alone.
*/
func TestRebind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT * FROM t WHERE a = ?", "SELECT * FROM t WHERE a = $1"},
		{"WHERE a = ? AND b IN (?,?,?)", "WHERE a = $1 AND b IN ($2,$3,$4)"},
		{"WHERE note = 'what?' AND a = ?", "WHERE note = 'what?' AND a = $1"},
		{"WHERE note = '?' || ? || '?'", "WHERE note = '?' || $1 || '?'"},
	}
	for _, tc := range cases {
		if got := rebind(tc.in); got != tc.want {
			t.Fatalf("rebind(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

/*
TestPgIdent verifies identifier quoting, including embedded quotes.
*/
func TestPgIdent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"transactions", `"transactions"`},
		{`odd"name`, `"odd""name"`},
	}
	for _, tc := range cases {
		if got := pgIdent(tc.in); got != tc.want {
			t.Fatalf("pgIdent(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

/*
TestSQLType pins the neutral-kind to Postgres type mapping; both backends
must persist identical scalar values.
*/
func TestSQLType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind, want string
	}{
		{"integer", "BIGINT"},
		{"bool", "SMALLINT"},
		{"real", "DOUBLE PRECISION"},
		{"date", "TEXT"},
		{"text", "TEXT"},
	}
	for _, tc := range cases {
		if got := sqlType(tc.kind); got != tc.want {
			t.Fatalf("sqlType(%q) = %q, want %q", tc.kind, got, tc.want)
		}
	}
}
