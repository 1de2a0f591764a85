package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := map[string]string{
		`"postgres://u:p@h:5432/quotes?sslmode=disable"`: "postgres://u:p@h:5432/quotes?sslmode=disable",
		"host=localhost user=u   dbname=quotes":          "host=localhost user=u dbname=quotes sslmode=disable",
		"host=localhost dbname=quotes sslmode=require":   "host=localhost dbname=quotes sslmode=require",
		"file:quotes.db?cache=shared":                    "file:quotes.db?cache=shared",
		"":                                               "",
		"not a dsn":                                      "not a dsn",
	}
	for in, want := range cases {
		if got := NormalizeDSN(in); got != want {
			t.Fatalf("NormalizeDSN(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsSQLiteDSN(t *testing.T) {
	if !IsSQLiteDSN("file:quotes.db?mode=memory") || !IsSQLiteDSN("data/app.db") || !IsSQLiteDSN(":memory:") {
		t.Fatalf("sqlite DSNs not detected")
	}
	if IsSQLiteDSN("postgres://u@h/quotes") {
		t.Fatalf("postgres DSN misdetected as sqlite")
	}
}
