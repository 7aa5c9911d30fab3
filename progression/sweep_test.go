package progression

import "testing"

func TestStreakLapsed(t *testing.T) {
	cases := []struct {
		name       string
		lastUpdate string
		today      string
		want       bool
	}{
		{"credited today", "2024-01-11", "2024-01-11", false},
		{"credited yesterday, still in grace", "2024-01-10", "2024-01-11", false},
		{"skipped one day", "2024-01-09", "2024-01-11", true},
		{"skipped many days", "2024-01-01", "2024-01-11", true},
		{"across month boundary", "2024-01-31", "2024-02-01", false},
		{"across year boundary", "2023-12-31", "2024-01-01", false},
		{"leap day grace", "2024-02-29", "2024-03-01", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := StreakLapsed(c.lastUpdate, c.today); got != c.want {
				t.Errorf("StreakLapsed(%q, %q) = %v, want %v", c.lastUpdate, c.today, got, c.want)
			}
		})
	}
}
