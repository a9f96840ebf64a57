package cleanup

import "testing"

func TestParseDailyRunTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"03:00", "0 3 * * *"},
		{"7:30", "30 7 * * *"},
		{"23:59", "59 23 * * *"},
		{"24:00", "0 3 * * *"},
		{"12:60", "0 3 * * *"},
		{"noon", "0 3 * * *"},
		{"", "0 3 * * *"},
	}

	for _, tt := range tests {
		if got := parseDailyRunTime(tt.in); got != tt.want {
			t.Errorf("parseDailyRunTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
