package youtube

import "testing"

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"HoursMinutesSeconds", "PT1H2M3S", 3723},
		{"SecondsOnly", "PT45S", 45},
		{"MinutesOnly", "PT10M", 600},
		{"HoursOnly", "PT2H", 7200},
		{"HoursSeconds", "PT1H30S", 3630},
		{"Empty", "", 0},
		{"Garbage", "not a duration", 0},
		{"BarePrefix", "PT", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDurationSeconds(tt.input); got != tt.expected {
				t.Errorf("ParseDurationSeconds(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsShortForm(t *testing.T) {
	if !IsShortForm(179) {
		t.Error("expected 179 seconds to classify as short-form")
	}
	if IsShortForm(180) {
		t.Error("expected 180 seconds to not classify as short-form")
	}
	if !IsShortForm(0) {
		t.Error("expected unknown (zero) duration to classify as short-form")
	}
}
