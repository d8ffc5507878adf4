package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit", input: "need n-101", limit: 0, expect: ""},
		{name: "fits", input: "blankets", limit: 10, expect: "blankets"},
		{name: "cut with ellipsis", input: "winter blankets", limit: 6, expect: "winter..."},
		{name: "trims surrounding whitespace", input: "  Pune  ", limit: 3, expect: "Pun..."},
		{name: "flattens multi-line prompts", input: "line one\n\n  line\ttwo", limit: 50, expect: "line one line two"},
		{name: "counts runes", input: "पुणे शहर", limit: 4, expect: "पुणे..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
