package match

import (
	"testing"

	"github.com/nathoo/mindspire/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "BFS", "bfs"},
		{"trims", "  queue  ", "queue"},
		{"strips internal whitespace", "O( n )", "o(n)"},
		{"collapses phrases", "depth first", "depthfirst"},
		{"tabs and newlines", "hash\ttable\n", "hashtable"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractBigO(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantOK  bool
	}{
		{"simple", "O(n)", "n", true},
		{"lowercase prefix", "o(n)", "n", true},
		{"internal spaces stripped", "O( n log n )", "nlogn", true},
		{"stars stripped", "O(n*logn)", "nlogn", true},
		{"embedded in sentence", "it runs in O(n^2) time", "n^2", true},
		{"no big-o", "linear", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractBigO(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExtractBigO(%q) = (%q, %v), want (%q, %v)",
					tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestComplexity(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		accepted string
		want     bool
	}{
		{"direct big-o", "O(n)", "O(n)|linear", true},
		{"class name for big-o", "linear", "O(n)|linear", true},
		{"whitespace in big-o", "O( N )", "O(n)", true},
		{"log with space", "O(log n)", "O(logn)|logarithmic", true},
		{"wrong class", "O(n)", "O(n^2)", false},
		{"big-o for class name", "O(1)", "constant", true},
		{"payload only", "nlogn", "linearithmic", true},
		{"star notation", "O(n * log n)", "O(nlogn)", true},
		{"quadratic synonym", "quadratic", "O(n^2)", true},
		{"empty user", "", "O(n)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Complexity(tt.user, tt.accepted); got != tt.want {
				t.Errorf("Complexity(%q, %q) = %v, want %v",
					tt.user, tt.accepted, got, tt.want)
			}
		})
	}
}

func TestExact(t *testing.T) {
	tests := []struct {
		name          string
		user          string
		accepted      string
		caseSensitive bool
		want          bool
	}{
		{"case-insensitive match", "Queue", "queue", false, true},
		{"case-sensitive mismatch", "Queue", "queue", true, false},
		{"case-sensitive match", "queue", "queue", true, true},
		{"alternatives", "stack", "queue|stack", false, true},
		{"trimmed", "  stack  ", "stack", false, true},
		{"no match", "heap", "queue|stack", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Exact(tt.user, tt.accepted, tt.caseSensitive); got != tt.want {
				t.Errorf("Exact(%q, %q, %v) = %v, want %v",
					tt.user, tt.accepted, tt.caseSensitive, got, tt.want)
			}
		})
	}
}

func TestNumeric(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		accepted string
		want     bool
	}{
		{"within one percent", "3.14", "3.14159", true},
		{"exact integer", "42", "42", true},
		{"way off", "50", "100", false},
		{"near-zero escape hatch", "0.0001", "0", true},
		{"non-numeric user", "three", "3", false},
		{"non-numeric accepted", "3", "three", false},
		{"negative values", "-10", "-10.05", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Numeric(tt.user, tt.accepted); got != tt.want {
				t.Errorf("Numeric(%q, %q) = %v, want %v",
					tt.user, tt.accepted, got, tt.want)
			}
		})
	}
}

func TestMatch_Dispatch(t *testing.T) {
	tests := []struct {
		name string
		user string
		acc  string
		mode types.MatchMode
		want bool
	}{
		{"complexity mode", "linear", "O(n)", types.MatchComplexity, true},
		{"numeric mode", "2.718", "2.71828", types.MatchNumeric, true},
		{"exact mode", "yes", "yes|y", types.MatchExact, true},
		{"unknown mode falls back to exact", "yes", "yes", types.MatchMode("fuzzy"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.user, tt.acc, tt.mode, false); got != tt.want {
				t.Errorf("Match(%q, %q, %q) = %v, want %v",
					tt.user, tt.acc, tt.mode, got, tt.want)
			}
		})
	}
}
