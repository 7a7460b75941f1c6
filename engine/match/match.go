// Package match implements free-text answer matching: exact string
// comparison, asymptotic-complexity equivalence, and numeric tolerance.
// All functions are pure; malformed input is a non-match, never an error.
package match

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/nathoo/mindspire/types"
)

// bigO captures the payload of an O(...) expression, case-insensitively.
// The payload is anything up to the closing paren.
var bigO = regexp.MustCompile(`(?i)o\(([^)]+)\)`)

// synonyms maps complexity-class names to their accepted spellings.
// Both the accepted answer and the player's answer are looked up here,
// so "linear" accepts "O(n)" and vice versa.
var synonyms = map[string][]string{
	"constant":     {"o(1)", "1", "constant"},
	"linear":       {"o(n)", "n", "linear"},
	"logarithmic":  {"o(logn)", "logn", "logarithmic", "log"},
	"linearithmic": {"o(nlogn)", "nlogn", "linearithmic"},
	"quadratic":    {"o(n^2)", "o(n2)", "n^2", "n2", "quadratic"},
	"cubic":        {"o(n^3)", "o(n3)", "n^3", "n3", "cubic"},
	"exponential":  {"o(2^n)", "2^n", "exponential"},
}

// Normalize lowercases s and strips ALL whitespace, internal included:
// "O( n )" → "o(n)", "depth first" → "depthfirst". Callers rely on
// whole phrases collapsing, so matching is whitespace-insensitive
// rather than merely trim-insensitive.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "")
}

// ExtractBigO pulls the payload out of the first O(...) expression in s,
// with internal spaces and '*' removed. Returns ("", false) if s has none.
func ExtractBigO(s string) (string, bool) {
	m := bigO.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	payload := strings.ReplaceAll(m[1], " ", "")
	payload = strings.ReplaceAll(payload, "*", "")
	return strings.ToLower(payload), true
}

// Complexity reports whether the player's answer matches any accepted
// complexity spelling. accepted is a "|"-separated list of literals.
// Checked in order: direct normalized equality, Big-O payload equality,
// then shared membership in a synonym class. First success wins.
func Complexity(user, accepted string) bool {
	userNorm := Normalize(user)
	userBigO, userHasBigO := ExtractBigO(user)

	for _, alt := range strings.Split(accepted, "|") {
		altNorm := Normalize(alt)

		if userNorm == altNorm {
			return true
		}

		if altBigO, ok := ExtractBigO(alt); ok && userHasBigO {
			if userBigO == altBigO {
				return true
			}
		}

		if classMatches(altNorm, userNorm, userBigO) {
			return true
		}
	}
	return false
}

// classMatches checks whether the accepted spelling names or belongs to a
// synonym class that also contains the player's answer.
func classMatches(altNorm, userNorm, userBigO string) bool {
	for class, spellings := range synonyms {
		if altNorm != class && !contains(spellings, altNorm) {
			continue
		}
		if contains(spellings, userNorm) {
			return true
		}
		if userBigO != "" && (contains(spellings, userBigO) || contains(spellings, "o("+userBigO+")")) {
			return true
		}
	}
	return false
}

// Exact reports whether the player's answer equals any "|"-separated
// accepted literal. Comparison is trimmed; lowercased unless caseSensitive.
func Exact(user, accepted string, caseSensitive bool) bool {
	u := strings.TrimSpace(user)
	if !caseSensitive {
		u = strings.ToLower(u)
	}
	for _, alt := range strings.Split(accepted, "|") {
		a := strings.TrimSpace(alt)
		if !caseSensitive {
			a = strings.ToLower(a)
		}
		if u == a {
			return true
		}
	}
	return false
}

// numericTolerance is the relative tolerance for numeric answers.
const numericTolerance = 0.01

// Numeric reports whether both strings parse as floats and the player's
// value is within 1% of the accepted value. An absolute difference below
// 0.001 also passes, so near-zero accepted values stay answerable.
func Numeric(user, accepted string) bool {
	u, err := strconv.ParseFloat(strings.TrimSpace(user), 64)
	if err != nil {
		return false
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(accepted), 64)
	if err != nil {
		return false
	}
	diff := math.Abs(u - a)
	return diff <= numericTolerance*math.Abs(a) || diff < 0.001
}

// Match dispatches to the matcher selected by mode. Unknown modes fall
// back to exact matching.
func Match(user, accepted string, mode types.MatchMode, caseSensitive bool) bool {
	switch mode {
	case types.MatchComplexity:
		return Complexity(user, accepted)
	case types.MatchNumeric:
		return Numeric(user, accepted)
	default:
		return Exact(user, accepted, caseSensitive)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
