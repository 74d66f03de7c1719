package combat

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Timeline returns a copy of cs ordered by initiative, highest first.
// Ties keep their relative order.
func Timeline(cs []Combatant) []Combatant {
	out := make([]Combatant, len(cs))
	copy(out, cs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Initiative > out[j].Initiative
	})
	return out
}

// CombatStarted infers a running combat from any positive initiative.
func CombatStarted(cs []Combatant) bool {
	for _, c := range cs {
		if c.Initiative > 0 {
			return true
		}
	}
	return false
}

// ParseInitiative reads a leading, optionally signed, decimal integer and
// ignores whatever follows it ("15abc" is 15, "3.9" is 3). Input without
// leading digits, or out of range, yields 0.
func ParseInitiative(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// ClampHealth applies delta to current and bounds the result to [0, max].
// A negative max is treated as 0. The sum saturates instead of overflowing.
func ClampHealth(current, delta, max int) int {
	if max < 0 {
		max = 0
	}
	var v int
	switch {
	case delta > 0 && current > math.MaxInt-delta:
		v = math.MaxInt
	case delta < 0 && current < math.MinInt-delta:
		v = math.MinInt
	default:
		v = current + delta
	}
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
