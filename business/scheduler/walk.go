package scheduler

import (
	"time"
)

// WalkTimes holds the fixed walk durations inside the airport, in seconds, keyed by terminal.
// Security to terminal durations include the inter terminal train where one applies
type WalkTimes struct {
	securityToTerminal map[string]int
	terminalToGate     map[string]int
}

// MakeWalkTimes builds WalkTimes from explicit duration tables
func MakeWalkTimes(securityToTerminal map[string]int, terminalToGate map[string]int) *WalkTimes {
	return &WalkTimes{
		securityToTerminal: securityToTerminal,
		terminalToGate:     terminalToGate,
	}
}

// MakeDefaultWalkTimes builds WalkTimes for the ATL domestic concourses.
// Train times assume the previous train just left
func MakeDefaultWalkTimes() *WalkTimes {
	return MakeWalkTimes(
		map[string]int{
			"T": 240,
			"A": 420,
			"B": 540,
			"C": 660,
			"D": 780,
			"E": 900,
			"F": 1020,
		},
		map[string]int{
			"T": 300,
			"A": 360,
			"B": 360,
			"C": 360,
			"D": 360,
			"E": 420,
			"F": 420,
		})
}

// securityToTerminalSeconds returns the walk from the security checkpoint to terminal, or the
// maximum across all terminals when the terminal is unknown. Worst case, never an average:
// an unknown terminal must not shave time off the schedule
func (w *WalkTimes) securityToTerminalSeconds(terminal string) int {
	if seconds, ok := w.securityToTerminal[terminal]; ok {
		return seconds
	}
	return maxSeconds(w.securityToTerminal)
}

// terminalToGateSeconds returns the walk from the terminal entrance to the gate, or the maximum
// across all terminals when the terminal or gate is unknown
func (w *WalkTimes) terminalToGateSeconds(terminal string, gate string) int {
	if gate == "" {
		return maxSeconds(w.terminalToGate)
	}
	if seconds, ok := w.terminalToGate[terminal]; ok {
		return seconds
	}
	return maxSeconds(w.terminalToGate)
}

func maxSeconds(table map[string]int) int {
	max := 0
	for _, seconds := range table {
		if seconds > max {
			max = seconds
		}
	}
	return max
}

// resolveSecurityDeadline computes the fixed airport internal durations after security
// (walks plus the traveler's desired extra time) and derives the instant security screening
// must be complete. Deterministic, no historical lookup
func resolveSecurityDeadline(profile *TravelerProfile, walkTimes *WalkTimes) StageResult {
	fixedSeconds := walkTimes.securityToTerminalSeconds(profile.Terminal) +
		walkTimes.terminalToGateSeconds(profile.Terminal, profile.Gate) +
		int(profile.ExtraTime/time.Second)
	return StageResult{
		Stage:           StageTerminalWalk,
		At:              profile.BoardingTime.Add(-time.Duration(fixedSeconds) * time.Second),
		DurationSeconds: float64(fixedSeconds),
		//fixed durations carry no variability to apply a margin to
		MarginApplied: true,
	}
}
