package domain

// SecondsPerDay bounds every window; the office is open all day.
const SecondsPerDay = 86400

// TimeWindow is the [Earliest, Latest] interval, in seconds from departure,
// during which service at a task may begin.
type TimeWindow struct {
	Earliest int
	Latest   int
}

// OfficeWindow leaves the depot unconstrained within a day.
func OfficeWindow() TimeWindow { return TimeWindow{Earliest: 0, Latest: SecondsPerDay} }

// Empty reports whether no arrival time satisfies the window.
func (w TimeWindow) Empty() bool { return w.Earliest > w.Latest }

// Pair returns the window in the [start, end] array form solvers expect.
func (w TimeWindow) Pair() [2]int { return [2]int{w.Earliest, w.Latest} }
