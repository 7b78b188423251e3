package session

import "fmt"

// Phase says whether the current set is being performed or a rest is running.
type Phase int

const (
	Active Phase = iota
	Resting
)

func (p Phase) String() string {
	switch p {
	case Active:
		return "active"
	case Resting:
		return "resting"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText encodes the phase as "active" or "resting".
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "active":
		*p = Active
	case "resting":
		*p = Resting
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// State is the mutable state of an in-progress workout. Values are treated as
// immutable by the transition functions in this package: each one returns a new
// State and leaves its argument untouched.
type State struct {
	Exercises      []ExercisePlan
	ExerciseIndex  int
	SetIndex       int
	Phase          Phase
	ElapsedSeconds int
	TimerRunning   bool
	// Completed holds one flag per set for every exercise.
	Completed [][]bool
}

// New returns the initial state for the given exercises: first set of the first
// exercise, active, timer running, nothing completed.
func New(exercises []ExercisePlan) State {
	completed := make([][]bool, len(exercises))
	for i, ex := range exercises {
		completed[i] = make([]bool, ex.Sets)
	}
	return State{
		Exercises:    exercises,
		Phase:        Active,
		TimerRunning: true,
		Completed:    completed,
	}
}

// Current returns the exercise at the current position.
func (s State) Current() ExercisePlan {
	return s.Exercises[s.ExerciseIndex]
}

// SetsDone counts the sets marked completed.
func (s State) SetsDone() int {
	n := 0
	for _, sets := range s.Completed {
		for _, done := range sets {
			if done {
				n++
			}
		}
	}
	return n
}

// SetsTotal is the sum of target sets over all exercises.
func (s State) SetsTotal() int {
	n := 0
	for _, ex := range s.Exercises {
		n += ex.Sets
	}
	return n
}

// Validate reports the first broken invariant, if any. A non-nil result means a
// bug in whoever built or mutated the state.
func (s State) Validate() error {
	if len(s.Exercises) == 0 {
		return fmt.Errorf("no exercises")
	}
	if s.ExerciseIndex < 0 || s.ExerciseIndex >= len(s.Exercises) {
		return fmt.Errorf("exercise index %d out of range [0,%d)", s.ExerciseIndex, len(s.Exercises))
	}
	if sets := s.Exercises[s.ExerciseIndex].Sets; s.SetIndex < 0 || s.SetIndex >= sets {
		return fmt.Errorf("set index %d out of range [0,%d)", s.SetIndex, sets)
	}
	if s.Phase != Active && s.Phase != Resting {
		return fmt.Errorf("unknown phase %d", int(s.Phase))
	}
	if s.ElapsedSeconds < 0 {
		return fmt.Errorf("negative elapsed time %d", s.ElapsedSeconds)
	}
	if len(s.Completed) != len(s.Exercises) {
		return fmt.Errorf("completion table has %d rows, want %d", len(s.Completed), len(s.Exercises))
	}
	for i, ex := range s.Exercises {
		if len(s.Completed[i]) != ex.Sets {
			return fmt.Errorf("exercise %d: completion row has %d sets, want %d", i, len(s.Completed[i]), ex.Sets)
		}
	}
	return nil
}

// clone copies the completion table so a transition can write to it.
func (s State) clone() State {
	completed := make([][]bool, len(s.Completed))
	for i, row := range s.Completed {
		completed[i] = append([]bool(nil), row...)
	}
	s.Completed = completed
	return s
}

// Snapshot is the view of a State handed to the HTTP and MCP surfaces.
type Snapshot struct {
	ExerciseIndex  int            `json:"exercise_index"`
	SetIndex       int            `json:"set_index"`
	Exercise       ExercisePlan   `json:"exercise"`
	Phase          Phase          `json:"phase"`
	ElapsedSeconds int            `json:"elapsed_seconds"`
	TimerRunning   bool           `json:"timer_running"`
	SetsDone       int            `json:"sets_done"`
	SetsTotal      int            `json:"sets_total"`
	Exercises      []ExercisePlan `json:"exercises"`
	Completed      [][]bool       `json:"completed"`
}

// Snapshot returns a detached copy suitable for serialization.
func (s State) Snapshot() Snapshot {
	c := s.clone()
	return Snapshot{
		ExerciseIndex:  c.ExerciseIndex,
		SetIndex:       c.SetIndex,
		Exercise:       c.Current(),
		Phase:          c.Phase,
		ElapsedSeconds: c.ElapsedSeconds,
		TimerRunning:   c.TimerRunning,
		SetsDone:       c.SetsDone(),
		SetsTotal:      c.SetsTotal(),
		Exercises:      append([]ExercisePlan(nil), c.Exercises...),
		Completed:      c.Completed,
	}
}
