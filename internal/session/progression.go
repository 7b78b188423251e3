package session

// Advance marks the current set done and moves forward. Every move except the
// one that finishes the workout enters a rest. When the last set of the last
// exercise is advanced past, done is true and the returned state keeps its
// position with that final set recorded; it must not be advanced again.
func Advance(s State) (next State, done bool) {
	next = s.clone()
	next.Completed[next.ExerciseIndex][next.SetIndex] = true

	switch {
	case next.SetIndex+1 < next.Exercises[next.ExerciseIndex].Sets:
		next.SetIndex++
		next.Phase = Resting
	case next.ExerciseIndex+1 < len(next.Exercises):
		next.ExerciseIndex++
		next.SetIndex = 0
		next.Phase = Resting
	default:
		return next, true
	}
	return next, false
}

// Retreat steps back one set, crossing into the last set of the previous
// exercise when needed. It always leaves the rest phase and does not unmark
// completed sets. At the first set of the first exercise only the phase changes.
func Retreat(s State) State {
	next := s.clone()
	switch {
	case next.SetIndex > 0:
		next.SetIndex--
	case next.ExerciseIndex > 0:
		next.ExerciseIndex--
		next.SetIndex = next.Exercises[next.ExerciseIndex].Sets - 1
	}
	next.Phase = Active
	return next
}

// EndRest returns to the active phase without moving.
func EndRest(s State) State {
	next := s.clone()
	next.Phase = Active
	return next
}

// Tick adds one elapsed second while the timer runs.
func Tick(s State) State {
	if s.TimerRunning {
		s.ElapsedSeconds++
	}
	return s
}

// SetTimerRunning pauses or resumes the timer. Phase and position are kept.
func SetTimerRunning(s State, running bool) State {
	s.TimerRunning = running
	return s
}
