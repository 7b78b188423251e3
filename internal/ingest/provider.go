package ingest

// Result holds the outcome of a routine import.
type Result struct {
	RoutinesReceived  int   `json:"routines_received"`
	RoutinesInserted  int   `json:"routines_inserted"`
	RoutinesSkipped   int   `json:"routines_skipped"`
	ExercisesInserted int64 `json:"exercises_inserted"`

	Message string `json:"message,omitempty"`
}
