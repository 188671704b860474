package domain

import "fmt"

// InvalidParameterError reports a persona or configuration value outside its
// allowed range. Values are rejected at configuration time, never clamped.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Reason)
}

// EmptyCatalogError means sampling was requested with no registered archetypes.
type EmptyCatalogError struct{}

func (e *EmptyCatalogError) Error() string {
	return "persona catalog has no registered archetypes"
}

// EmptyVideoError means the video descriptor has no usable duration.
type EmptyVideoError struct {
	DurationSec float64
}

func (e *EmptyVideoError) Error() string {
	return fmt.Sprintf("video duration must be > 0, got %.3fs", e.DurationSec)
}

// SimulationTimeoutError reports a session that hit the hard tick
// ceiling. The session is kept and labeled stopped_by_policy; the error is
// logged by the runner, not silently absorbed.
type SimulationTimeoutError struct {
	PersonaID int
	Ticks     int
}

func (e *SimulationTimeoutError) Error() string {
	return fmt.Sprintf("persona %d hit the tick ceiling after %d ticks", e.PersonaID, e.Ticks)
}

// InsufficientSessionsError means aggregation was attempted below the
// statistical floor. The evaluation is rejected, not approximated.
type InsufficientSessionsError struct {
	Got int
	Min int
}

func (e *InsufficientSessionsError) Error() string {
	return fmt.Sprintf("aggregation needs at least %d sessions, got %d", e.Min, e.Got)
}
