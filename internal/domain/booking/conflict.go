package booking

// ConflictError rejects a booking attempt and carries the occupied
// intervals the requested slot collides with.
type ConflictError struct {
	Conflicts []Interval
}

func (e *ConflictError) Error() string {
	return "time_conflict"
}
