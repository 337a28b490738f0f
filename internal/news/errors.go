package news

// ValidationError is a user-correctable input failure. It is never
// retried automatically; the caller fixes the input and re-submits.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}
