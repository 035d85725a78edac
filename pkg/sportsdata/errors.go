package sportsdata

import "fmt"

// RequestError is returned when the upstream answers with a non-2xx status.
// Message holds the upstream's own explanation, truncated so a misbehaving
// origin cannot flood logs or responses.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("sportsdata: upstream returned %d: %s", e.Status, e.Message)
}
