package form

import "github.com/google/uuid"

// IDGenerator produces fresh instance ids.
type IDGenerator func() string

// NewID returns a time-ordered UUIDv7 string, falling back to a random UUID
// if the clock source fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
