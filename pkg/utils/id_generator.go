package utils

import (
	"github.com/google/uuid"
)

// GenerateID creates a new UUID v4 string for use as an entity
// identifier (trips, session tokens). UUIDs need no coordination, which
// keeps ID generation out of the repositories.
func GenerateID() string {
	return uuid.New().String()
}
