package syncstore

import (
	"strings"

	"github.com/google/uuid"
)

const tempPrefix = "temp-"

// TempID returns a locally generated identifier for a speculative entity.
// The prefix keeps it distinguishable from server-issued ids; it must never
// survive a successful create.
func TempID() string {
	return tempPrefix + uuid.NewString()
}

// IsTempID reports whether id was minted by TempID.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempPrefix)
}
