package model

import (
	"strings"

	"github.com/google/uuid"
)

// idLength is the number of hex characters kept from a random UUID. The
// leading nine characters precede the version nibble, so all 36 bits are
// random.
const idLength = 9

// NewID returns a short random token for a new entity. It is unique enough
// for the few hundred entities a single wedding holds; it is not a global
// identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idLength]
}
