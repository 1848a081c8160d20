package report

import "github.com/google/uuid"

// RunTokenGenerator produces unique tokens identifying archived test
// runs. Implemented by UUIDv7Generator (production) and the fixed
// generator in testutil (deterministic tests).
type RunTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, so archived
// runs sort by creation time without a separate index.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
