package testutil

// FixedTokenGenerator returns the same run token every time.
//
// Unlike report.UUIDv7Generator, which mints a fresh UUIDv7 per run,
// this generator pins the token so archived runs and golden traces are
// reproducible.
//
// Thread-safety: stateless and safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a generator for token. An empty token
// defaults to "test-run-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed token.
// Implements report.RunTokenGenerator.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
