package testutil

// DefaultSession is the session used when a fixed generator is given none.
const DefaultSession = "test-session-default"

// FixedSessionGenerator returns the same journal session id every time.
//
// Journals written under a fixed session are byte-identical across runs,
// which golden comparisons rely on. It satisfies store.SessionGenerator.
type FixedSessionGenerator struct {
	session string
}

// NewFixedSessionGenerator creates a generator for session, or for
// DefaultSession if session is empty.
func NewFixedSessionGenerator(session string) *FixedSessionGenerator {
	if session == "" {
		session = DefaultSession
	}
	return &FixedSessionGenerator{session: session}
}

// Generate returns the fixed session id.
func (g *FixedSessionGenerator) Generate() string {
	return g.session
}
