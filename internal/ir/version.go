package ir

// Version constants for the journal encoding.
const (
	// IRVersion is the canonical encoding version recorded with every
	// journal entry.
	IRVersion = "1"

	// RuntimeVersion is the manikin runtime version.
	RuntimeVersion = "0.1.0"
)
