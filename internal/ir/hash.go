package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows the algorithm to change without ambiguity.
const (
	DomainState = "manikin/state/v1"
	DomainEntry = "manikin/entry/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of v's canonical JSON under domain.
func Hash(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// StateHash fingerprints a set of object states, typically the current/old
// pairs of every identifier in a World keyed by identifier key.
func StateHash(states IRObject) (string, error) {
	return Hash(DomainState, states)
}

// EntryID computes the content-addressed ID of a journal entry. The ID is
// stable across runs given the same session, sequence number and content.
func EntryID(session string, seq int64, key, message, outcome string, current IRValue) (string, error) {
	return Hash(DomainEntry, NewObject(
		O{"session", IRString(session)},
		O{"seq", IRInt(seq)},
		O{"key", IRString(key)},
		O{"message", IRString(message)},
		O{"outcome", IRString(outcome)},
		O{"current", current},
	))
}

// MustHash is like Hash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustHash(domain string, v any) string {
	h, err := Hash(domain, v)
	if err != nil {
		panic(err)
	}
	return h
}
