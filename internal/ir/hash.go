package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainArtifact = "typegen/artifact/v1"
	DomainTable    = "typegen/table/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash returns the hash of generated artifact content.
// Identical content always yields the same hash, so downstream caches can key on it.
func ContentHash(content string) string {
	return hashWithDomain(DomainArtifact, []byte(content))
}

// TableHash returns the hash of a table's canonical encoding.
// Reordering types or fields changes the hash.
func TableHash(t *Table) (string, error) {
	canonical, err := MarshalCanonical(canonicalTable(t))
	if err != nil {
		return "", fmt.Errorf("TableHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTable, canonical), nil
}

// MustTableHash is like TableHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustTableHash(t *Table) string {
	h, err := TableHash(t)
	if err != nil {
		panic(err)
	}
	return h
}
