// Package id generates prefixed unique identifiers for ReadStack entities.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Well-known prefixes. Keeping them in one place makes IDs self-describing
// in logs and makes it obvious when a handler passes the wrong kind of ID.
const (
	PrefixUser        = "user"
	PrefixSession     = "sess"
	PrefixAuthor      = "auth"
	PrefixBook        = "book"
	PrefixShelfBook   = "shb"
	PrefixCategory    = "cat"
	PrefixLibrary     = "lib"
	PrefixLibraryBook = "libbk"
	PrefixLibrarian   = "libn"
	PrefixPost        = "post"
	PrefixComment     = "cmt"
	PrefixTag         = "tag"
	PrefixToken       = "token"
)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "lib-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
