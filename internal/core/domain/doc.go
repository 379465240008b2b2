// Package domain contains the core business entities and rules.
// It has no dependencies on other project packages and nothing
// beyond the standard library plus uuid for identifier derivation.
//
// The central entities are JobPosting (a row of the job corpus),
// Document (the indexed rendering of a posting) and Chunk (the
// embeddable unit a Document is split into).
package domain
