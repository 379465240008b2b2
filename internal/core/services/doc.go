// Package services contains the core business logic: corpus ingestion,
// retrieval with domain-aware re-ranking, resume matching and the
// evaluation harness. Services depend only on the driven ports, never
// on concrete adapters.
package services
