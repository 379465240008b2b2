// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: document and chunk persistence
//   - VectorIndex: vector storage and nearest-neighbour search
//   - EmbeddingService: turns text into fixed-dimension vectors
//
// # Optional Interfaces
//
//   - LLMService: one-sentence result summaries. When nil, the
//     formatter degrades to deterministic truncation.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: any adapter package
package driven
