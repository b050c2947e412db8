// Package sqlite provides the SQLite-backed chunk record store.
//
// Chunk records are written once per build and only read afterwards.
// Embeddings are stored as little-endian float32 blobs for provenance;
// similarity search itself runs against the flat index file, never
// against this store.
package sqlite
