// Package store defines the TaskStore interface and its sentinel errors. The
// orchestration layer depends on this interface rather than a concrete
// implementation; the in-memory implementation lives in
// internal/platform/memstore.
package store
