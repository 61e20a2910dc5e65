// Package service contains the orchestration layer. VideoService owns the
// lifecycle of generation tasks: creation with bounded admission, status and
// listing queries, and cooperative cancellation. It depends on the store,
// queue, generator, and publisher through interfaces so every collaborator
// can be faked in tests.
package service
