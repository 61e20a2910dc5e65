// Package generation defines the contracts between the task pipeline and the
// external video collaborators: the Generator (long-running operation
// backend), the Publisher (object storage), the shared error taxonomy, and
// the pure prompt enhancement step. Concrete adapters live under
// internal/platform.
package generation
