// Package domain contains the core entities of the video generation service:
// the Task entity with its status state machine and the GenerationRequest
// parameter snapshot with its typed enums. The package has no dependencies on
// transport, storage, or the generation backend.
package domain
