// Package events provides a lightweight event system for task lifecycle
// notifications. The task pipeline emits TaskStatusEvent values through an
// EventEmitter; handlers such as the structured-log handler subscribe at
// wiring time.
package events
