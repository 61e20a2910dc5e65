// Package task provides the background processing core: a buffered task
// queue, a worker-pool runner sized by the configured concurrency ceiling,
// and the VideoGenerationTask that drives one generation request through the
// analyzing/generating/finalizing pipeline to a terminal outcome.
package task
