// Package pipeline discovers input clips, runs the two-stage transform on
// each one and reports a batch summary.
//
// Layout:
//   - discover.go: input discovery and output naming.
//   - workspace.go: run-scoped temp directory, per-file scratch files and
//     the final replace-then-rename step.
//   - transform.go: the per-file Transformer (probe, mirror, plan,
//     composite, finalize) behind the Inspector and Transcoder interfaces.
//   - stats.go: BatchResult and failure classification.
//   - runner.go: the batch loop and summary logging.
package pipeline
