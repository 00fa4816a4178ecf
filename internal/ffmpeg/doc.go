// Package ffmpeg builds and runs the two transcode stages of a composite.
//
// Stage graphs are assembled with ffmpeg-go (builder.go) and executed by a
// small runner (executor.go) that owns the process so the run context can
// cancel it and stderr can be kept for diagnostics:
//
//   - MirrorStage: hflip, drop audio, trim by a planner.TrimWindow.
//   - CompositeStage: scale background and clip, overlay the clip at the
//     planned offsets.
//
// A non-zero exit is reported as a *TransformError; its Hint classifies
// the captured stderr into a short human-readable cause (errors.go).
package ffmpeg
