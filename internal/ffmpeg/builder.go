package ffmpeg

import (
	"strconv"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/backmassage/backdrop/internal/planner"
)

// Stage names used in logs and TransformError.
const (
	StageMirror    = "mirror"
	StageComposite = "composite"
)

// globalArgs is the shared preamble of every invocation: no banner, never
// read stdin, keep stderr to real problems unless verbose.
func globalArgs(verbose bool) []string {
	level := "error"
	if verbose {
		level = "info"
	}
	return []string{"-hide_banner", "-nostdin", "-loglevel", level}
}

// MirrorStage builds stage 1: flip input horizontally, drop every audio
// stream and keep only the trim window. The output is overwritten.
func MirrorStage(input, output string, trim planner.TrimWindow) *ffmpeggo.Stream {
	return ffmpeggo.Input(input).
		Filter("hflip", ffmpeggo.Args{}).
		Output(output, ffmpeggo.KwArgs{
			"an": "",
			"ss": seconds(trim.Start),
			"t":  seconds(trim.Length),
		}).
		OverWriteOutput()
}

// CompositeStage builds stage 2: the background image (input 0) is scaled to
// the planned background size, the clip (input 1) to the planned video size,
// and the clip is overlaid at the planned offsets. The overlay output is an
// explicit -map, which disables default stream selection, so the clip's
// audio is mapped optionally and copied unchanged when present.
func CompositeStage(background, video, output string, plan planner.CompositionPlan) *ffmpeggo.Stream {
	bg := ffmpeggo.Input(background).Video().
		Filter("scale", pair(plan.ScaledBackgroundWidth, plan.ScaledBackgroundHeight))
	fg := ffmpeggo.Input(video).Video().
		Filter("scale", pair(plan.VideoWidth, plan.VideoHeight))

	return ffmpeggo.Filter([]*ffmpeggo.Stream{bg, fg}, "overlay", pair(plan.XOffset, plan.YOffset)).
		Output(output, ffmpeggo.KwArgs{
			"map": "1:a?",
			"c:a": "copy",
		}).
		OverWriteOutput()
}

// Args returns the full argument list (without the binary) for stage.
func Args(stage *ffmpeggo.Stream, verbose bool) []string {
	return append(globalArgs(verbose), stage.GetArgs()...)
}

// pair passes two positional filter arguments; ffmpeg-go joins them with ':'.
func pair(a, b int) ffmpeggo.Args {
	return ffmpeggo.Args{strconv.Itoa(a), strconv.Itoa(b)}
}

// seconds formats a duration in seconds the way ffmpeg's time parser
// accepts it, without float noise ("0.5", "9", "2.25").
func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
