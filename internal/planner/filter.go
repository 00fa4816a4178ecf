package planner

import "fmt"

// BuildFilterGraph renders plan as the -filter_complex string of the
// composite stage. Input 0 is the background image and input 1 the
// mirrored clip. Used for dry-run output and debug logs; the ffmpeg package
// builds the same graph through its stream API.
func BuildFilterGraph(plan CompositionPlan) string {
	return fmt.Sprintf("[0:v]scale=%d:%d[bg];[1:v]scale=%d:%d[video];[bg][video]overlay=%d:%d",
		plan.ScaledBackgroundWidth, plan.ScaledBackgroundHeight,
		plan.VideoWidth, plan.VideoHeight,
		plan.XOffset, plan.YOffset,
	)
}
