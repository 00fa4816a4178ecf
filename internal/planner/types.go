package planner

import "fmt"

// CompositionPlan describes the stage-2 filter graph in pixels. All four
// sizes are even; offsets were computed before even-rounding and may
// therefore sit one pixel off the exact center.
type CompositionPlan struct {
	ScaledBackgroundWidth  int
	ScaledBackgroundHeight int
	XOffset                int
	YOffset                int
	VideoWidth             int
	VideoHeight            int
}

// Background returns the scaled background size as "WxH".
func (p CompositionPlan) Background() string {
	return fmt.Sprintf("%dx%d", p.ScaledBackgroundWidth, p.ScaledBackgroundHeight)
}

// Video returns the overlaid video size as "WxH".
func (p CompositionPlan) Video() string {
	return fmt.Sprintf("%dx%d", p.VideoWidth, p.VideoHeight)
}

// TrimWindow is the part of the source kept by stage 1, in seconds.
type TrimWindow struct {
	Start  float64
	Length float64
}

// Valid reports whether the window keeps any footage.
func (w TrimWindow) Valid() bool {
	return w.Length > 0
}
