package planner

import "github.com/backmassage/backdrop/internal/probe"

// Plan fits the background around the video so the video is shown at its
// native size, centered, with the background stretched to keep its own
// aspect ratio.
//
// When the video is relatively wider than the background, the background is
// scaled to the video's width and the video is centered vertically.
// Otherwise the background is scaled to the video's height and the video is
// centered horizontally. Offsets are derived from the sizes before any
// even-rounding; the four sizes are then rounded up to even numbers because
// yuv420p encoders reject odd dimensions.
//
// Both heights must be non-zero.
func Plan(bg, fg probe.Dimensions) CompositionPlan {
	videoRatio := float64(fg.Width) / float64(fg.Height)
	bgRatio := float64(bg.Width) / float64(bg.Height)

	var sw, sh, x, y int
	if videoRatio > bgRatio {
		sw = fg.Width
		sh = int(float64(fg.Width) / bgRatio)
		x = 0
		y = (sh - fg.Height) / 2
	} else {
		sh = fg.Height
		sw = int(float64(fg.Height) * bgRatio)
		x = (sw - fg.Width) / 2
		y = 0
	}

	return CompositionPlan{
		ScaledBackgroundWidth:  EvenUp(sw),
		ScaledBackgroundHeight: EvenUp(sh),
		XOffset:                x,
		YOffset:                y,
		VideoWidth:             EvenUp(fg.Width),
		VideoHeight:            EvenUp(fg.Height),
	}
}

// EvenUp rounds an odd n up to the next even number.
func EvenUp(n int) int {
	if n%2 != 0 {
		return n + 1
	}
	return n
}

// Trim returns the window kept from a clip of the given duration: it starts
// at start and is total seconds shorter than the clip. With the defaults
// (0.5, 1.0) this drops half a second from the beginning and half a second
// from the end.
func Trim(duration, start, total float64) TrimWindow {
	return TrimWindow{Start: start, Length: duration - total}
}
