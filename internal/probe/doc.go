// Package probe is the media inspector: it asks ffprobe for a video's
// duration and for the pixel dimensions of the first video stream of a
// video or still image.
//
// Each query spawns exactly one ffprobe process. Failures of any kind
// (tool exit status, missing field, unparsable or non-positive value)
// surface as a *ProbeError carrying the path, the operation and the
// captured stderr.
package probe
