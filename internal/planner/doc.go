// Package planner holds the pure arithmetic of a composite: where the
// mirrored clip sits on the scaled background (CompositionPlan) and which
// part of the source survives the trim (TrimWindow).
//
// Nothing here touches the filesystem or spawns a process.
package planner
