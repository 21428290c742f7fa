// Package camera maps between world coordinates and device pixels, picks
// the node under a pointer, and animates the view between targets.
//
// # Transform
//
// The camera is a pan point plus a zoom factor, scaled by the device pixel
// ratio and centered on the viewport:
//
//	screen = center + DPR·Zoom·(world − pan)
//	world  = (screen − center) / (DPR·Zoom) + pan
//
// [Forward] and [Inverse] are exact inverses for any positive scale.
//
// # Animation
//
// An [Animator] eases the camera between two states. It does not own a
// clock: frames are requested from a [Scheduler], which may be driven by a
// terminal tick, a server ticker or, in tests, by hand with a
// [ManualScheduler]. At most one animation runs at a time; starting a new
// one cancels the previous frame request.
package camera
