// Package camera supplies video frames to the doorbell window.
//
// A Source produces frames on demand; Feed polls a source at a fixed
// interval and keeps only the latest frame. Read failures are counted and
// skipped, never surfaced. Open builds a source from settings and the
// caller owns its Close.
package camera
