// Package app wires a doorbell process together: settings, logging, the
// single-instance guard, the camera scope, the controller and one of the
// two front-ends (window or console).
package app
