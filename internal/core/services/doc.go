// Package services implements the driving port interfaces.
// Services contain the retrieval and groundedness-validation core and
// orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO and no direct I/O; everything external
// arrives through a port.
package services
