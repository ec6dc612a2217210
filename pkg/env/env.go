// Package env keeps names of environment variables with special significance to
// rho.
package env

// Environment variables with special significance to rho.
const (
	// Scales the timeouts of tests. Used when running tests on slow machines.
	RHO_TEST_TIME_SCALE = "RHO_TEST_TIME_SCALE"
	HOME                = "HOME"
	XDG_CONFIG_HOME     = "XDG_CONFIG_HOME"
	XDG_STATE_HOME      = "XDG_STATE_HOME"
)
