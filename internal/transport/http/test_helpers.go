package http

import "github.com/rs/zerolog"

// testLogger returns a no-op logger for tests.
func testLogger() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
