// Package log provides the logging abstraction used across gaship.
//
// The library never writes anywhere on its own: a [Tracker] built without a
// logger uses [NoopLogger]. The CLI wires the zerolog adapter.
//
//	logger := log.NewZerologAdapter("debug")
//	tracker, err := gaship.New("UA-XXXX-Y", gaship.WithLogger(logger))
//
// Implement [Logger] to route messages into an existing logging setup.
//
// [Tracker]: github.com/bft-labs/gaship/pkg/gaship.Tracker
package log
