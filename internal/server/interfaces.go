package server

import "context"

// Server defines the lifecycle contract of the listener managed by this
// package.
//
// Implementations block in [Server.RunServer] until shutdown is requested
// and release resources in [Server.Shutdown].
type Server interface {
	// RunServer starts serving requests and blocks until a stop signal
	// arrives and the listener has shut down.
	RunServer()

	// Run is RunServer stopped by ctx instead of process signals.
	Run(ctx context.Context) error

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
