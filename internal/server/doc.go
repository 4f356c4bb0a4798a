// Package server runs the HTTP listener in front of the dispatch engine.
//
// It builds the outer chi router (trace IDs, access logging, panic recovery,
// request timeouts and the metrics endpoint) and owns the listener lifecycle,
// including signal handling and graceful shutdown.
package server
