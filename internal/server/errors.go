package server

import "errors"

var (
	errNoListenAddress = errors.New("no HTTP listen address configured")
	errNoHandler       = errors.New("no handler to serve")
	errListen          = errors.New("HTTP listener failed")
)
