package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener a server accepts connections on, plain or TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a long running network server.
type Server interface {
	// Start blocks until the server stops.
	Start(securityLayer SecurityLayer) error
	// Stop drains in-flight requests until ctx is done.
	Stop(ctx context.Context) error
	Address() string
}
