// Package daemon holds the gRPC plumbing shared by the agent and controller daemons:
// address parsing, socket listeners, serving with graceful stop, and idle shutdown.
package daemon

import (
	"net"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Address is a parsed daemon address.
type Address struct {
	// Network is "unix" or "tcp".
	Network string
	// Location is a socket path or host:port.
	Location string
}

// ParseAddress accepts unix:///abs/path, unix:path, tcp://host:port and bare host:port.
func ParseAddress(raw string) (Address, error) {
	for _, scheme := range []string{"unix://", "unix:"} {
		if path, ok := strings.CutPrefix(raw, scheme); ok {
			if path == "" {
				return Address{}, zerr.With(zerr.Wrap(domain.ErrInvalidAddress, "empty socket path"), "address", raw)
			}
			return Address{Network: "unix", Location: path}, nil
		}
	}

	hostPort := strings.TrimPrefix(raw, "tcp://")
	if _, _, err := net.SplitHostPort(hostPort); err != nil {
		return Address{}, zerr.With(zerr.Wrap(domain.ErrInvalidAddress, err.Error()), "address", raw)
	}
	return Address{Network: "tcp", Location: hostPort}, nil
}

// Target returns the gRPC dial target for the address.
func (a Address) Target() string {
	if a.Network == "unix" {
		return "unix:" + a.Location
	}
	return "dns:///" + a.Location
}

// String returns the canonical form of the address.
func (a Address) String() string {
	if a.Network == "unix" {
		return "unix://" + a.Location
	}
	return "tcp://" + a.Location
}

// Listen opens a listener for the address. Unix sockets get their directory
// created, any stale socket removed, and owner-only permissions.
func Listen(a Address) (net.Listener, error) {
	if a.Network != "unix" {
		lis, err := net.Listen(a.Network, a.Location)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to listen"), "address", a.String())
		}
		return lis, nil
	}

	if err := os.MkdirAll(filepath.Dir(a.Location), domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, "failed to create socket directory")
	}

	if err := os.Remove(a.Location); err != nil && !os.IsNotExist(err) {
		return nil, zerr.Wrap(err, "failed to remove stale socket")
	}

	lis, err := net.Listen("unix", a.Location)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to listen on UDS"), "socket", a.Location)
	}

	if err := os.Chmod(a.Location, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return nil, zerr.Wrap(err, "failed to set socket permissions")
	}

	return lis, nil
}

// Dial creates a client connection to the address.
// grpc.NewClient returns immediately; the connection is made on the first RPC.
func Dial(raw string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	a, err := ParseAddress(raw)
	if err != nil {
		return nil, err
	}

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(a.Target(), opts...)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "daemon client creation failed"), "address", raw)
	}
	return conn, nil
}
