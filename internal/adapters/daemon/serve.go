package daemon

import (
	"context"
	"errors"
	"net"
	"os"

	"google.golang.org/grpc"
)

// Serve runs srv on lis until ctx is cancelled or lifecycle triggers shutdown,
// then stops gracefully. A nil lifecycle only honours ctx.
// Unix socket files are removed on return.
func Serve(ctx context.Context, srv *grpc.Server, lis net.Listener, lifecycle *Lifecycle) error {
	if addr, ok := lis.Addr().(*net.UnixAddr); ok {
		defer func() { _ = os.Remove(addr.Name) }()
	}

	var shutdown <-chan struct{}
	if lifecycle != nil {
		shutdown = lifecycle.ShutdownChan()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		srv.GracefulStop()
		<-errCh
		return nil
	case <-shutdown:
		srv.GracefulStop()
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}
