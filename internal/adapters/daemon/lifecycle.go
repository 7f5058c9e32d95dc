package daemon

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
)

// Lifecycle shuts a daemon down after a period without RPC activity.
// A zero timeout disables the idle shutdown; Shutdown still works.
type Lifecycle struct {
	mu           sync.Mutex
	timer        *time.Timer
	lastActivity time.Time
	timeout      time.Duration
	active       int
	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

// NewLifecycle creates a new lifecycle manager with the given idle timeout.
func NewLifecycle(timeout time.Duration) *Lifecycle {
	l := &Lifecycle{
		lastActivity: time.Now(),
		timeout:      timeout,
		shutdownChan: make(chan struct{}),
	}
	if timeout > 0 {
		l.timer = time.AfterFunc(timeout, l.expire)
	}
	return l
}

// expire fires when the idle timer runs out. Calls still in progress keep
// the daemon alive; the timer is re-armed instead.
func (l *Lifecycle) expire() {
	l.mu.Lock()
	if l.active > 0 {
		l.timer.Reset(l.timeout)
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	l.triggerShutdown()
}

// ResetTimer records activity and restarts the idle timer.
func (l *Lifecycle) ResetTimer() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastActivity = time.Now()
	if l.timer != nil {
		l.timer.Reset(l.timeout)
	}
}

// LastActivity returns the timestamp of the last activity.
func (l *Lifecycle) LastActivity() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastActivity
}

// ShutdownChan returns a channel that closes when shutdown is triggered.
func (l *Lifecycle) ShutdownChan() <-chan struct{} {
	return l.shutdownChan
}

func (l *Lifecycle) triggerShutdown() {
	l.shutdownOnce.Do(func() {
		close(l.shutdownChan)
	})
}

// Shutdown stops the timer and triggers shutdown.
func (l *Lifecycle) Shutdown() {
	l.mu.Lock()
	if l.timer != nil {
		l.timer.Stop()
	}
	l.mu.Unlock()
	l.triggerShutdown()
}

func (l *Lifecycle) begin() {
	l.mu.Lock()
	l.active++
	l.mu.Unlock()
	l.ResetTimer()
}

func (l *Lifecycle) end() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	l.ResetTimer()
}

// UnaryInterceptor counts unary calls as activity.
func (l *Lifecycle) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		l.begin()
		defer l.end()
		return handler(ctx, req)
	}
}

// StreamInterceptor counts streaming calls as activity for their whole duration.
func (l *Lifecycle) StreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		l.begin()
		defer l.end()
		return handler(srv, ss)
	}
}

// ServerOptions returns the options that wire the lifecycle into a gRPC server.
func (l *Lifecycle) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(l.UnaryInterceptor()),
		grpc.ChainStreamInterceptor(l.StreamInterceptor()),
	}
}
