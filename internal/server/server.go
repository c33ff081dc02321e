package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.uber.org/zap"

	apperr "github.com/corsserve/corsserve/pkg/errors"
)

const defaultShutdownTimeout = 5 * time.Second

// Server wraps http.Server with an explicit listen step so that a busy port
// is reported before anything is served.
type Server struct {
	addr            string
	shutdownTimeout time.Duration
	log             *zap.Logger

	srv *http.Server
	ln  net.Listener
}

type Option func(*Server)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithShutdownTimeout bounds how long Serve waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

func New(addr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		addr:            addr,
		shutdownTimeout: defaultShutdownTimeout,
		log:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(s.log),

		// OPTIONS * goes to handler like any other request.
		DisableGeneralOptionsHandler: true,
	}
	return s
}

// Listen binds the TCP listener.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return apperr.Wrap(err, apperr.CodeAddrInUse, "listen on "+s.addr).WithMeta("addr", s.addr)
		}
		return apperr.Wrap(err, apperr.CodeUnavailable, "listen on "+s.addr).WithMeta("addr", s.addr)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Serve accepts connections until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		return apperr.New(apperr.CodeInternal, "serve called before listen")
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Debug("http server accepting", zap.String("addr", s.Addr()))
		if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.log.Debug("shutdown requested", zap.Error(context.Cause(ctx)))
	case err, ok := <-errCh:
		if ok {
			return apperr.Wrap(err, apperr.CodeInternal, "serve")
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("server shutdown error", zap.Error(err))
		_ = s.srv.Close()
	}
	return nil
}

// Start binds addr and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}
