// Package httpserver runs HTTP handlers with a pre-bound listener and a
// graceful shutdown tied to a context.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
)

const shutdownTimeout = 5 * time.Second

// Serve binds addr and runs h until ctx is cancelled, then shuts down
// gracefully. Bind failures are returned before any request is served.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "bind listener").
			WithContext("addr", addr).
			Build()
	}
	return ServeListener(ctx, ln, h)
}

// ServeListener runs h on an already bound listener until ctx is cancelled.
func ServeListener(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "http server failed").Build()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "http server shutdown").Build()
	}
	return nil
}
