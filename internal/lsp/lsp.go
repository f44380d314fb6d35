// Package lsp serves completion and diagnostics to editors over the
// language server protocol on a JSON-RPC stream.
package lsp

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/sourcegraph/jsonrpc2"
)

// ErrExitWithoutShutdown is returned when the client sends exit before shutdown.
var ErrExitWithoutShutdown = errors.New("exit received before shutdown")

// Serve runs the server on rwc until the client disconnects or ctx is done.
func Serve(ctx context.Context, rwc io.ReadWriteCloser, srv *Server) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		srv.Handler())

	select {
	case <-conn.DisconnectNotify():
	case <-srv.exited:
		_ = conn.Close()
		if !srv.isShutdown() {
			return ErrExitWithoutShutdown
		}
	case <-ctx.Done():
		_ = conn.Close()
		return ctx.Err()
	}
	return nil
}

// Stdio joins stdin and stdout into one stream.
type Stdio struct {
	In  *os.File
	Out *os.File
}

func (s Stdio) Read(p []byte) (int, error)  { return s.In.Read(p) }
func (s Stdio) Write(p []byte) (int, error) { return s.Out.Write(p) }

// Close closes both ends, reporting the first error.
func (s Stdio) Close() error {
	if err := s.In.Close(); err != nil {
		_ = s.Out.Close()
		return err
	}
	return s.Out.Close()
}
