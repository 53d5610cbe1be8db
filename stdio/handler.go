package stdio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ggoodman/mcp-framework-go/internal/engine"
	"github.com/ggoodman/mcp-framework-go/internal/jsonrpc"
	"github.com/ggoodman/mcp-framework-go/internal/logctx"
	"github.com/ggoodman/mcp-framework-go/mcpservice"
	"github.com/google/uuid"
)

// Handler is a single-connection stdio transport that reads JSON-RPC messages
// from an io.Reader and writes responses to an io.Writer. By default, it uses
// os.Stdin and os.Stdout.
//
// The handler is transport-only; it delegates all MCP semantics to an engine
// bound to the provided server.
type Handler struct {
	r       io.Reader
	w       io.Writer
	l       *slog.Logger
	timeout time.Duration

	eng *engine.Engine
}

// NewHandler constructs a stdio Handler with defaults and applies options.
func NewHandler(srv *mcpservice.Server, opts ...Option) *Handler {
	h := &Handler{
		r: os.Stdin,
		w: os.Stdout,
		l: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.eng = engine.NewEngine(srv, engine.WithLogger(h.l), engine.WithRequestTimeout(h.timeout))
	return h
}

// Serve runs the stdio event loop until EOF on the reader or the context is
// canceled. It returns nil on EOF and ctx.Err() on cancellation. It is safe
// to call at most once per Handler.
//
// A read blocked on the underlying reader is not interrupted by cancellation;
// the reading goroutine exits once the reader returns.
func (h *Handler) Serve(ctx context.Context) error {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan []byte)
	errc := make(chan error, 1)
	go h.readLoop(readCtx, lines, errc)

	bw := bufio.NewWriter(h.w)
	h.l.InfoContext(ctx, "stdio.serve.start")
	for {
		select {
		case <-ctx.Done():
			h.l.InfoContext(ctx, "stdio.serve.cancelled")
			return ctx.Err()
		case err := <-errc:
			if err != nil {
				h.l.ErrorContext(ctx, "stdio.serve.fail", slog.String("err", err.Error()))
				return err
			}
			h.l.InfoContext(ctx, "stdio.serve.eof")
			return nil
		case line := <-lines:
			if err := h.handleLine(ctx, bw, line); err != nil {
				h.l.ErrorContext(ctx, "stdio.serve.fail", slog.String("err", err.Error()))
				return err
			}
		}
	}
}

func (h *Handler) readLoop(ctx context.Context, lines chan<- []byte, errc chan<- error) {
	br := bufio.NewReader(h.r)
	for {
		line, err := br.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				errc <- nil
			} else {
				errc <- fmt.Errorf("stdio: read: %w", err)
			}
			return
		}
	}
}

func (h *Handler) handleLine(ctx context.Context, bw *bufio.Writer, line []byte) error {
	ctx = logctx.WithRequestData(ctx, &logctx.RequestData{
		RequestID: uuid.NewString(),
		Transport: "stdio",
	})

	req, err := jsonrpc.DecodeRequest(line)
	if err != nil {
		rpcErr := jsonrpc.AsError(err)
		h.l.WarnContext(ctx, "stdio.decode.fail", slog.Int("code", int(rpcErr.Code)), slog.String("err", rpcErr.Message))
		if req == nil || req.IsNotification() {
			return nil
		}
		return h.write(bw, jsonrpc.NewErrorResponse(req.ID, rpcErr.Code, rpcErr.Message, nil))
	}

	resp := h.eng.HandleRequest(ctx, req)
	if resp == nil {
		return nil
	}
	return h.write(bw, resp)
}

// write emits one response line and flushes it.
func (h *Handler) write(bw *bufio.Writer, resp *jsonrpc.Response) error {
	b, err := jsonrpc.MarshalResponse(resp)
	if err != nil {
		return err
	}
	if _, err := bw.Write(b); err != nil {
		return fmt.Errorf("stdio: write: %w", err)
	}
	if err := bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("stdio: write: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("stdio: flush: %w", err)
	}
	return nil
}
