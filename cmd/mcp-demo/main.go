// Command mcp-demo serves the demo tools, resources and prompts over stdio,
// plain HTTP or as a serverless function, depending on configuration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"golang.org/x/sync/errgroup"

	"github.com/ggoodman/mcp-framework-go/examples/simple"
	"github.com/ggoodman/mcp-framework-go/gateway"
	"github.com/ggoodman/mcp-framework-go/internal/config"
	"github.com/ggoodman/mcp-framework-go/internal/logctx"
	"github.com/ggoodman/mcp-framework-go/mcp"
	"github.com/ggoodman/mcp-framework-go/mcpservice"
	"github.com/ggoodman/mcp-framework-go/stdio"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (default $"+config.ConfigFileEnv+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "mcp-demo:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, stderr io.Writer) error {
	log, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}

	srv, err := newServer(cfg, log)
	if err != nil {
		return err
	}
	printBanner(stderr, cfg, srv)

	switch cfg.Transport {
	case config.TransportStdio:
		h := stdio.NewHandler(srv, stdio.WithLogger(log), stdio.WithRequestTimeout(cfg.RequestTimeout))
		return h.Serve(ctx)
	case config.TransportHTTP:
		return serveHTTP(ctx, cfg, newGateway(cfg, srv, log), log)
	case config.TransportLambda:
		lambda.Start(newGateway(cfg, srv, log))
		return nil
	default:
		return fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(logctx.NewHandler(h)), nil
}

func newServer(cfg config.Config, log *slog.Logger) (*mcpservice.Server, error) {
	reg := mcpservice.NewRegistry(mcpservice.WithRegistryLogger(log))
	simple.New(simple.WithServerInfo(cfg.Server.Name, cfg.Server.Version)).Register(reg)

	if cfg.ResourceDir != "" {
		n, err := reg.RegisterFS(os.DirFS(cfg.ResourceDir), "file://resources")
		if err != nil {
			return nil, err
		}
		log.Info("resources.fs.registered", slog.String("dir", cfg.ResourceDir), slog.Int("count", n))
	}

	return mcpservice.NewServer(
		mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: cfg.Server.Name, Version: cfg.Server.Version}),
		mcpservice.WithRegistry(reg),
	), nil
}

func newGateway(cfg config.Config, srv *mcpservice.Server, log *slog.Logger) *gateway.Handler {
	return gateway.NewHandler(srv,
		gateway.WithLogger(log),
		gateway.WithRequestTimeout(cfg.RequestTimeout),
		gateway.WithAllowOrigin(cfg.HTTP.AllowOrigin),
	)
}

func serveHTTP(ctx context.Context, cfg config.Config, h http.Handler, log *slog.Logger) error {
	hs := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http.listen", slog.String("addr", cfg.HTTP.Addr))
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("http.shutdown")
		return hs.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// printBanner writes a short startup summary to w. stdout is reserved for
// protocol traffic on the stdio transport.
func printBanner(w io.Writer, cfg config.Config, srv *mcpservice.Server) {
	reg := srv.Registry()
	info := srv.Info()
	fmt.Fprintf(w, "%s v%s (%s)\n", info.Name, info.Version, cfg.Transport)
	fmt.Fprintf(w, "  tools:     %d\n", reg.Len(mcpservice.CategoryTool))
	fmt.Fprintf(w, "  resources: %d\n", reg.Len(mcpservice.CategoryResource))
	fmt.Fprintf(w, "  prompts:   %d\n", reg.Len(mcpservice.CategoryPrompt))
}
