package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/germanamz/think-mcp/pkg/config"
	"github.com/germanamz/think-mcp/pkg/tools/mcpserver"
	"github.com/germanamz/think-mcp/pkg/tools/think"
)

// readyMessage goes to standard error; standard output carries protocol frames only.
const readyMessage = "Think Tool Server is running..."

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("think", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: think [flags]\n\nServe the think tool over MCP.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "path to configuration file (default: "+defaultConfigFile+" if present)")
	envFile := fs.String("env", ".env", "path to .env file (ignored if missing)")
	transport := fs.String("transport", "", "transport to serve on: stdio or http (overrides config)")
	addr := fs.String("addr", "", "listen address for the http transport (overrides config)")
	logLevel := fs.String("log-level", "", "operator log level: debug, info, warn or error (overrides config)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := loadDotEnv(*envFile); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(resolveConfigPath(*configPath))
	if err != nil {
		return err
	}

	applyOverrides(&cfg, *transport, *addr, *logLevel)

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := cfg.Logger(stderr)
	if err != nil {
		return err
	}

	srv := mcpserver.New(mcpserver.Options{
		Name:         cfg.Name,
		Version:      cfg.Version,
		Instructions: cfg.Instructions,
		KeepAlive:    cfg.KeepAliveInterval(),
		ToolTimeout:  cfg.ToolTimeoutDuration(),
		Logger:       log,
		OnReady: func() {
			fmt.Fprintln(stderr, readyMessage)
		},
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", "error", err)
		}
	}()

	srv.Register(think.New(nil))

	switch cfg.Transport.Kind {
	case config.TransportHTTP:
		err = srv.ServeHTTP(ctx, cfg.Transport.Addr)
	default:
		err = srv.Serve(ctx, stdin, stdout)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
