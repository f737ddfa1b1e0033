package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool is anything that can register itself on an SDK server.
type Tool interface {
	Register(server *mcp.Server)
}

// Options configures an MCPServer.
type Options struct {
	Name         string
	Version      string
	Instructions string
	// KeepAlive is the interval between pings sent to connected clients.
	// Zero disables pinging.
	KeepAlive time.Duration
	// ToolTimeout bounds every tools/call request. Zero means no limit.
	ToolTimeout time.Duration
	// Logger receives operator diagnostics. Nil discards them.
	Logger *slog.Logger
	// OnReady is called once the transport is up and the server can accept
	// requests.
	OnReady func()
}

// MCPServer serves tools over the MCP protocol using the official MCP Go SDK.
type MCPServer struct {
	server  *mcp.Server
	log     *slog.Logger
	onReady func()

	mu      sync.Mutex
	httpSrv *http.Server
}

// New creates a new MCPServer from opts.
func New(opts Options) *MCPServer {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    opts.Name,
		Version: opts.Version,
	}, &mcp.ServerOptions{
		Instructions: opts.Instructions,
		KeepAlive:    opts.KeepAlive,
	})

	// Middleware runs outermost first. Logger wraps Recovery so a recovered
	// panic is logged as a failed request.
	server.AddReceivingMiddleware(
		Logger(log),
		Recovery(),
		Timeout(opts.ToolTimeout),
	)

	return &MCPServer{
		server:  server,
		log:     log,
		onReady: opts.OnReady,
	}
}

// Register adds tools to the server.
func (s *MCPServer) Register(tools ...Tool) {
	for _, t := range tools {
		t.Register(s.server)
	}
}

// Server returns the underlying SDK server.
func (s *MCPServer) Server() *mcp.Server {
	return s.server
}

// Serve starts serving MCP requests. It reads requests from in and writes
// responses to out. It blocks until ctx is cancelled or the transport closes.
func (s *MCPServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	transport := &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	}

	return s.run(ctx, transport)
}

// run serves one session on transport. Exported via Serve for production
// use; called directly by tests with InMemoryTransport.
func (s *MCPServer) run(ctx context.Context, transport mcp.Transport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	session, err := s.server.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("mcpserver: connect: %w", err)
	}

	s.log.DebugContext(ctx, "session connected", "session", session.ID())
	s.ready()

	stop := context.AfterFunc(ctx, func() { _ = session.Close() })
	defer stop()

	err = session.Wait()

	s.log.DebugContext(ctx, "session closed", "session", session.ID())

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("mcpserver: serve: %w", err)
	}

	return nil
}

// Handler returns an http.Handler speaking the streamable HTTP transport.
func (s *MCPServer) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// ServeHTTP listens on addr and serves the streamable HTTP transport until
// ctx is cancelled.
func (s *MCPServer) ServeHTTP(ctx context.Context, addr string) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mcpserver: listen: %w", err)
	}

	return s.serveListener(ctx, ln)
}

func (s *MCPServer) serveListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.log.DebugContext(ctx, "http transport listening", "addr", ln.Addr().String())
	s.ready()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mcpserver: serve http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}

		return ctx.Err()
	}
}

// Shutdown closes every live session and stops the HTTP listener, if any.
// It is safe to call more than once.
func (s *MCPServer) Shutdown(ctx context.Context) error {
	var errs []error

	for session := range s.server.Sessions() {
		if err := session.Close(); err != nil {
			s.log.DebugContext(ctx, "session close failed", "session", session.ID(), "error", err)
		}
	}

	s.mu.Lock()
	srv := s.httpSrv
	s.httpSrv = nil
	s.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("mcpserver: shutdown: %w", err)
	}

	return nil
}

func (s *MCPServer) ready() {
	if s.onReady != nil {
		s.onReady()
	}
}

// nopWriteCloser wraps an io.Writer as an io.WriteCloser with a no-op Close.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
