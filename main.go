// Command rovers runs the Mars Rovers simulator.
//
// It supports four commands:
//  1. "console" (default) – the interactive prompt loop on standard input/output
//  2. "serve" – the HTTP server exposing the REST API, WebSocket updates, and an /mcp endpoint
//  3. "mcp" – an MCP stdio server backed by an external or internal HTTP API
//  4. "run" – deploys mission files and prints the final rover positions
//
// Settings come from the environment (and a .env file when present); flags
// override them. Optional ngrok tunneling exposes the server publicly during
// development.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mars-rovers/api"
	"github.com/wricardo/mars-rovers/console"
	"github.com/wricardo/mars-rovers/rover/config"
	"github.com/wricardo/mars-rovers/rover/engine"
	"github.com/wricardo/mars-rovers/rover/service"
	"github.com/wricardo/mars-rovers/rover/session"
	"github.com/wricardo/mars-rovers/transport/mcp"
	"github.com/wricardo/mars-rovers/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Mars Rovers"
)

// Session retention for the background cleanup routine
const (
	sessionMaxAge   = 24 * time.Hour
	cleanupInterval = time.Hour
)

// main loads settings and dispatches to the selected command.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	if err := newApp(settings, os.Stdin, os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. Flag defaults come from settings.
func newApp(settings config.Settings, in io.Reader, out io.Writer) *cli.Command {
	missionsFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:  "missions-dir",
			Value: settings.MissionsDir,
			Usage: "Directory containing mission files",
		}
	}

	return &cli.Command{
		Name:    "rovers",
		Usage:   "simulate rovers exploring a rectangular plateau",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Value: settings.Debug,
				Usage: "Enable debug logging",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			return runConsole(ctx, in, out)
		},
		Commands: []*cli.Command{
			{
				Name:  "console",
				Usage: "Run the interactive prompt loop (default)",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					setupLogging(cmd)
					return runConsole(ctx, in, out)
				},
			},
			{
				Name:  "serve",
				Usage: "Run HTTP server with API, WebSocket, and MCP endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Value: settings.Host, Usage: "HTTP server host"},
					&cli.IntFlag{Name: "port", Value: settings.Port, Usage: "HTTP server port"},
					missionsFlag(),
					&cli.BoolFlag{Name: "ngrok", Value: settings.NgrokEnabled, Usage: "Enable ngrok tunnel"},
					&cli.StringFlag{Name: "ngrok-auth", Value: settings.NgrokAuthtoken, Usage: "Ngrok auth token"},
					&cli.StringFlag{Name: "ngrok-domain", Value: settings.NgrokDomain, Usage: "Custom ngrok domain (optional)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					setupLogging(cmd)
					s := settings
					s.Host = cmd.String("host")
					s.Port = int(cmd.Int("port"))
					s.MissionsDir = cmd.String("missions-dir")
					s.NgrokEnabled = cmd.Bool("ngrok")
					s.NgrokAuthtoken = cmd.String("ngrok-auth")
					s.NgrokDomain = cmd.String("ngrok-domain")

					roverService, manager, err := initializeServices(s.MissionsDir)
					if err != nil {
						return fmt.Errorf("failed to initialize services: %w", err)
					}
					return runHTTPServer(ctx, s, roverService, manager)
				},
			},
			{
				Name:  "mcp",
				Usage: "Run MCP stdio server with internal HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Value: settings.BaseURL(), Usage: "External API to reuse when reachable"},
					missionsFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					setupLogging(cmd)
					roverService, manager, err := initializeServices(cmd.String("missions-dir"))
					if err != nil {
						return fmt.Errorf("failed to initialize services: %w", err)
					}
					return runStdioMCPWithInternalServer(ctx, cmd.String("api-url"), roverService, manager)
				},
			},
			{
				Name:      "run",
				Usage:     "Deploy mission files and print the final rover positions",
				ArgsUsage: "mission.json [mission.json ...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					setupLogging(cmd)
					return runMissions(cmd.Args().Slice(), out)
				},
			},
		},
	}
}

// setupLogging switches log flags for debug mode
func setupLogging(cmd *cli.Command) {
	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// runConsole drives one interactive simulation
func runConsole(ctx context.Context, in io.Reader, out io.Writer) error {
	_, err := console.New(in, out).Run(ctx)
	return err
}

// runMissions deploys every mission file in order and prints its report.
// Rejected commands are printed as they happen.
func runMissions(paths []string, out io.Writer) error {
	if len(paths) == 0 {
		return errors.New("run: at least one mission file is required")
	}

	sink := engine.ReporterFunc(func(message string) {
		fmt.Fprintln(out, message)
	})

	for i, path := range paths {
		mission, err := engine.LoadMissionFile(path)
		if err != nil {
			return err
		}

		sim, err := mission.Deploy(sink)
		if err != nil {
			return fmt.Errorf("failed to deploy %s: %w", path, err)
		}

		if len(paths) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "# %s\n", mission.Name)
		}
		for line := range sim.Report() {
			fmt.Fprintln(out, line)
		}
	}

	return nil
}

// initializeServices wires the session manager, mission catalog and rover service.
func initializeServices(missionsDir string) (service.RoverService, *session.Manager, error) {
	catalog, err := config.NewCatalog(missionsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create mission catalog: %w", err)
	}

	sessionManager := session.NewManager()
	roverService := service.NewRoverService(sessionManager, catalog)

	return roverService, sessionManager, nil
}

// newHTTPHandler combines the REST API, WebSocket endpoint and /mcp proxy.
func newHTTPHandler(roverService service.RoverService, hub *websocket.Hub, baseURL string) http.Handler {
	apiServer := api.NewServer(roverService, hub)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpClient.Handler())

	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel. It blocks until
// SIGINT/SIGTERM or ctx is done.
func runHTTPServer(ctx context.Context, settings config.Settings, roverService service.RoverService, manager *session.Manager) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	go sessionCleanupRoutine(ctx, manager)

	addr := settings.Addr()
	mainRouter := newHTTPHandler(roverService, hub, settings.BaseURL())

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serverErr := make(chan error, 1)

	// Start regular HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("Starting %s v%s", AppName, Version)
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("HTTP server failed: %w", err)
			stop()
		}
	}()

	if settings.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, settings, mainRouter)
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Wait for all goroutines to finish
	wg.Wait()
	log.Println("Server stopped")

	select {
	case err := <-serverErr:
		return err
	default:
		return nil
	}
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done
func runNgrokTunnel(ctx context.Context, settings config.Settings, handler http.Handler) {
	if settings.NgrokAuthtoken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	// Configure ngrok endpoint
	var tunnel ngrokConfig.Tunnel
	if settings.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.NgrokDomain))
		log.Printf("Using custom ngrok domain: %s", settings.NgrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(settings.NgrokAuthtoken),
	)
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	// Serve HTTP through ngrok tunnel
	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := manager.CleanupExpiredSessions(sessionMaxAge)
			if removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// apiReachable reports whether an API server answers health checks at baseURL
func apiReachable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalServer serves the API on a random loopback port and returns its base URL
func startInternalServer(ctx context.Context, roverService service.RoverService) (string, *http.Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	internalAddr := listener.Addr().String()
	log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	httpServer := &http.Server{
		Handler: api.NewServer(roverService, hub),
	}

	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()

	return "http://" + internalAddr, httpServer, nil
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It reuses an external API at externalURL when one answers; otherwise it
// starts a minimal internal HTTP API bound to a random loopback port.
func runStdioMCPWithInternalServer(ctx context.Context, externalURL string, roverService service.RoverService, manager *session.Manager) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	baseURL := externalURL
	log.Printf("Checking for external API server at %s...", externalURL)

	if apiReachable(externalURL) {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		internalURL, httpServer, err := startInternalServer(ctx, roverService)
		if err != nil {
			return err
		}
		defer httpServer.Close()

		go sessionCleanupRoutine(ctx, manager)
		baseURL = internalURL
	}

	mcpClient := mcp.NewClient(baseURL)

	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
