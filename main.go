// Command domination starts the Domination match server.
//
// It supports four commands:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "validate" – checks every arena file in the config directory
//  4. "autoplay" – plays a match against a running server with a simple bot
//
// Flags control host/port, config directory, automatic tick rate, debug
// logging, and optional ngrok tunneling for easy external access during
// development. Every flag can also be set from the environment or a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/domination/api"
	"github.com/wricardo/domination/autoplay"
	"github.com/wricardo/domination/game/config"
	"github.com/wricardo/domination/game/match"
	"github.com/wricardo/domination/game/service"
	"github.com/wricardo/domination/game/session"
	"github.com/wricardo/domination/transport/mcp"
	"github.com/wricardo/domination/transport/websocket"
	"github.com/wricardo/domination/validate"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Domination Match Server"
)

const (
	sessionCleanupInterval = time.Hour
	sessionMaxAge          = 24 * time.Hour
	shutdownTimeout        = 10 * time.Second
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("domination failed")
	}
}

// newCommand builds the command tree. Flags declared on the root are visible
// to every subcommand.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "domination",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing arena configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.DurationFlag{
				Name:    "tick-rate",
				Value:   0,
				Usage:   "Advance every running match at this interval (0 disables automatic ticking)",
				Sources: cli.EnvVars("TICK_RATE"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action: runServer,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server, starting an internal HTTP API if needed",
				Action:  runStdioMCP,
			},
			{
				Name:   "validate",
				Usage:  "Validate every arena file in the config directory",
				Action: runValidate,
			},
			{
				Name:  "autoplay",
				Usage: "Play a match against a running server with the sweep bot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "Server URL (defaults to http://<host>:<port>)",
					},
					&cli.StringFlag{
						Name:  "arena",
						Usage: "Arena config ID (server default when empty)",
					},
					&cli.IntFlag{
						Name:  "max-turns",
						Value: autoplay.DefaultMaxTurns,
						Usage: "Finish the match after this many turns",
					},
					&cli.DurationFlag{
						Name:  "delay",
						Usage: "Pause between turns",
					},
				},
				Action: runAutoplay,
			},
		},
	}
}

// setupLogging points the global zerolog logger at stderr. Stdout is
// reserved for the MCP stdio protocol.
func setupLogging(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Logger.With().Caller().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// initializeServices wires the config and session managers into the match service
func initializeServices(configDir string) (service.MatchService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	return service.NewMatchService(sessionManager, configManager), sessionManager, nil
}

// sessionCleanupRoutine periodically removes matches that have not been
// accessed within sessionMaxAge.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Info().Int("removed", removed).Msg("Cleaned up expired matches")
			}
		}
	}
}

// broadcastTick forwards automatic ticks to the match's WebSocket subscribers
func broadcastTick(hub *websocket.Hub) service.TickHandler {
	return func(matchID string, report *match.TickReport, state *match.State) {
		hub.BroadcastEvent(matchID, service.EventTick, report)
		hub.BroadcastState(matchID, state)
	}
}

// mcpHandler serves single JSON-RPC MCP messages over HTTP POST
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	}
}

// newMux combines the REST API, WebSocket endpoint, and /mcp endpoint
func newMux(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.HandleFunc("/mcp", mcpHandler(mcpClient))
	return mux
}

// runServer starts the HTTP server with REST API, WebSocket hub, and an /mcp
// proxy endpoint, plus the automatic ticker and session cleanup. If ngrok is
// enabled it also provisions a public tunnel. It returns once ctx is
// cancelled and everything has shut down.
func runServer(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.Bool("debug"))

	matchService, sessionManager, err := initializeServices(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	hub := websocket.NewHub(websocket.NewServiceCommands(matchService))
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		sessionCleanupRoutine(ctx, sessionManager)
	}()

	if rate := cmd.Duration("tick-rate"); rate > 0 {
		ticker := service.NewTicker(sessionManager, rate, broadcastTick(hub))
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker.Run(ctx)
		}()
		log.Info().Dur("rate", rate).Msg("Automatic ticking enabled")
	}

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	mux := newMux(api.NewServer(matchService, hub), mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("version", Version).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?match=<match_id>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mux)
		}()
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down...")
	case err := <-serveErr:
		if err != nil {
			cancel()
			wg.Wait()
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("Server stopped")
	return nil
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Warn().Msg("Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Info().Msg("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Info().Str("domain", domain).Msg("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("Failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.Info().Str("url", ngrokURL).Msg("Ngrok tunnel established")
	log.Info().Msgf("  REST API (ngrok): %s/api", ngrokURL)
	log.Info().Msgf("  WebSocket (ngrok): %s/ws?match=<match_id>", ngrokURL)
	log.Info().Msgf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Ngrok server error")
	}
	log.Info().Msg("Ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening on
// --host/--port, otherwise it starts a minimal internal HTTP API bound to a
// random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.Bool("debug"))

	externalURL := fmt.Sprintf("http://%s:%d", cmd.String("host"), int(cmd.Int("port")))
	log.Info().Str("url", externalURL).Msg("Checking for external API server")

	baseURL := externalURL
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil {
		resp.Body.Close()
	}
	if err != nil || resp.StatusCode >= 500 {
		log.Info().Msg("No external API server found, starting internal HTTP server")

		matchService, _, err := initializeServices(cmd.String("config-dir"))
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub(websocket.NewServiceCommands(matchService))
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(matchService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		log.Info().Str("addr", listener.Addr().String()).Msg("Internal HTTP server started for MCP stdio")
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runValidate validates every arena in the config directory and fails if
// any of them is invalid.
func runValidate(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.Bool("debug"))

	dir := cmd.String("config-dir")
	results, err := validate.Dir(dir)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no arena files found in %s", dir)
	}

	if invalid := printResults(os.Stdout, results); invalid > 0 {
		return fmt.Errorf("%d of %d arena files are invalid", invalid, len(results))
	}
	return nil
}

// printResults writes one line per arena plus its errors and warnings and
// returns the number of invalid arenas.
func printResults(w io.Writer, results []validate.Result) int {
	invalid := 0
	for _, result := range results {
		if !result.Valid {
			invalid++
			fmt.Fprintf(w, "❌ %s\n", result.File)
			for _, e := range result.Errors {
				fmt.Fprintf(w, "   error: %s\n", e)
			}
			continue
		}

		a := result.Analysis
		fmt.Fprintf(w, "✅ %s: %s %dx%d, %d capturable tiles, %d enemies\n",
			result.File, a.Name, a.Width, a.Height, a.Capturable, len(a.Enemies))
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "   warning: %s\n", warning)
		}
	}

	fmt.Fprintf(w, "\n%d valid, %d invalid\n", len(results)-invalid, invalid)
	return invalid
}

// runAutoplay plays one match with the sweep bot and prints the final score
func runAutoplay(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.Bool("debug"))

	baseURL := cmd.String("url")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://%s:%d", cmd.String("host"), int(cmd.Int("port")))
	}

	result, err := autoplay.Play(ctx, autoplay.NewClient(baseURL), autoplay.Options{
		Arena:    cmd.String("arena"),
		MaxTurns: int(cmd.Int("max-turns")),
		Delay:    cmd.Duration("delay"),
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
