// Command monopoly-deal starts the Monopoly Deal game server.
//
// It supports two modes:
//  1. "serve" (default) – runs the HTTP server exposing the REST API and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags (each also readable from a DEAL_* environment variable or a .env file)
// control host/port, the preset directory, JWT signing, the business hours
// gate, idle session cleanup, debug logging, and optional ngrok tunneling.
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
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/monopoly-deal/api"
	"github.com/wricardo/monopoly-deal/game/config"
	"github.com/wricardo/monopoly-deal/game/service"
	"github.com/wricardo/monopoly-deal/game/session"
	"github.com/wricardo/monopoly-deal/logging"
	"github.com/wricardo/monopoly-deal/transport/mcp"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Monopoly Deal Server"
)

// settings is the resolved command line configuration
type settings struct {
	Host            string
	Port            int
	ConfigDir       string
	JWTSecret       string
	TokenTTL        time.Duration
	BusinessHours   bool
	IdleTimeout     time.Duration
	CleanupInterval time.Duration
	Debug           bool
	NgrokEnabled    bool
	NgrokAuth       string
	NgrokDomain     string
}

func (s settings) addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func settingsFrom(cmd *cli.Command) settings {
	return settings{
		Host:            cmd.String("host"),
		Port:            cmd.Int("port"),
		ConfigDir:       cmd.String("config-dir"),
		JWTSecret:       cmd.String("jwt-secret"),
		TokenTTL:        cmd.Duration("token-ttl"),
		BusinessHours:   cmd.Bool("business-hours"),
		IdleTimeout:     cmd.Duration("idle-timeout"),
		CleanupInterval: cmd.Duration("cleanup-interval"),
		Debug:           cmd.Bool("debug"),
		NgrokEnabled:    cmd.Bool("ngrok"),
		NgrokAuth:       cmd.String("ngrok-auth"),
		NgrokDomain:     cmd.String("ngrok-domain"),
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "monopoly-deal",
		Usage:   "Host Monopoly Deal games over REST and MCP",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("DEAL_HOST")},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("DEAL_PORT", "PORT")},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing rules presets", Sources: cli.EnvVars("DEAL_CONFIG_DIR", "CONFIG_DIR")},
			&cli.StringFlag{Name: "jwt-secret", Usage: "HMAC secret for login tokens (random per process when empty)", Sources: cli.EnvVars("DEAL_JWT_SECRET", "JWT_SECRET")},
			&cli.DurationFlag{Name: "token-ttl", Value: api.DefaultTokenTTL, Usage: "Lifetime of login tokens", Sources: cli.EnvVars("DEAL_TOKEN_TTL")},
			&cli.BoolFlag{Name: "business-hours", Usage: "Refuse hosting new games on weekdays 9-5 Eastern", Sources: cli.EnvVars("DEAL_BUSINESS_HOURS")},
			&cli.DurationFlag{Name: "idle-timeout", Value: 24 * time.Hour, Usage: "Remove sessions idle for this long (0 disables)", Sources: cli.EnvVars("DEAL_IDLE_TIMEOUT")},
			&cli.DurationFlag{Name: "cleanup-interval", Value: time.Hour, Usage: "How often idle sessions are swept", Sources: cli.EnvVars("DEAL_CLEANUP_INTERVAL")},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Sources: cli.EnvVars("DEAL_DEBUG")},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run HTTP server with REST API and MCP endpoint (default)",
				Action:  runServe,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server backed by an external or internal HTTP API",
				Action:  runStdio,
			},
		},
	}
}

// main loads .env, then runs the selected mode.
func main() {
	// Load .env file if it exists; flags read the environment afterwards
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(s settings) (*zap.Logger, error) {
	return logging.New(logging.Config{Debug: s.Debug, Console: s.Debug})
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	s := settingsFrom(cmd)
	logger, err := newLogger(s)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting", zap.String("app", AppName), zap.String("version", Version), zap.String("mode", "serve"))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameService, sessions, err := initializeServices(s, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	go sessionCleanupRoutine(ctx, sessions, s, logger)

	return runHTTPServer(ctx, s, gameService, logger)
}

func runStdio(ctx context.Context, cmd *cli.Command) error {
	s := settingsFrom(cmd)
	logger, err := newLogger(s)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runStdioMCPWithInternalServer(ctx, s, logger)
}

// initializeServices wires the session and preset managers into the game service.
func initializeServices(s settings, logger *zap.Logger) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(s.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager(session.WithLogger(logger.Named("session")))
	return service.NewGameService(sessionManager, configManager), sessionManager, nil
}

// apiConfig fills in a per-process JWT secret when none is configured.
func apiConfig(s settings, logger *zap.Logger) api.Config {
	secret := s.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("no JWT secret configured; tokens will not survive a restart")
	}
	return api.Config{JWTSecret: secret, TokenTTL: s.TokenTTL, BusinessHours: s.BusinessHours}
}

// buildHandler mounts the REST API at / and the MCP JSON-RPC endpoint at /mcp.
func buildHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
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

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

// runHTTPServer serves the REST API and the /mcp endpoint until ctx is done.
// If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, s settings, gameService service.GameService, logger *zap.Logger) error {
	apiServer := api.NewServer(gameService, apiConfig(s, logger), logger.Named("api"))

	addr := s.addr()
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr), logger.Named("mcp"))
	handler := buildHandler(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("HTTP server listening",
			zap.String("api", fmt.Sprintf("http://%s/api", addr)),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", addr)),
			zap.Bool("business_hours_gate", s.BusinessHours),
		)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if s.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, s, handler, logger.Named("ngrok"))
		}()
	}

	var err error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-serveErr:
		logger.Error("HTTP server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("HTTP server shutdown error", zap.Error(shutdownErr))
	}

	wg.Wait()
	logger.Info("server stopped")
	return err
}

// runNgrok serves handler through an ngrok tunnel until ctx is done.
func runNgrok(ctx context.Context, s settings, handler http.Handler, logger *zap.Logger) {
	if s.NgrokAuth == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if s.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(s.NgrokDomain))
		logger.Info("using custom ngrok domain", zap.String("domain", s.NgrokDomain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(s.NgrokAuth))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	url := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", url),
		zap.String("api", url+"/api"),
		zap.String("mcp", url+"/mcp"),
	)

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Error("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the idle timeout.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, s settings, logger *zap.Logger) {
	if s.IdleTimeout <= 0 || s.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupIdle(s.IdleTimeout); removed > 0 {
				logger.Info("cleaned up idle sessions", zap.Int("removed", removed))
			}
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It reuses an API already listening on the configured address; otherwise it
// starts an internal HTTP API on a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, s settings, logger *zap.Logger) error {
	externalURL := fmt.Sprintf("http://%s", s.addr())
	baseURL := externalURL

	logger.Info("checking for external API server", zap.String("url", externalURL))
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		logger.Info("external API server found, using it for MCP")
	} else {
		logger.Info("no external API server found, starting internal HTTP server")

		gameService, sessions, err := initializeServices(s, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		go sessionCleanupRoutine(ctx, sessions, s, logger)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		internalAddr := listener.Addr().String()

		httpServer := &http.Server{
			Handler: api.NewServer(gameService, apiConfig(s, logger), logger.Named("api")),
		}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
		logger.Info("internal HTTP server started", zap.String("addr", internalAddr))
	}

	mcpClient := mcp.NewClient(baseURL, logger.Named("mcp"))
	logger.Info("MCP stdio server ready", zap.String("api", baseURL))

	return server.ServeStdio(mcpClient.GetMCPServer(),
		server.WithStdioContextFunc(func(context.Context) context.Context { return ctx }),
	)
}
