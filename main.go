// Command cueva runs La Cueva de los Condenados, an audio-only maze game.
//
// It supports three modes:
//  1. "play" (default) – an ebiten window with positional audio
//  2. "console" – a terminal frontend that narrates every sound as text
//  3. "mcp" – an MCP stdio server so an AI agent can play blind
//
// Any mode can also serve the read-only debug API and spectator WebSocket
// with --debug-addr.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/EmmaPrats/Sound-Only-Game/api"
	"github.com/EmmaPrats/Sound-Only-Game/console"
	"github.com/EmmaPrats/Sound-Only-Game/desktop"
	"github.com/EmmaPrats/Sound-Only-Game/game/config"
	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
	"github.com/EmmaPrats/Sound-Only-Game/game/service"
	"github.com/EmmaPrats/Sound-Only-Game/game/session"
	"github.com/EmmaPrats/Sound-Only-Game/sound"
	"github.com/EmmaPrats/Sound-Only-Game/telemetry"
	"github.com/EmmaPrats/Sound-Only-Game/transport/mcp"
	"github.com/EmmaPrats/Sound-Only-Game/transport/websocket"
)

const (
	Version = "1.0.0"
	AppName = "La Cueva de los Condenados"

	// sessionMaxAge is how long an idle MCP session is kept
	sessionMaxAge = 24 * time.Hour
)

// services is everything a mode needs to start a session
type services struct {
	levels   *config.Manager
	sessions *session.Manager
	game     service.GameService
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "cueva",
		Usage:   "find the waterfall in the dark without waking the monster",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "level",
				Usage:   "level to play (see the levels in --config-dir and the built-in ones)",
				Value:   config.DefaultLevel,
				Sources: cli.EnvVars("CUEVA_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "directory with extra level JSON files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "assets",
				Usage:   "directory with the WAV files",
				Value:   "resources",
				Sources: cli.EnvVars("CUEVA_ASSETS"),
			},
			&cli.StringFlag{
				Name:    "debug-addr",
				Usage:   "serve the read-only debug API on this address (e.g. localhost:8080)",
				Sources: cli.EnvVars("CUEVA_DEBUG_ADDR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "verbose logging and the desktop debug overlay",
				Sources: cli.EnvVars("CUEVA_DEBUG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: runPlay,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "play in a window with positional audio",
				Action: runPlay,
			},
			{
				Name:   "console",
				Usage:  "play in the terminal with narrated sounds",
				Action: runConsole,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp"},
				Usage:   "serve MCP tools on stdio so an agent can play",
				Action:  runMCP,
			},
		},
	}
}

// initializeServices wires the level and session managers and the game service
func initializeServices(configDir string) (*services, error) {
	levels, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessions := session.NewManager()
	return &services{
		levels:   levels,
		sessions: sessions,
		game:     service.NewGameService(sessions, levels),
	}, nil
}

// setup loads the services and the chosen level and starts telemetry
func setup(ctx context.Context, cmd *cli.Command) (*services, *engine.LevelConfig, func(), error) {
	svc, err := initializeServices(cmd.String("config-dir"))
	if err != nil {
		return nil, nil, nil, err
	}

	level, err := svc.levels.LoadLevel(cmd.String("level"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load level %s: %w", cmd.String("level"), err)
	}

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("Telemetry shutdown error: %v", err)
		}
	}
	return svc, level, cleanup, nil
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	svc, level, cleanup, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	mixer := sound.NewMixer(audio.NewContext(sound.SampleRate), cmd.String("assets"), level.Sounds)
	defer mixer.Close()

	sess, err := svc.sessions.Create("", level, mixer)
	if err != nil {
		return err
	}
	log.Printf("Starting %s v%s, session %s on %q", AppName, Version, sess.ID, level.Name)

	stopDebug := startDebugServer(ctx, cmd.String("debug-addr"), svc)
	defer stopDebug()

	err = desktop.Run(ctx, sess, cmd.Bool("debug"))
	logOutcome(sess)
	return err
}

func runConsole(ctx context.Context, cmd *cli.Command) error {
	svc, level, cleanup, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// The terminal belongs to tcell; stray log lines would tear the screen
	if !cmd.Bool("debug") {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}

	narrator := sound.NewNarrator(level.Sounds)
	sess, err := svc.sessions.Create("", level, narrator)
	if err != nil {
		return err
	}

	stopDebug := startDebugServer(ctx, cmd.String("debug-addr"), svc)
	defer stopDebug()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialise terminal: %w", err)
	}
	defer screen.Fini()

	return console.New(screen, sess, narrator).Run(ctx)
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	svc, _, cleanup, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.levels.SetDefault(cmd.String("level")); err != nil {
		return err
	}

	go sessionCleanupRoutine(ctx, svc.sessions)

	stopDebug := startDebugServer(ctx, cmd.String("debug-addr"), svc)
	defer stopDebug()

	log.Println("MCP stdio server ready")
	if err := mcp.NewServer(svc.game).ServeStdio(); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// startDebugServer serves the read-only API and spectator WebSocket when addr
// is set. The returned function shuts it down.
func startDebugServer(ctx context.Context, addr string, svc *services) (stop func()) {
	if addr == "" {
		return func() {}
	}

	hubCtx, cancelHub := context.WithCancel(ctx)
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	apiServer := api.NewServer(svc.game, svc.sessions, hub)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: apiServer,
	}

	go func() {
		log.Printf("Debug API listening on http://%s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Debug API error: %v", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Debug API shutdown error: %v", err)
		}
		apiServer.Close()
		cancelHub()
	}
}

// sessionCleanupRoutine periodically removes sessions that have not been
// played within sessionMaxAge
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

func logOutcome(sess *session.Session) {
	snap := sess.Snapshot()
	log.Printf("Session %s finished: %s after %d turns", snap.ID, snap.Outcome, snap.Turns)
}
