// Command sarnrak is a terminal planner for Thai weddings.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nhle/sarnrak/internal/ai"
	"github.com/nhle/sarnrak/internal/app"
	"github.com/nhle/sarnrak/internal/credential"
	"github.com/nhle/sarnrak/internal/gallery"
	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/store"
	"github.com/nhle/sarnrak/internal/wedding"
)

var (
	// Global flags
	configPath string
	verbose    bool
	driverFlag string

	cfg    *model.AppConfig
	logger zerolog.Logger
)

// runtime bundles the opened storage and services for one command.
type runtime struct {
	blobs    store.BlobStore
	store    *wedding.Store
	advisor  *ai.Advisor
	importer *gallery.Importer
	logFile  io.Closer
}

func (r *runtime) Close() {
	if err := r.blobs.Close(); err != nil {
		logger.Warn().Err(err).Msg("closing storage")
	}
	if r.logFile != nil {
		_ = r.logFile.Close()
	}
}

var rootCmd = &cobra.Command{
	Use:   "sarnrak",
	Short: "สานรัก Sarn Rak - Thai wedding planner",
	Long: `Sarn Rak keeps the whole wedding plan in one place: guests and seating,
budget, the traditional ceremony checklist, catering, production and a
mood-board gallery. Advice, checklists and backdrop ideas come from Gemini
when an API key is configured.

Run without arguments to open the interactive planner.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = model.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if driverFlag != "" {
			cfg.Storage.Driver = driverFlag
		}
		return nil
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr at debug level")
	rootCmd.PersistentFlags().StringVar(&driverFlag, "storage", "", "override storage driver (sqlite, file, memory)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger writes JSON logs to the configured file. With --verbose a
// console writer on stderr is added, except for the interactive UI which
// owns the terminal.
func setupLogger(console bool) io.Closer {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	var writers []io.Writer
	var closer io.Closer
	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err == nil {
			f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				writers = append(writers, f)
				closer = f
			}
		}
	}
	if verbose && console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Str("app", "sarnrak").Logger()
	return closer
}

// openRuntime loads the wedding record and builds the services. A missing
// API key is not an error: the advisor is left nil.
func openRuntime(ctx context.Context, console bool) (*runtime, error) {
	logFile := setupLogger(console)

	blobs, err := store.Open(cfg.Storage)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Driver, err)
	}

	ws := wedding.NewStore(blobs, cfg.Storage.Key, logger)
	if _, err := ws.Load(ctx); err != nil {
		_ = blobs.Close()
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, fmt.Errorf("loading wedding record: %w", err)
	}

	rt := &runtime{
		blobs:    blobs,
		store:    ws,
		importer: gallery.NewImporter(ws, cfg.Gallery.Workers, logger),
		logFile:  logFile,
	}

	if key := credential.GeminiAPIKey(); key != "" {
		advisor, err := ai.NewAdvisor(ctx, key, cfg.AI, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("advisor unavailable")
		} else {
			rt.advisor = advisor
		}
	} else {
		logger.Debug().Msg("no Gemini API key, advice disabled")
	}

	logger.Debug().
		Str("driver", cfg.Storage.Driver).
		Str("path", cfg.Storage.Path).
		Bool("advisor", rt.advisor != nil).
		Msg("runtime ready")
	return rt, nil
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	rt, err := openRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	m := app.New(app.Deps{
		Store:   rt.store,
		Advisor: rt.advisor,
		NewAdvisor: func(ctx context.Context, apiKey string) (*ai.Advisor, error) {
			return ai.NewAdvisor(ctx, apiKey, cfg.AI, logger)
		},
		Importer:   rt.importer,
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running planner: %w", err)
	}

	if err := rt.store.PersistErr(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: last changes were not saved: %v\n", err)
	}
	return nil
}
