package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/edi/docchat/internal/config"
	"github.com/edi/docchat/internal/logger"
	"github.com/edi/docchat/internal/metrics"
	"github.com/edi/docchat/internal/server"
	"github.com/edi/docchat/pkg/archive"
	"github.com/edi/docchat/pkg/chat"
	"github.com/edi/docchat/pkg/provider"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the docchat API server",
	Long: `Start the docchat HTTP API server. The server accepts document
uploads and answers questions about them until stopped.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := config.NewValidator().Validate(cfg); err != nil {
		return err
	}

	appLogger, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	m := metrics.New()

	prompts := chat.NewPromptBuilder()
	var templateWatcher *chat.TemplateWatcher
	if cfg.Prompt.TemplatePath != "" {
		if cfg.Prompt.Watch {
			templateWatcher, err = chat.NewTemplateWatcher(prompts, cfg.Prompt.TemplatePath)
			if err != nil {
				return fmt.Errorf("failed to set up prompt template: %w", err)
			}
			if err := templateWatcher.Start(); err != nil {
				return fmt.Errorf("failed to watch prompt template: %w", err)
			}
			defer templateWatcher.Stop()
		} else if err := prompts.LoadTemplateFile(cfg.Prompt.TemplatePath); err != nil {
			return fmt.Errorf("failed to load prompt template: %w", err)
		}
	}

	backend, err := provider.New(provider.Config{
		Provider:    cfg.AI.Provider,
		Model:       cfg.AI.Model,
		APIKey:      cfg.AI.APIKey,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		Timeout:     time.Duration(cfg.AI.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return err
	}

	var archiver chat.Archiver
	if cfg.Sessions.ArchiveEnabled {
		a, err := archive.New(cfg.Sessions.ArchivePath)
		if err != nil {
			return fmt.Errorf("failed to open transcript archive: %w", err)
		}
		defer a.Close()
		archiver = a
	}

	store := chat.NewStore(prompts)
	orch := chat.NewOrchestrator(store, backend, archiver, m)

	if cfg.Sessions.IdleTimeoutMinutes > 0 {
		sweeper, err := chat.NewSweeper(
			orch,
			time.Duration(cfg.Sessions.IdleTimeoutMinutes)*time.Minute,
			cfg.Sessions.SweepSchedule,
		)
		if err != nil {
			return fmt.Errorf("failed to set up session sweeper: %w", err)
		}
		if err := sweeper.Start(); err != nil {
			return err
		}
		defer sweeper.Stop()
	}

	srv, err := server.New(server.Options{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		MaxUploadMB: cfg.Server.MaxUploadMB,
	}, orch, m, appLogger.GetZerolog())
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	return srv.Stop()
}
