package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/melih/graphbot/internal/adapters/http"
	"github.com/melih/graphbot/internal/config"
	"github.com/melih/graphbot/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
	addr       string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Fatal("graphbot failed", "err", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: first config file of DATA_PATH)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&addr, "addr", ":3000", "Address the API listens on")

	rootCmd.AddCommand(renderCmd, serveCmd, validateCmd)
}

var rootCmd = &cobra.Command{
	Use:           "graphbot",
	Short:         "Draw the architecture of Docker hosts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(config.DataPath()); err != nil {
			return err
		}
		logger.Init(debug || config.GetEnvBool(config.EnvDebug, false))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without querying any host",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		logger.Info("Configuration is valid", "organization", cfg.Organization, "hosts", len(cfg.Hosts), "actions", len(cfg.Actions))
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the diagrams and run the publishing actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		b, cleanup, err := newBot(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		files, err := b.Run(cmd.Context())
		if err != nil {
			return err
		}
		logger.Info("Rendering is done", "files", len(files), "output", cfg.OutputPath)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diagrams over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		// 1. Initialize Adapters (Infrastructure)
		b, cleanup, err := newBot(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		// 2. Initialize HTTP Handlers (Interface Adapters)
		// The bot implements both the graph service and the artifact store.
		graphHandler := http.NewGraphHandler(b)
		artifactHandler := http.NewArtifactHandler(b)

		// 3. Setup Framework (Fiber)
		app := fiber.New(fiber.Config{DisableStartupMessage: true})

		// 4. Define Routes
		http.Routes(app, graphHandler, artifactHandler)

		go func() {
			<-cmd.Context().Done()
			if err := app.Shutdown(); err != nil {
				logger.Error("Server shutdown failed", "err", err)
			}
		}()

		// 5. Start Server
		logger.Info("Server starting", "addr", addr)
		return app.Listen(addr)
	},
}
