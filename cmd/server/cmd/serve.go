package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/katariyakhushi/umbrella-customiser/internal/app"
	"github.com/katariyakhushi/umbrella-customiser/internal/config"
	"github.com/katariyakhushi/umbrella-customiser/internal/logging"
	"github.com/katariyakhushi/umbrella-customiser/internal/server"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	addr      string
	assetsDir string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the web server. Settings come from the environment (and .env when
present); flags override them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.New()

		cfg, err := config.New()
		if err != nil {
			slog.Error("Invalid configuration", "error", err)
			return err
		}
		if serveFlags.addr != "" {
			cfg.ServerAddr = serveFlags.addr
		}
		if serveFlags.assetsDir != "" {
			cfg.AssetsDir = serveFlags.assetsDir
		}

		s, err := server.New(cfg, app.NewModules())
		if err != nil {
			slog.Error("Failed to create server", "error", err)
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return s.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address (overrides SERVER_ADDR)")
	serveCmd.Flags().StringVar(&serveFlags.assetsDir, "assets-dir", "", "serve static files from this directory and reload pages when they change (overrides ASSETS_DIR)")
	rootCmd.AddCommand(serveCmd)
}
