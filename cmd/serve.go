package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/yatube/yatube/internal/api"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Yatube web server",
	Long:  `Start the Yatube web server. This is also what runs when no command is given.`,
	Example: `yatube serve --config config.yml
yatube serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg, db, err := openDatabase()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := api.New(ctx, cfg, db, log.GetLevel() == log.DebugLevel)
	if err != nil {
		log.Fatalf("failed to create web server: %v", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down gracefully...")
		return nil
	})

	log.Info("yatube started successfully", "listen", cfg.Listen, "version", Version)
	if err := g.Wait(); err != nil {
		log.Fatalf("web server error: %v", err)
	}
}
