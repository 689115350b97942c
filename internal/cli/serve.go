package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ladle-sh/ladle/internal/log"
	"github.com/ladle-sh/ladle/internal/search"
	"github.com/ladle-sh/ladle/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search API over HTTP",
	Long: `Serve the search API over HTTP.

Authentication is delegated to an upstream reverse proxy; the server
reads the caller identity from the X-User-ID header.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from LADLE_ADDR or :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	svc := search.New(database, search.DefaultConfig())
	srv := server.New(database, svc, telemetryClient, cfg.Server)

	// Shut down cleanly on interrupt.
	go func() {
		<-cmd.Context().Done()
		_ = srv.Shutdown()
	}()

	fmt.Printf("Serving on %s\n", cfg.Server.Addr)
	log.Printf("http server listening addr=%s\n", cfg.Server.Addr)

	return srv.Listen()
}
