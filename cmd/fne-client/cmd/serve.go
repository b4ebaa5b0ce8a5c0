package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/fne-client/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	sandboxToken string
	stickerStock int64
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local sandbox of the signing service",
	Long: `Start a local HTTP server that mimics the FNE signing service.

Endpoints:
  - POST /external/invoices/sign        - Sign an invoice
  - POST /external/invoices/{id}/refund - Refund a signed invoice
  - GET  /health                        - Health check

The sandbox enforces bearer authentication and answers with canned signing
responses, so documents can be exercised end to end without the authority.

Examples:
  # Accept any non-empty bearer token
  fne-client serve

  # Require a specific token
  fne-client serve --address :8080 --sandbox-token secret`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().StringVar(&sandboxToken, "sandbox-token", "", "Bearer token the sandbox requires (empty accepts any)")
	serveCmd.Flags().Int64Var(&stickerStock, "stickers", 1000, "Initial sticker balance")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 30*time.Second, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:      serverAddr,
		Token:        sandboxToken,
		StickerStock: stickerStock,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
	}

	srv := server.NewServer(config)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down sandbox...")
		os.Exit(0)
	}()

	fmt.Printf("Starting sandbox on %s\n", serverAddr)
	if sandboxToken != "" {
		fmt.Println("Bearer token enforcement enabled")
	} else {
		fmt.Println("Accepting any non-empty bearer token")
	}

	return srv.Run()
}
