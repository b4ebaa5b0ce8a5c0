package cmd

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rezonia/fne-client/pkg/fnelib"
)

var (
	version = "1.0.0"

	// Global flags
	verbose        bool
	baseURL        string
	apiToken       string
	requestTimeout time.Duration
	retryAttempts  int
)

var rootCmd = &cobra.Command{
	Use:   "fne-client",
	Short: "Submit electronic invoices to the FNE signing service",
	Long: `fne-client validates and submits electronic invoices (FNE) to the
Ivorian tax authority's signing service.

Examples:
  # Validate a document locally, no network call
  fne-client validate invoice.json

  # Sign a document against the test environment
  fne-client sign invoice.json --token <bearer-token>

  # Refund two items of a signed invoice
  fne-client refund FNE-20260827-000001 --item item-1:2 --item item-2:1

  # Run a local sandbox of the signing service
  fne-client serve --address :8080 --sandbox-token secret`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Signing service base URL (env: FNE_BASE_URL, default: test environment)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "Bearer token (env: FNE_API_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 30*time.Second, "Timeout per request attempt")
	rootCmd.PersistentFlags().IntVar(&retryAttempts, "retries", 3, "Total request attempts")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// A .env file is optional; missing files are ignored
	_ = godotenv.Load()

	if apiToken == "" {
		apiToken = os.Getenv("FNE_API_TOKEN")
	}
	if baseURL == "" {
		baseURL = os.Getenv("FNE_BASE_URL")
	}
	if baseURL == "" {
		baseURL = fnelib.TestBaseURL
	}
}

// newLogger builds the CLI logger; silent unless --verbose is set
func newLogger() zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func newClient() *fnelib.Client {
	return fnelib.NewClient(fnelib.Config{
		BaseURL:       baseURL,
		Token:         apiToken,
		Timeout:       requestTimeout,
		RetryAttempts: retryAttempts,
	}, fnelib.WithLogger(newLogger()))
}
