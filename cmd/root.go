package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"receiptscan/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "receiptscan",
	Short: "Receiptscan CLI - turn receipt photos into plain-text transcripts",
	Long: `Receiptscan CLI converts photographed or scanned receipt images into a
single ordered plain-text transcript using Google Cloud document text
detection.

Receipts taller than the provider's per-request height limit are split into
overlapping horizontal bands, detected band by band, and stitched back into
one duplicate-free transcript.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Receiptscan CLI executed")

		fmt.Println("Welcome to Receiptscan CLI!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
