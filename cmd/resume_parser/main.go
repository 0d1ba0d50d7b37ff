// Package main provides the resume_parser command line interface.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_parser",
	Short: "Resume Parser",
	Long:  "Resume Parser extracts contact, education and work history from resume PDFs by prompting a completion model and parsing its answer into a ResumeRecord.",

	PersistentPreRunE:  setupRuntime,
	PersistentPostRunE: teardownRuntime,
	SilenceUsage:       true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
