package main

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// TestMain runs before all tests and loads .env if available
func TestMain(m *testing.M) {
	// Try to load .env file - ignore error if it doesn't exist (CI environment)
	_ = godotenv.Load()

	os.Exit(m.Run())
}

// execute runs the root command with args and returns everything written to stdout and stderr.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag to its default so commands do not leak state between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// isolateEnv clears the variables config.Load reads so .env files do not affect a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "GEMINI_API_KEY",
		"RESUME_PARSER_PROVIDER", "RESUME_PARSER_MODEL", "RESUME_PARSER_BASE_URL",
		"RESUME_PARSER_FORMAT", "RESUME_PARSER_TIMEOUT", "RESUME_PARSER_MAX_RETRIES",
		"RESUME_PARSER_HOST", "RESUME_PARSER_PORT", "RESUME_PARSER_UPLOAD_DIR", "RESUME_PARSER_RATE_WHITELIST",
		"RESUME_PARSER_LOG_LEVEL", "RESUME_PARSER_LOG_FORMAT", "RESUME_PARSER_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("RESUME_PARSER_LOG_LEVEL", "error")
}
