package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/schemas"
)

var (
	validateJSONFile   string
	validateSchemaFile string
	validatePrint      bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a ResumeRecord JSON file against the record schema",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateJSONFile, "json", "", "Path to the ResumeRecord JSON file (required)")
	validateCmd.Flags().StringVar(&validateSchemaFile, "schema", "", "Validate against this schema file instead of the built-in record schema")
	validateCmd.Flags().BoolVar(&validatePrint, "print-schema", false, "Print the built-in record schema and exit")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if validatePrint {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), schemas.ResumeRecordSchema())
		return err
	}
	if validateJSONFile == "" {
		return errors.New(`required flag "json" not set`)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())

	var err error
	if validateSchemaFile != "" {
		err = schemas.ValidateWithSchemaFile(validateSchemaFile, validateJSONFile)
	} else {
		err = schemas.ValidateResumeRecordFile(validateJSONFile)
	}
	if err == nil {
		printer.PrintValidationErrors(nil)
		return nil
	}

	var validationErr *schemas.ValidationError
	if !errors.As(err, &validationErr) {
		return err
	}

	problems := make([]string, 0, len(validationErr.Errors))
	for _, fieldErr := range validationErr.Errors {
		problems = append(problems, fmt.Sprintf("%s: %s", fieldErr.Field, fieldErr.Message))
	}
	printer.PrintValidationErrors(problems)
	return fmt.Errorf("%s has %d schema violations", validateJSONFile, len(problems))
}
