package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"testforge.dev/pkg/testforge/internal/domain"
)

const generateDocsLongDescription = `Walk the project and aggregate one documentation section per source file
into <project-path>/docs/project_documentation.md, grouped under one
heading per directory.

A model failure for one file is logged and that section is skipped; the
rest of the run continues.`

// generateDocsCmd represents the generate-docs command.
var generateDocsCmd = newGenerateDocsCmd()

func newGenerateDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-docs <project-path>",
		Short: "Generate Markdown documentation for a project",
		Long:  generateDocsLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workflow := newWorkflow(selectUI(cmd))

			err := workflow.GenerateDocs(cmd.Context(), generateArgs(args[0]))
			if errors.Is(err, domain.ErrPathNotFound) {
				cmd.PrintErrln(err)
				return nil
			}

			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(generateDocsCmd)
}
