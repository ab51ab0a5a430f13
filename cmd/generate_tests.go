package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"testforge.dev/pkg/testforge/internal/domain"
)

const generateTestsLongDescription = `Walk the project, generate one pytest file per source file under
<project-path>/tests/, then ask the model for a pytest.ini to go with them.

A model or write failure for one file is logged and skipped; the rest of
the run continues. Existing artifacts are overwritten.`

// generateTestsCmd represents the generate-tests command.
var generateTestsCmd = newGenerateTestsCmd()

func newGenerateTestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-tests <project-path>",
		Short: "Generate pytest cases for a project",
		Long:  generateTestsLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workflow := newWorkflow(selectUI(cmd))

			err := workflow.GenerateTests(cmd.Context(), generateArgs(args[0]))
			if errors.Is(err, domain.ErrPathNotFound) {
				cmd.PrintErrln(err)
				return nil
			}

			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(generateTestsCmd)
}
