package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"testforge.dev/pkg/testforge/internal/controller"
	"testforge.dev/pkg/testforge/internal/domain"
	m "testforge.dev/pkg/testforge/internal/model"
)

const validateLongDescription = `Run pytest against <project-path>/tests and print the captured stdout,
stderr and exit status. The runner's exit code is reported but not
propagated as the process exit code.`

// validateTestsCmd represents the validate-tests command.
var validateTestsCmd = newValidateTestsCmd()

func newValidateTestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-tests <project-path>",
		Short: "Run the generated tests through pytest",
		Long:  validateLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validation is a single blocking subprocess; there is no
			// per-file progress to animate.
			ui := controller.NewSimpleUI(cmd)
			workflow := newWorkflow(ui)

			result, err := workflow.Validate(cmd.Context(), m.Path(args[0]))
			if errors.Is(err, domain.ErrPathNotFound) {
				cmd.PrintErrln(err)
				return nil
			}

			if err != nil {
				return err
			}

			ui.DisplayValidation(cmd.Context(), result)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(validateTestsCmd)
}
