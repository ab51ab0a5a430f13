// Package cmd provides the root command and CLI setup for testforge.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"testforge.dev/pkg/testforge/internal/adapter"
	"testforge.dev/pkg/testforge/internal/controller"
	"testforge.dev/pkg/testforge/internal/domain"
	m "testforge.dev/pkg/testforge/internal/model"
)

// Shared, configuration-independent adapters. The model client and the UI
// depend on flag/config values, so they are constructed per run instead.
var fsAdapter adapter.SourceFSAdapter
var runnerAdapter adapter.TestRunnerAdapter
var manifestStore adapter.ManifestStore

var endpointFlag string
var modelFlag string
var extensionsFlag []string
var excludePatterns []string
var plainFlag bool
var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	fsAdapter = adapter.NewLocalSourceFSAdapter()
	runnerAdapter = adapter.NewPytestRunnerAdapter()
	manifestStore = adapter.NewManifestStore()
}

const rootLongDescription = `Testforge generates pytest test cases and Markdown documentation for a
Python project by sending each source file through a locally hosted
language model (any OpenAI-compatible endpoint, e.g. Ollama), and can
validate the generated tests by running pytest against them.

Artifacts are written into the project itself: tests/test_<name>.py and
docs/project_documentation.md. Reruns overwrite existing artifacts.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "testforge",
		Short: "LLM-assisted test and documentation generator",
		Long:  rootLongDescription,
		// Unknown commands fall through to help rather than erroring.
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&endpointFlag, endpointFlagName,
		viper.GetString(endpointConfigKey),
		"base URL of the OpenAI-compatible model endpoint",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(endpointFlagName), endpointConfigKey)

	cmd.PersistentFlags().StringVarP(
		&modelFlag, modelFlagName, "m",
		viper.GetString(modelConfigKey),
		"model identifier to request completions from",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(modelFlagName), modelConfigKey)

	cmd.PersistentFlags().StringArrayVarP(
		&extensionsFlag, extensionsFlagName, "e",
		viper.GetStringSlice(extensionsConfigKey),
		"source file extensions to process (can be repeated)",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(extensionsFlagName), extensionsConfigKey)

	cmd.PersistentFlags().StringArrayVarP(
		&excludePatterns, excludeFlagName, "x",
		viper.GetStringSlice(excludeConfigKey),
		"exclude files matching regex (can be repeated)",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVar(
		&plainFlag, plainFlagName,
		viper.GetBool(plainConfigKey),
		"disable the interactive progress display",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(plainFlagName), plainConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file location")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// selectUI picks the interactive progress display when stdout is a terminal
// and plain mode is off, otherwise the line-oriented one.
func selectUI(cmd *cobra.Command) controller.UI {
	if viper.GetBool(plainConfigKey) || !controller.IsTTY(os.Stdout) {
		return controller.NewSimpleUI(cmd)
	}

	return controller.NewTUI(cmd.OutOrStdout())
}

// newWorkflow assembles the workflow from the shared adapters plus a model
// client built from the current configuration.
func newWorkflow(ui controller.UI) domain.Workflow {
	modelAdapter := adapter.NewOpenAIModelAdapter(
		viper.GetString(endpointConfigKey),
		viper.GetString(modelConfigKey),
	)

	return domain.NewWorkflow(fsAdapter, modelAdapter, runnerAdapter, manifestStore, ui)
}

func generateArgs(projectPath string) domain.GenerateArgs {
	return domain.GenerateArgs{
		ProjectRoot: m.Path(projectPath),
		Extensions:  viper.GetStringSlice(extensionsConfigKey),
		Exclude:     viper.GetStringSlice(excludeConfigKey),
	}
}
