// Package commands provides CLI commands for teestudio.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/diogo/teestudio/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	model   string
	backend string
}

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	flags := &globalFlags{}
	query := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "teestudio [prompt]",
		Short: "Terminal t-shirt customizer with a Gemini style assistant",
		Long: `teestudio lets you pick a t-shirt color by hand or by chatting with
Gemini. Any color named in the conversation is applied to the shirt.

Examples:
  teestudio studio                         Open the interactive customizer
  teestudio studio --window                Also open the preview window
  teestudio "what goes with khaki pants?"  Ask a single question
  teestudio -f question.md                 Read the question from a file
  echo "make it navy" | teestudio          Read the question from stdin
  teestudio detect "I love red"            Show what a message would do, offline
  teestudio scene --color "#1e90ff"        Print the renderer parameters`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "teestudio %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(cmd, query.file, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return runQuery(cmd, flags, query, deps, prompt)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.model, "model", "m", "", "Model to use (e.g., gemini-2.5-flash)")
	cmd.PersistentFlags().StringVar(&flags.backend, "backend", "", "API backend: rest or sdk")
	cmd.Flags().StringVarP(&query.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVarP(&query.copy, "copy", "c", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(
		NewStudioCmd(flags, deps),
		NewPaletteCmd(),
		NewDetectCmd(),
		NewSceneCmd(),
		NewConfigCmd(),
	)
	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command. Interrupt cancels the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		tui.PrintError(err)
		os.Exit(1)
	}
}
