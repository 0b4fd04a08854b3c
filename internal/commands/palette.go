package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/teestudio/internal/palette"
	"github.com/diogo/teestudio/internal/stylist"
	"github.com/diogo/teestudio/internal/tui"
)

// NewPaletteCmd lists the color table
func NewPaletteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "List the color names the assistant understands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, e := range palette.Table {
				fmt.Fprintf(out, "%s  %s\n", tui.Chip(e.Value), e.Name)
			}
			return nil
		},
	}
}

// NewDetectCmd shows what a chat message would do, without calling Gemini
func NewDetectCmd() *cobra.Command {
	var showPrompt bool

	cmd := &cobra.Command{
		Use:   "detect <text>",
		Short: "Classify a message and find its color, offline",
		Long: `Run the relevance classifier and the color extractor on a message and
print the verdict. Nothing is sent to Gemini and no color is applied.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			text := strings.Join(args, " ")
			prompt := stylist.BuildPrompt(text)

			verdict := "no"
			if prompt.OnTopic {
				verdict = "yes"
			}
			fmt.Fprintf(out, "on-topic: %s\n", verdict)

			if m, ok := stylist.Detect(text); ok {
				fmt.Fprintf(out, "color:    %s %s (%s)\n", m.Name, tui.Chip(m.Value), m.Kind)
			} else {
				fmt.Fprintln(out, "color:    none")
			}

			if showPrompt {
				fmt.Fprintf(out, "\n%s\n", prompt.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showPrompt, "prompt", "p", false, "Print the prompt that would be sent")
	return cmd
}
