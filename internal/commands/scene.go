package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/teestudio/internal/config"
	apierrors "github.com/diogo/teestudio/internal/errors"
	"github.com/diogo/teestudio/internal/palette"
	"github.com/diogo/teestudio/internal/scene"
)

// NewSceneCmd prints the renderer parameters as JSON
func NewSceneCmd() *cobra.Command {
	var (
		color   string
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Print the 3D scene parameters as JSON",
		Long: `Print the material color, transform and decal placement an external
renderer needs to draw the shirt. Decal settings come from the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseColor(color)
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			opts := scene.OptionsFromConfig(cfg)
			if compact {
				opts.Compact = true
			}

			data, err := scene.Build(c, opts).JSON()
			if err != nil {
				return fmt.Errorf("failed to encode scene: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "white", "Shirt color: a palette name or #hex")
	cmd.Flags().BoolVar(&compact, "compact", false, "Use the small-screen transform")
	return cmd
}

// parseColor accepts a table name or a #rgb / #rrggbb literal
func parseColor(s string) (palette.RGB, error) {
	s = strings.TrimSpace(s)
	if e, ok := palette.Lookup(s); ok {
		return e.Value, nil
	}
	if c, err := palette.ParseHex(s); err == nil {
		return c, nil
	}
	return palette.RGB{}, apierrors.NewColorError(s)
}
