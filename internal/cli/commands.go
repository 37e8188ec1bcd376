package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyshos/screens/internal/layout"
)

func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the screen, outputs and their modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withManager(func(m *layout.Manager) error {
				return list(cmd.OutOrStdout(), m)
			})
		},
	}
}

func list(w io.Writer, m *layout.Manager) error {
	size, err := m.ScreenSize()
	if err != nil {
		return err
	}
	crtcs, err := m.Crtcs()
	if err != nil {
		return err
	}
	outputs, err := m.Outputs()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Screen: %s\n", size)
	for _, o := range outputs {
		var b strings.Builder
		b.WriteString(o.Name)
		if o.Connected {
			b.WriteString(" connected")
		} else {
			b.WriteString(" disconnected")
		}
		if o.Primary {
			b.WriteString(" primary")
		}
		if i := slices.IndexFunc(crtcs, func(c layout.Crtc) bool { return c.ID == o.Crtc }); o.Enabled() && i >= 0 {
			crtc := crtcs[i]
			fmt.Fprintf(&b, " %dx%d+%d+%d %s", crtc.Width, crtc.Height, crtc.X, crtc.Y, crtc.Rotation)
		}
		fmt.Fprintln(w, b.String())

		modes, err := m.OutputModes(o)
		if err != nil {
			return err
		}
		for _, mode := range modes {
			flags := ""
			if mode.ID == o.CurrentMode {
				flags += "*"
			}
			if slices.Contains(o.PreferredModes, mode.ID) {
				flags += "+"
			}
			fmt.Fprintf(w, "   %-20s %s\n", mode, flags)
		}
	}
	return nil
}

func (c *CLI) placeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "place OUTPUT RELATION OTHER",
		Short: "Position an output relative to another one",
		Long:  `Position OUTPUT left-of, right-of, above, below or same-as OTHER. The layout is shifted back to the origin and the screen resized to fit.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			relation, err := layout.ParseRelation(args[1])
			if err != nil {
				return err
			}
			return c.withManager(func(m *layout.Manager) error {
				o, err := m.Output(args[0])
				if err != nil {
					return err
				}
				other, err := m.Output(args[2])
				if err != nil {
					return err
				}
				return m.SetPosition(o, relation, other)
			})
		},
	}
}

func (c *CLI) rotateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate OUTPUT ROTATION",
		Short: "Rotate an output (normal, left, inverted, right)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rotation, err := layout.ParseRotationName(args[1])
			if err != nil {
				return err
			}
			return c.withManager(func(m *layout.Manager) error {
				o, err := m.Output(args[0])
				if err != nil {
					return err
				}
				return m.SetRotation(o, rotation)
			})
		},
	}
}

func (c *CLI) enableCommand() *cobra.Command {
	var (
		nextTo    string
		placement string
	)

	cmd := &cobra.Command{
		Use:   "enable OUTPUT",
		Short: "Turn on an output with its preferred mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			relation, err := c.config.Relation()
			if err != nil {
				return err
			}
			if placement != "" {
				if relation, err = layout.ParseRelation(placement); err != nil {
					return err
				}
			}

			return c.withManager(func(m *layout.Manager) error {
				o, err := m.Output(args[0])
				if err != nil {
					return err
				}
				if nextTo == "" {
					return m.Enable(o)
				}
				other, err := m.Output(nextTo)
				if err != nil {
					return err
				}
				return m.EnableNextTo(o, relation, other)
			})
		},
	}

	cmd.Flags().StringVar(&nextTo, "next-to", "", "place the output relative to this output")
	cmd.Flags().StringVar(&placement, "placement", "", "relation to --next-to (default from config)")
	return cmd
}

func (c *CLI) disableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disable OUTPUT",
		Short: "Turn off an output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withManager(func(m *layout.Manager) error {
				o, err := m.Output(args[0])
				if err != nil {
					return err
				}
				return m.Disable(o)
			})
		},
	}
}

func (c *CLI) modeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mode OUTPUT WIDTHxHEIGHT[@RATE]",
		Short: "Change the resolution of an output",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withManager(func(m *layout.Manager) error {
				o, err := m.Output(args[0])
				if err != nil {
					return err
				}
				modes, err := m.OutputModes(o)
				if err != nil {
					return err
				}
				mode, err := layout.FindMode(modes, args[1])
				if err != nil {
					return err
				}
				return m.SetMode(o, mode)
			})
		},
	}
}

func (c *CLI) primaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "primary OUTPUT",
		Short: "Make an output the primary one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withManager(func(m *layout.Manager) error {
				o, err := m.Output(args[0])
				if err != nil {
					return err
				}
				return m.SetPrimary(o)
			})
		},
	}
}
