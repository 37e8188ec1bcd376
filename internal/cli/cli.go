// Package cli implements the screenctl command-line interface.
//
// Every command opens a session with the display server, runs a single
// layout operation through layout.Manager and closes the session again.
// Use --verbose (-v) to log every request sent to the server.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fyshos/screens/internal/config"
	"github.com/fyshos/screens/internal/layout"
	"github.com/fyshos/screens/internal/xrandr"
)

const appName = "screenctl"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Session is a display server connection the commands can run against.
type Session interface {
	layout.Server
	Close()
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Open connects to the display server.
	Open func(*log.Logger) (Session, error)

	verbose    bool
	configPath string
	config     config.Config
}

// New creates a CLI talking to the X server.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Open: func(l *log.Logger) (Session, error) {
			s, err := xrandr.Open(l)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		config: config.Default(),
	}
}

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "screenctl arranges X11 outputs with RandR",
		Long:         `screenctl enables, disables, rotates and positions the outputs of an X server. Every change resizes the virtual screen to fit the new layout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.listCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.rotateCommand())
	root.AddCommand(c.enableCommand())
	root.AddCommand(c.disableCommand())
	root.AddCommand(c.modeCommand())
	root.AddCommand(c.primaryCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		path = config.Path()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.config = cfg

	if c.verbose {
		c.SetLogLevel(LogDebug)
		return nil
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	c.SetLogLevel(level)
	return nil
}

// withManager opens a session, runs fn and closes the session again.
func (c *CLI) withManager(fn func(m *layout.Manager) error) error {
	s, err := c.Open(c.Logger)
	if err != nil {
		return err
	}
	defer s.Close()

	m := layout.NewManager(s,
		layout.WithLogger(c.Logger),
		layout.WithFallbackDPI(c.config.FallbackDPI),
	)
	return fn(m)
}
