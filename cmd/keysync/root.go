package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HendryAvila/keysync/internal/config"
	"github.com/HendryAvila/keysync/internal/logging"
	"github.com/HendryAvila/keysync/internal/resolver"
	"github.com/HendryAvila/keysync/internal/server"
)

// cli is the state shared by every command of one invocation.
type cli struct {
	v       *viper.Viper
	cfgFile string

	cfg       config.Config
	logger    *slog.Logger
	logCloser io.Closer
}

// skipConfig lists commands that run without loading configuration.
var skipConfig = map[string]bool{
	"version": true,
	"init":    true,
	"help":    true,
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "keysync",
		Short: "Resolve every spelling of a document key to one canonical key",
		Long: `keysync maps absolute paths, relative paths, bare filenames and logical
addresses (abstract://kind:name) onto one canonical, root-relative key, so
caches filled under one spelling are found under any other.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "keysync": {
        "command": "keysync",
        "args": ["serve", "--root", "/path/to/docs"]
      }
    }
  }`,
		Version:           server.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.load,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logCloser != nil {
				_ = c.logCloser.Close()
			}
		},
	}

	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "",
		"config file (default: .keysync/config.yaml, then ~/.config/keysync/config.yaml)")
	root.PersistentFlags().StringP("root", "r", "",
		"project root every key is relative to (env KEYSYNC_ROOT)")
	root.PersistentFlags().String("log-level", "",
		"log level: debug, info, warn or error")

	_ = c.v.BindPFlag("root", root.PersistentFlags().Lookup("root"))
	_ = c.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		c.serveCmd(),
		c.normalizeCmd(),
		c.resolveCmd(),
		c.physicalCmd(),
		c.aliasesCmd(),
		c.findCmd(),
		c.statsCmd(),
		c.indexCmd(),
		c.kindsCmd(),
		c.initCmd(),
		versionCmd(),
	)
	return root
}

// load reads configuration and builds the logger before any command runs.
func (c *cli) load(cmd *cobra.Command, args []string) error {
	if skipConfig[cmd.Name()] {
		return nil
	}
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	logger, closer, err := logging.FromConfig(cfg.Log)
	if err != nil {
		return err
	}
	c.cfg, c.logger, c.logCloser = cfg, logger, closer
	return nil
}

// engine creates the resolver for the loaded configuration.
func (c *cli) engine() (*resolver.Engine, error) {
	e, err := server.NewEngine(c.cfg, c.logger, nil)
	if err != nil {
		return nil, fmt.Errorf("root %q: %w", c.cfg.Root, err)
	}
	return e, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the keysync version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "keysync v%s\n", server.Version)
		},
	}
}

func (c *cli) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Long:  "Write the default configuration to path (default " + config.LocalConfigPath + "). An existing file is never overwritten.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.LocalConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
