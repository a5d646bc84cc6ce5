package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/config"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/container"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/logger"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/ui"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	configPath string
	root       string
	dropZone   string
	logFormat  string
	logLevel   string
	jsonOutput bool

	cfg       *config.Config
	container *container.Container
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "assetpipe",
		Short: "Classify, optimize and distribute template image assets",
		Long: ui.FormatTitle("assetpipe") + " - image asset pipeline\n\n" +
			"Moves raw images from the drop zone into industry asset folders,\n" +
			"writes per-category WebP variants and points template HTML at them.",
		SilenceUsage:       true,
		PersistentPreRunE:  a.initialize,
		PersistentPostRunE: a.shutdown,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $ASSETPIPE_CONFIG or ./"+config.DefaultFile+")")
	flags.StringVar(&a.root, "root", "", "repository root containing the industry folders")
	flags.StringVar(&a.dropZone, "drop-zone", "", "drop zone directory (relative paths resolve against --root)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		a.distributeCmd(),
		a.optimizeCmd(),
		a.rewriteCmd(),
		a.runCmd(),
		a.classifyCmd(),
		a.inventoryCmd(),
		a.watchCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	if a.logFormat != "" {
		logger.SetFormat(a.logFormat)
	}
	if a.logLevel != "" {
		logger.SetLevel(a.logLevel)
	}
	logger.SetOutput(cmd.ErrOrStderr())

	path := a.configPath
	if path == "" {
		path = os.Getenv("ASSETPIPE_CONFIG")
	}
	if path == "" {
		path = config.DefaultFile
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.root != "" {
		cfg.RootDir = a.root
	}
	if a.dropZone != "" {
		cfg.DropZone = a.dropZone
	}
	a.cfg = cfg

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	a.container = c
	return nil
}

func (a *app) shutdown(*cobra.Command, []string) error {
	if a.container != nil {
		a.container.Close()
		a.container = nil
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "assetpipe "+version)
		},
	}
}
