// Package cli is the vkbootstrap command line: flags, config loading, logger
// construction and the process exit contract.
package cli

import (
	"fmt"
	"io"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/bootstrap"
	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/config"
	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/logging"
)

// Streams are the process output streams. Err carries logs and diagnostics.
type Streams struct {
	Out io.Writer
	Err io.Writer
}

// RunFunc starts the application with fully resolved options.
type RunFunc func(opts bootstrap.Options) error

// NewRootCmd returns the root command. run is called once the config has
// loaded and the logger is built.
func NewRootCmd(streams Streams, run RunFunc) *cobra.Command {
	v := config.New()
	var configFile string
	var noColor bool

	cmd := &cobra.Command{
		Use:           "vkbootstrap",
		Short:         "Open a window and create a Vulkan instance",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				v.Set("diagnostics.color", false)
			}
			return start(v, configFile, streams, run)
		},
	}
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default ./vkbootstrap.yaml or ./config/vkbootstrap.yaml)")
	flags.Bool("validation", false, "enable validation layers and the debug messenger")
	flags.Bool("list-layers", false, "print the available instance layers before creating the instance")
	flags.Bool("portability", false, "request portability enumeration (MoltenVK)")
	flags.String("log-level", logging.DefaultLevel, "log level: debug, info, warn, error")
	flags.BoolVar(&noColor, "no-color", false, "disable coloured output")

	bindFlag(v, "validation.enabled", cmd, "validation")
	bindFlag(v, "diagnostics.list_layers", cmd, "list-layers")
	bindFlag(v, "graphics.portability", cmd, "portability")
	bindFlag(v, "log.level", cmd, "log-level")

	return cmd
}

func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
		panic(err)
	}
}

func start(v *viper.Viper, configFile string, streams Streams, run RunFunc) error {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}

	colour := cfg.Diagnostics.Color && IsTerminal(streams.Err)

	logger, err := logging.New(cfg.Log.Level, zapcore.Lock(zapcore.AddSync(streams.Err)), colour)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts.Out = streams.Out
	opts.Diagnostics = streams.Err
	opts.Colorize = colour
	opts.Logger = logger

	return run(opts)
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Execute runs cmd and maps the outcome to a process exit code. Any failure,
// panics included, is written to stdout as "Error: <message>" and yields 1.
func Execute(cmd *cobra.Command, stdout io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stdout, "Error: %v\n", r)
			code = 1
		}
	}()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	return 0
}
