// Package cmd provides the command-line interface of importmover.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"importmover/internal/config"
	"importmover/internal/version"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootOptions holds the state shared by the root command's flags and run.
type rootOptions struct {
	cfgFile string
	v       *viper.Viper
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}
	info := version.GetVersion()

	cmd := &cobra.Command{
		Use:   "importmover <move-map> [glob] [original-base] [destination-base]",
		Short: "Rewrite JavaScript import paths after files were moved",
		Long: `importmover rewrites the import declarations of a JavaScript tree after its
files were moved, renamed or deleted.

The move-map is a JSON (or YAML) object whose keys are paths in the original
tree and whose values are the new paths, or false for deleted files. Every
file matching the glob is parsed; each import is moved, deleted or left alone
and the file is written back.

Output lines: "*" relative import moved, "-" bare import moved,
"X" import deleted, "." untouched.`,
		Example: `  importmover moves.json
  importmover moves.json 'javascripts/**/*.+(jsx|js)' assets/javascripts javascripts
  importmover --dry-run --diff moves.yaml`,
		Args:          cobra.RangeArgs(1, 4),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       info.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(args)
			if err != nil {
				return err
			}
			return runRefactor(cmd, cfg)
		},
	}
	cmd.SetVersionTemplate(info.FormatFull())

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default: ./importmover.yaml or ./configs/importmover.yaml)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (json, text)")

	cmd.Flags().Bool("dry-run", false, "Resolve and report without writing files")
	cmd.Flags().Bool("diff", false, "Print a unified diff for every changed file")
	cmd.Flags().String("report", "", "Write a YAML run report to this path")

	bindings := map[string]string{
		"log.level":            "log-level",
		"log.format":           "log-format",
		"refactor.dry_run":     "dry-run",
		"refactor.diff":        "diff",
		"refactor.report_path": "report",
	}
	for key, flag := range bindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			f = flags.Lookup(flag)
		}
		if err := opts.v.BindPFlag(key, f); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
		}
	}

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig layers defaults, .env, the config file, IMPORTMOVER_* variables,
// flags and finally positional arguments.
func (o *rootOptions) loadConfig(args []string) (*config.Config, error) {
	v := o.v
	config.SetDefaults(v)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if o.cfgFile != "" {
		v.SetConfigFile(o.cfgFile)
	} else {
		v.SetConfigName("importmover")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	config.BindEnv(v)

	positional := []string{
		"refactor.map_file",
		"refactor.pattern",
		"refactor.original_base",
		"refactor.destination_base",
	}
	for i, arg := range args {
		v.Set(positional[i], arg)
	}

	return config.New(v)
}
