package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/boxesandglue/csscounter"
	"github.com/boxesandglue/csscounter/config"
)

const appName = "csscounter"

type env struct {
	cfg *config.Config
	log *zap.Logger
}

type envKey struct{}

func envFromContext(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		return e
	}
	return &env{log: zap.NewNop()}
}

// initializeAppContext loads configuration and prepares logging after the
// command line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	e := envFromContext(ctx)

	configFile := cmd.String("config")
	cfg, err := config.LoadConfiguration(configFile)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		cfg.Logging.ConsoleLogger.Level = "debug"
	}
	e.cfg = cfg
	e.log = cfg.Logging.Prepare(appName)

	e.log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		e.log.Debug("Using defaults (no configuration file)")
	}
	return context.WithValue(ctx, envKey{}, e), nil
}

func destroyAppContext(ctx context.Context, _ *cli.Command) error {
	e := envFromContext(ctx)
	e.log.Debug("Program ended")
	// stdout and stderr cannot be synced on some platforms, ignore that
	_ = e.log.Sync()
	return nil
}

// writeOutput writes data to the file named dst or to stdout if dst is
// empty.
func writeOutput(dst string, data []byte) (err error) {
	var w io.Writer = os.Stdout
	if len(dst) > 0 {
		f, cerr := os.Create(dst)
		if cerr != nil {
			return fmt.Errorf("unable to create output file: %w", cerr)
		}
		defer func() {
			err = multierr.Append(err, f.Close())
		}()
		w = f
	}
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	return nil
}

func readInput(name string) (string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("unable to read input: %w", err)
	}
	return string(data), nil
}

func materialize(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	if cmd.NArg() < 1 {
		return fmt.Errorf("no SOURCE has been specified")
	}
	fragment, err := readInput(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	stylesheet, err := readInput(cmd.String("css"))
	if err != nil {
		return err
	}
	m := csscounter.New(e.cfg.Options(e.log)...)
	out := m.Materialize(fragment, stylesheet)
	if out == fragment {
		e.log.Info("Nothing to materialize")
	}
	return writeOutput(cmd.Args().Get(1), []byte(out))
}

func listRules(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("no CSSFILE has been specified")
	}
	stylesheet, err := readInput(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	rules := csscounter.ExtractCounterPseudoRules(stylesheet)
	envFromContext(ctx).log.Debug("Counter rules found", zap.Int("count", len(rules)))
	for _, r := range rules {
		fmt.Fprintf(os.Stdout, "%s\t::%s\n", r.Selector, r.Pseudo)
	}
	return nil
}

func stripRules(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("no CSSFILE has been specified")
	}
	stylesheet, err := readInput(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	return writeOutput(cmd.Args().Get(1), []byte(csscounter.StripCounterPseudoRules(stylesheet)))
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	data := config.DefaultConfig
	if !cmd.Bool("default") {
		var err error
		if data, err = config.Dump(envFromContext(ctx).cfg); err != nil {
			return err
		}
	}
	return writeOutput(cmd.Args().Get(0), data)
}

func main() {
	app := &cli.Command{
		Name:            appName,
		Usage:           "turns CSS counter pseudo-element content into real HTML elements",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log debug messages to console"},
		},
		Commands: []*cli.Command{
			{
				Name:      "materialize",
				Usage:     "Bakes counter() and counters() pseudo content of a stylesheet into an HTML fragment",
				Action:    materialize,
				ArgsUsage: "SOURCE [DESTINATION]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "css", Required: true, Usage: "stylesheet `FILE` used to resolve counters"},
				},
			},
			{
				Name:      "rules",
				Usage:     "Lists ::before and ::after rules whose content uses counters",
				Action:    listRules,
				ArgsUsage: "CSSFILE",
			},
			{
				Name:      "strip",
				Usage:     "Removes ::before and ::after rules whose content uses counters",
				Action:    stripRules,
				ArgsUsage: "CSSFILE [DESTINATION]",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				Action:    outputConfiguration,
				ArgsUsage: "[DESTINATION]",
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}
