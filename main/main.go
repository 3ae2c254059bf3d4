package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"MVDB/log"
	sortedmap "MVDB/map"
	"MVDB/multimap"
	"MVDB/shell"
)

type config struct {
	reverse   bool
	queue     string
	backend   string
	logLevel  string
	logFormat string
	script    string
}

func newRootCommand() *cobra.Command {
	cfg := &config{}
	cmd := &cobra.Command{
		Use:   "mvdb",
		Short: "interactive ordered multivalued map",
		Long: "mvdb keeps several values per key in key order and reads commands\n" +
			"(set, get, has, pop, popitem, del, len, values, keys, min, max, show, write)\n" +
			"from stdin or from a script file.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, cfg)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&cfg.reverse, "reverse", false, "iterate and popitem from the largest key down")
	flags.StringVar(&cfg.queue, "queue", "lifo", "per-key queue discipline: lifo or fifo")
	flags.StringVar(&cfg.backend, "backend", "btree", "sorted map backend: btree or treemap")
	flags.StringVar(&cfg.logLevel, "log-level", "info", "log level")
	flags.StringVar(&cfg.logFormat, "log-format", "console", "log format: json or console")
	flags.StringVar(&cfg.script, "script", "", "read commands from this file instead of stdin")
	return cmd
}

func newMultimap(cfg *config, logger log.Logger) (*multimap.Multimap[string, string], error) {
	queue, err := multimap.ParseQueueType(cfg.queue)
	if err != nil {
		return nil, err
	}
	opts := multimap.DefaultOptions().
		WithReverseOrder(cfg.reverse).
		WithQueueType(queue).
		WithLogger(logger)
	switch cfg.backend {
	case "btree":
		return multimap.New[string, string](opts), nil
	case "treemap":
		return multimap.NewWithStore[string, string](sortedmap.NewTreeMap[string, []string](strings.Compare), opts), nil
	}
	return nil, errors.Errorf("unknown backend %q", cfg.backend)
}

// syncErr drops the errors fsync reports for terminals and pipes, which
// have nothing to flush.
func syncErr(err error) error {
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

func run(ctx context.Context, cmd *cobra.Command, cfg *config) error {
	level, err := log.ParseLevel(cfg.logLevel)
	if err != nil {
		return err
	}
	encoder, err := log.ParseOutputEncoder(cfg.logFormat)
	if err != nil {
		return err
	}
	logger := log.New(log.DefaultOptions().
		WithLevel(level).
		WithOutputEncoder(encoder).
		WithWriters(cmd.ErrOrStderr(), cmd.ErrOrStderr()).
		WithNamed("mvdb"))
	defer func() {
		if err := syncErr(logger.Sync()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "flush log:", err)
		}
	}()

	mm, err := newMultimap(cfg, logger)
	if err != nil {
		return err
	}
	session := shell.NewSession(mm, logger)

	in := cmd.InOrStdin()
	if cfg.script != "" {
		f, err := os.Open(cfg.script)
		if err != nil {
			return errors.Wrap(err, "open script")
		}
		defer f.Close()
		in = f
	} else {
		session.Interactive(true)
	}
	return session.Run(ctx, in, cmd.OutOrStdout())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
