package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/wippyai/numrt/export"
	"github.com/wippyai/numrt/host"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var (
		list        = flag.Bool("list", false, "List exports and exit")
		filter      = flag.String("filter", "", "Only list exports whose symbol contains this")
		call        = flag.String("call", "", "Export to call; arguments follow the flags")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		moduleName  = flag.String("module", cfg.ModuleName, "Host module name (NUMRT_MODULE_NAME)")
		logLevel    = flag.String("log-level", cfg.LogLevel, "Log level (NUMRT_LOG_LEVEL)")
		pages       = flag.Uint("memory-pages", uint(cfg.MemoryLimitPages), "Guest memory limit in 64KiB pages (NUMRT_MEMORY_LIMIT_PAGES)")
	)
	flag.Parse()

	cfg.ModuleName = *moduleName
	cfg.LogLevel = *logLevel
	cfg.MemoryLimitPages = uint32(*pages)

	if !*list && *call == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: numrt -list [-filter text]")
		fmt.Fprintln(os.Stderr, "       numrt -call <symbol> [--] [args...]")
		fmt.Fprintln(os.Stderr, "       numrt -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	host.SetLogger(logger.Named("host"))
	export.SetLogger(logger.Named("export"))

	if *list {
		if err := listExports(os.Stdout, *filter); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, *call, flag.Args(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listExports(w io.Writer, filter string) error {
	table, err := export.Default()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXPORT\tWASM\tRESULT LAYOUT")
	for _, e := range table.Filter(filter) {
		layout := "-"
		if e.RetPtr {
			layout = fmt.Sprintf("size %d align %d", e.Result.Size, e.Result.Align)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Describe(), e.Signature(), layout)
	}
	return tw.Flush()
}

func run(cfg config, symbol string, args []string, logger *zap.Logger) error {
	ctx := context.Background()

	h, err := host.New(ctx, cfg.hostConfig())
	if err != nil {
		return fmt.Errorf("create host: %w", err)
	}
	defer h.Close(ctx)

	e, err := h.Table().Get(symbol)
	if err != nil {
		return err
	}

	logger.Debug("calling export", zap.String("symbol", symbol), zap.Strings("args", args))
	ev := &evaluator{host: h}
	out, err := ev.eval(ctx, e, args)
	if err != nil {
		return fmt.Errorf("call %s: %w", symbol, err)
	}
	fmt.Println(out)
	return nil
}
