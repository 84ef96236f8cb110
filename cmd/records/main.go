package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	goversion "github.com/caarlos0/go-version"

	"records/internal/app"
	"records/internal/config"
)

// Set at build time via -ldflags "-X main.version=...".
var (
	version   = "dev"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

var (
	debug       = flag.Bool("debug", false, "Enable debug logging")
	logFile     = flag.String("log-file", "", "Write logs to this file instead of stderr")
	envFile     = flag.String("env-file", config.DefaultEnvFile, "Optional .env file with RECORDS_* settings")
	start       = flag.String("start", "#/", "Fragment to open after startup")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(buildVersion(version, commit, date, builtBy, treeState).String())
		return
	}

	logWriter := os.Stderr
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
		defer f.Close()
		logWriter = f
	}
	logLevel := slog.LevelWarn
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: logLevel})))

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	view := &terminalPresenter{out: os.Stdout}
	a, err := app.Open(ctx, cfg, view)
	if err != nil {
		log.Fatalf("failed to open records: %v", err)
	}
	defer a.Close()
	view.app = a

	sh := newShell(a, os.Stdout)
	if _, err := a.Navigate(*start); err != nil {
		sh.report(err)
	}
	if err := sh.run(ctx, os.Stdin); err != nil {
		slog.Error("shell stopped", "error", err)
	}
	if a.Stats != nil {
		for _, o := range a.Stats.Snapshot() {
			slog.Debug("sql_stats", "op", o.Op, "count", o.Count, "total_ms", o.Total.Milliseconds(), "mean_us", o.Mean().Microseconds())
		}
	}
}

func buildVersion(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("records", "Employee and request records manager", ""),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
