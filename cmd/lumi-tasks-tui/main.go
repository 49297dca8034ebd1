// tasks/cmd/lumi-tasks-tui/main.go

// Command lumi-tasks-tui is a terminal front end for the task server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/tasks/client"
	"github.com/vinizap/lumi/tasks/logging"
	"github.com/vinizap/lumi/tasks/ui"
)

const (
	envURL = "LUMI_TASKS_URL"
	envLog = "LUMI_TASKS_TUI_LOG"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "lumi-tasks-tui:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	defaultURL := os.Getenv(envURL)
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}

	fs := flag.NewFlagSet("lumi-tasks-tui", flag.ContinueOnError)
	baseURL := fs.String("url", defaultURL, "task server base URL")
	timeout := fs.Duration("timeout", 10*time.Second, "per-request timeout")
	logLevel := fs.String("log-level", "debug", "log level when "+envLog+" is set")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// The terminal belongs to the UI; logs only go to a file when asked for.
	log := zerolog.Nop()
	if path := os.Getenv(envLog); path != "" {
		f, err := logging.OpenFile(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if log, err = logging.New(*logLevel, "json", f); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(*baseURL, *timeout)
	ctrl := ui.NewController(api, log)

	log.Info().Str("url", *baseURL).Msg("starting tui")
	return ui.RunTUI(ctx, ctrl, ui.WithRequestTimeout(*timeout))
}
