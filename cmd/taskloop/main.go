package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskloop/taskloop-go/internal/api"
	"github.com/taskloop/taskloop-go/internal/app"
	"github.com/taskloop/taskloop-go/internal/config"
	"github.com/taskloop/taskloop-go/internal/logger"
)

func main() {
	baseURL := flag.String("base-url", "", "Override the API base URL")
	storeBackend := flag.String("store", "", "Token store backend: memory, file or redis")
	timeout := flag.Duration("timeout", 0, "Per-command timeout")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *storeBackend != "" {
		cfg.Store.Backend = *storeBackend
	}

	client, err := app.NewClient(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build API client")
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	reportSessionAtStartup(ctx, client, log)

	if err := run(ctx, client, flag.Args()); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func run(ctx context.Context, client *api.Client, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: taskloop <login|logout|me|tasks|wallet|refresh> [args]")
	}

	switch args[0] {
	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: taskloop login <email> <password>")
		}
		user, err := client.Login(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		return printJSON(user)
	case "logout":
		return client.Logout(ctx)
	case "me":
		user, err := client.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(user)
	case "tasks":
		params := api.ListTasksParams{}
		fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
		fs.IntVar(&params.Page, "page", 0, "Page number")
		fs.StringVar(&params.Status, "status", "", "Filter by status")
		fs.StringVar(&params.Search, "search", "", "Search term")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		tasks, page, err := client.ListTasks(ctx, params)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"items": tasks, "pagination": page})
	case "wallet":
		wallet, err := client.Wallet(ctx)
		if err != nil {
			return err
		}
		return printJSON(wallet)
	case "refresh":
		return client.RefreshSession(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func reportSessionAtStartup(ctx context.Context, client *api.Client, log zerolog.Logger) {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if client.Authenticated(checkCtx) {
		log.Debug().Msg("Stored session found")
	} else {
		log.Debug().Msg("No stored session, only public commands will work")
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
