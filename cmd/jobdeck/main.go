package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"jobdeck/internal/config"
	"jobdeck/internal/infrastructure/api"
	"jobdeck/internal/infrastructure/persistence/sqlite"
	"jobdeck/internal/pkg/logger"
	"jobdeck/internal/usecase"
)

const usageText = `jobdeck - job board client

Usage:
  jobdeck <command> [flags]

Commands:
  signup        Register a new account (-email, -password)
  login         Log in and keep the session on this machine (-email, -password)
  logout        Drop the local session
  whoami        Show the account behind the stored session
  jobs          Browse listings (-keyword, -location)
  save          Toggle a bookmark on a listing (-job)
  saved         List bookmarked listings
  apply         Apply to a listing (-job, -yes skips the prompt)
  applications  List submitted applications
  post          Publish a listing (-title, -company, -location, -description, -salary)
  delete-job    Remove a listing you own (-job)
  health        Check that the backend is reachable

Environment:
  JOBDECK_API_URL       backend base URL including the /api prefix (required)
  JOBDECK_HTTP_TIMEOUT  request timeout, default 15s
  JOBDECK_HTTP_RPS      outbound requests per second, default 10
  JOBDECK_STATE_DB      session database path, default under the user config dir
  JOBDECK_LOG_LEVEL     zerolog level, default info
`

// cli bundles everything a command handler can touch.
type cli struct {
	auth         *usecase.Auth
	lists        *usecase.JobList
	interactions *usecase.Interaction
	client       *api.Client
	log          zerolog.Logger
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		fmt.Print(usageText)
		return
	}

	if err := run(context.Background(), cmd, args); err != nil {
		fmt.Fprintf(os.Stderr, "jobdeck: %s\n", friendlyMessage(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	zl := logger.New(cfg.Log.Level)

	db, err := sqlite.Open(cfg.State.DBPath)
	if err != nil {
		return fmt.Errorf("opening state db: %w", err)
	}
	defer db.Close()

	store := sqlite.NewSessionStore(db)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("preparing state db: %w", err)
	}

	client, err := api.NewDefault(cfg.API.BaseURL, cfg.API.Timeout, cfg.API.RequestsPerSecond, zl)
	if err != nil {
		return err
	}

	auth := usecase.NewAuth(client, store, zl)
	c := &cli{
		auth:         auth,
		lists:        usecase.NewJobList(api.NewJobRepository(client), zl),
		interactions: usecase.NewInteraction(auth, api.NewJobRepository(client), api.NewApplicationRepository(client), api.NewSavedJobRepository(client), zl),
		client:       client,
		log:          zl,
	}

	switch cmd {
	case "signup":
		return c.cmdSignup(ctx, args)
	case "login":
		return c.cmdLogin(ctx, args)
	case "logout":
		return c.cmdLogout(ctx, args)
	case "whoami":
		return c.cmdWhoami(ctx, args)
	case "jobs":
		return c.cmdJobs(ctx, args)
	case "save":
		return c.cmdSave(ctx, args)
	case "saved":
		return c.cmdSaved(ctx, args)
	case "apply":
		return c.cmdApply(ctx, args)
	case "applications":
		return c.cmdApplications(ctx, args)
	case "post":
		return c.cmdPost(ctx, args)
	case "delete-job":
		return c.cmdDeleteJob(ctx, args)
	case "health":
		return c.cmdHealth(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usageText)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
