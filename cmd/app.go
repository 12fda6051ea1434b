package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/app"
	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/frahmantamala/epic-crm/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	// running is set once a command body starts.
	running bool
	// current is the dependency set of the running command, if it got that
	// far.
	current *app.Dependencies
)

type runFunc func(ctx context.Context, deps *app.Dependencies, args []string) error

type identityRunFunc func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error

// withApp loads the configuration, opens the store and always closes it
// once run returns.
func withApp(run runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		running = true
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		deps, err := app.Open(cfg, logger.LoggerWrapper())
		if err != nil {
			return err
		}
		current = deps
		defer func() {
			if cerr := deps.Close(); cerr != nil {
				deps.Logger.Warn("failed to close database", "error", cerr)
			}
		}()

		return run(cmd.Context(), deps, args)
	}
}

// withIdentity is withApp for commands that need a logged in user.
func withIdentity(run identityRunFunc) func(*cobra.Command, []string) error {
	return withApp(func(ctx context.Context, deps *app.Dependencies, args []string) error {
		id, err := deps.Auth.CurrentIdentity(deps.Tokens)
		if err != nil {
			return err
		}
		ctx = logger.With(internal.ContextWithUserID(ctx, id.UserID), "user_id", id.UserID)
		return run(ctx, deps, id, args)
	})
}

func usageError(message string) error {
	return internal.NewValidationError(message, internal.ErrCodeValidationFailed)
}

func exactArgs(n int, names string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError(fmt.Sprintf("expected %s", names))
		}
		return nil
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError("id", fmt.Sprintf("%q is not a valid id", arg), internal.ErrCodeValidationFailed)
	}
	return id, nil
}

// optional maps an unset string flag to nil so updates leave the column
// alone.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
