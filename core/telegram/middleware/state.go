package middleware

import (
	"github.com/m3rciful/keeperbot/core/logger"
	tghelpers "github.com/m3rciful/keeperbot/core/telegram/helpers"
	"github.com/m3rciful/keeperbot/core/telegram/state"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// StepOptions configures the step guard middleware.
type StepOptions struct {
	Store    state.Store
	Expected state.Step
	// OnMismatch runs when the user is in a different step. Nil means the
	// update is dropped silently, which keeps stale button taps harmless.
	OnMismatch tele.HandlerFunc
	// OnStoreError runs when the session cannot be loaded.
	OnStoreError tele.HandlerFunc
}

// RequireStep passes the update through only when the user's persisted
// session is in the expected step. The loaded session is stashed on the
// context for the downstream handler.
func RequireStep(opts StepOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID
			ctx := tghelpers.BuildContext(c)

			sess, err := opts.Store.Get(ctx, userID)
			if err != nil {
				logger.Warn(ctx, "tg", "fsm.guard.load_failed",
					slog.Int64("user_id", userID),
					slog.String("expected", string(opts.Expected)),
					slog.String("err", err.Error()),
				)
				if opts.OnStoreError != nil {
					return opts.OnStoreError(c)
				}
				return nil
			}

			current := state.StepIdle
			if sess != nil {
				current = sess.Step
			}
			if current != opts.Expected {
				logger.Debug(ctx, "tg", "fsm.guard.skip",
					slog.Int64("user_id", userID),
					slog.String("step", string(current)),
					slog.String("expected", string(opts.Expected)),
				)
				if opts.OnMismatch != nil {
					return opts.OnMismatch(c)
				}
				return nil
			}

			state.StashSession(c, sess)
			return next(c)
		}
	}
}
