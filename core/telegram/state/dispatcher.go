package state

import (
	"github.com/m3rciful/keeperbot/core/logger"
	tghelpers "github.com/m3rciful/keeperbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// EventKind classifies the shape of an inbound update for step routing.
type EventKind string

const (
	// EventText marks plain text messages.
	EventText EventKind = "text"
	// EventMedia marks messages carrying photo/video/sticker/animation payloads.
	EventMedia EventKind = "media"
)

const sessionKey = "fsm_session"

// Dispatcher routes inbound updates to the single handler registered for the
// user's current (event kind, step) pair. Unmatched pairs are no-ops.
type Dispatcher struct {
	store        Store
	handlers     map[EventKind]map[Step]tele.HandlerFunc
	onStoreError tele.HandlerFunc
}

// NewDispatcher builds a Dispatcher over the given session store. onStoreError
// runs when the session cannot be loaded, so the user still gets a reply.
func NewDispatcher(store Store, onStoreError tele.HandlerFunc) *Dispatcher {
	return &Dispatcher{
		store:        store,
		handlers:     make(map[EventKind]map[Step]tele.HandlerFunc),
		onStoreError: onStoreError,
	}
}

// Handle registers the handler for one (event kind, step) pair.
func (d *Dispatcher) Handle(kind EventKind, step Step, h tele.HandlerFunc) {
	if h == nil || step == StepIdle {
		return
	}
	m, ok := d.handlers[kind]
	if !ok {
		m = make(map[Step]tele.HandlerFunc)
		d.handlers[kind] = m
	}
	m[step] = h
}

// Store exposes the backing session store for handlers that transition state.
func (d *Dispatcher) Store() Store { return d.store }

// Dispatch loads the user's session and runs the matching step handler.
// It reports whether the update was consumed by the FSM; idle users fall
// through to command/fallback routing.
func (d *Dispatcher) Dispatch(kind EventKind, c tele.Context) (bool, error) {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	sess, err := d.store.Get(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "tg", "fsm.session.load_failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		if d.onStoreError != nil {
			return true, d.onStoreError(c)
		}
		return true, err
	}
	if sess == nil {
		return false, nil
	}

	c.Set(sessionKey, sess)

	handler, ok := d.handlers[kind][sess.Step]
	logger.Debug(ctx, "tg", "fsm.dispatch",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("step", string(sess.Step)),
		slog.String("kind", string(kind)),
		slog.Bool("matched", ok),
	)
	if !ok {
		// Active session with no handler for this event shape: consume silently.
		return true, nil
	}
	return true, handler(c)
}

// StashSession stores a loaded session on the update context so downstream
// handlers avoid a second store round trip.
func StashSession(c tele.Context, sess *Session) {
	if sess != nil {
		c.Set(sessionKey, sess)
	}
}

// SessionFrom returns the session stashed by Dispatch for the current update.
func SessionFrom(c tele.Context) *Session {
	if v := c.Get(sessionKey); v != nil {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	return nil
}
