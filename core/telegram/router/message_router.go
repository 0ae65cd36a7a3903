package router

import (
	"time"

	tg "github.com/m3rciful/keeperbot/core/telegram"
	"github.com/m3rciful/keeperbot/core/telegram/middleware"
	"github.com/m3rciful/keeperbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// FSM is the minimal dispatch surface required from the state machine.
type FSM interface {
	// Dispatch reports whether the update was consumed by an active session.
	Dispatch(kind state.EventKind, c tele.Context) (bool, error)
}

// TextOptions controls fallback behaviour for updates no session consumed.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// mediaEndpoints are the update endpoints that may carry archivable media.
var mediaEndpoints = []string{
	tele.OnPhoto,
	tele.OnVideo,
	tele.OnSticker,
	tele.OnAnimation,
	tele.OnDocument,
}

// MessageRoutes builds handlers for text and media updates. Text goes to the
// FSM first, then command lookup, then the fallback; media is only meaningful
// inside an active session and is dropped silently otherwise.
func MessageRoutes(fsm FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()

		if fsm != nil {
			handled, err := fsm.Dispatch(state.EventText, c)
			if handled {
				return handleWithSummary(c, "fsm", start, "", "", func() error {
					return err
				})
			}
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	mediaHandler := func(c tele.Context) error {
		start := time.Now()
		if fsm != nil {
			handled, err := fsm.Dispatch(state.EventMedia, c)
			if handled {
				return handleWithSummary(c, "fsm_media", start, "", "", func() error {
					return err
				})
			}
		}
		logHandlerSummary(c, "unexpected_media", start, "skip", "ok", nil)
		return nil
	}

	routes := []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(textHandler)),
		},
	}
	for _, ep := range mediaEndpoints {
		routes = append(routes, tg.Route{
			Endpoint: ep,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(mediaHandler)),
		})
	}
	return routes
}
