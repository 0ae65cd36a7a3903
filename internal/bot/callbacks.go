package bot

import (
	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/m3rciful/keeperbot/core/telegram"
	"github.com/m3rciful/keeperbot/core/telegram/middleware"
)

// RegisterCallbacks declares every inline-button action on the registry.
// The callback router answers the callback query itself; handlers here only
// need to clear the originating keyboard and run the transition.
func (f *Flow) RegisterCallbacks(reg *coretelegram.Registry) {
	confirmGuard := middleware.RequireStep(middleware.StepOptions{
		Store:        f.sessions,
		Expected:     StepConfirmDeletion,
		OnStoreError: f.replyFailure,
	})

	_ = reg.RegisterCallback(cbStartGetMessages, f.withKeyboardCleanup(f.StartCreateFolder))
	_ = reg.RegisterCallback(cbStartSaveMessages, f.withKeyboardCleanup(f.StartViewFolder))
	_ = reg.RegisterCallback(cbStartDeleteFolder, f.withKeyboardCleanup(f.StartDeleteFolder))
	_ = reg.RegisterCallback(cbStartEndMessages, f.withKeyboardCleanup(f.EndStorage))
	_ = reg.RegisterCallback(cbSendFeedback, f.withKeyboardCleanup(f.StartFeedback))

	_ = reg.RegisterCallback(cbConfirmDelete, confirmGuard(f.onConfirmDelete))
	_ = reg.RegisterCallback(cbCancelDelete, confirmGuard(f.onCancelDelete))
	_ = reg.RegisterCallback(cbCancelFlow, f.onCancelFlow)
}

// withKeyboardCleanup removes the originating inline keyboard before running
// the action, independent of the transition outcome.
func (f *Flow) withKeyboardCleanup(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		disableButtons(c)
		return h(c)
	}
}
