package bot

import (
	"errors"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/keeperbot/core/logger"
	tghelpers "github.com/m3rciful/keeperbot/core/telegram/helpers"
	"github.com/m3rciful/keeperbot/core/telegram/state"
	"github.com/m3rciful/keeperbot/internal/service"
	"github.com/m3rciful/keeperbot/internal/storage"
	"log/slog"
)

// Workflow steps. Idle is the absence of a session row.
const (
	StepWaitingFolderName     state.Step = "waiting_folder_name"
	StepRecording             state.Step = "recording"
	StepWaitingFolderToDelete state.Step = "waiting_folder_to_delete"
	StepConfirmDeletion       state.Step = "confirm_deletion"
	StepWaitingFolderToShow   state.Step = "waiting_folder_to_show"
	StepWaitingForFeedback    state.Step = "waiting_for_feedback"
)

// Flow is the conversational workflow: it owns the step dispatcher and every
// step handler, and drives the archive service and session store.
type Flow struct {
	svc      *service.Archive
	sessions state.Store
	fsm      *state.Dispatcher
	adminID  int64
}

// NewFlow wires the workflow over its collaborators and registers all step
// handlers on the dispatcher.
func NewFlow(svc *service.Archive, sessions state.Store, adminID int64) *Flow {
	f := &Flow{svc: svc, sessions: sessions, adminID: adminID}
	f.fsm = state.NewDispatcher(sessions, f.replyFailure)

	f.fsm.Handle(state.EventText, StepWaitingFolderName, f.onFolderName)
	f.fsm.Handle(state.EventMedia, StepRecording, f.onRecording)
	f.fsm.Handle(state.EventText, StepWaitingFolderToDelete, f.onDeleteName)
	f.fsm.Handle(state.EventText, StepWaitingFolderToShow, f.onShowName)
	f.fsm.Handle(state.EventText, StepWaitingForFeedback, f.onFeedback)

	return f
}

// FSM exposes the step dispatcher for router wiring.
func (f *Flow) FSM() *state.Dispatcher { return f.fsm }

// Sessions exposes the session store for callback guards.
func (f *Flow) Sessions() state.Store { return f.sessions }

func (f *Flow) replyFailure(c tele.Context) error {
	return tghelpers.SendText(c, msgGenericFailure)
}

// enterStep transitions the user into a prompt step. The session write is
// awaited before the prompt is sent; on store failure the step does not
// change and the user gets a generic notice.
func (f *Flow) enterStep(c tele.Context, step state.Step, prompt string) error {
	ctx := tghelpers.BuildContext(c)
	if err := f.sessions.Set(ctx, c.Sender().ID, step, nil); err != nil {
		return f.replyFailure(c)
	}
	return tghelpers.SendText(c, prompt, &tele.SendOptions{ReplyMarkup: promptMarkup()})
}

// StartCreateFolder begins the create-folder flow.
func (f *Flow) StartCreateFolder(c tele.Context) error {
	return f.enterStep(c, StepWaitingFolderName, msgAskFolderName)
}

// StartViewFolder begins the view-folder flow.
func (f *Flow) StartViewFolder(c tele.Context) error {
	return f.enterStep(c, StepWaitingFolderToShow, msgAskFolderToShow)
}

// StartDeleteFolder begins the delete-folder flow.
func (f *Flow) StartDeleteFolder(c tele.Context) error {
	return f.enterStep(c, StepWaitingFolderToDelete, msgAskFolderToDelete)
}

// StartFeedback begins the feedback flow.
func (f *Flow) StartFeedback(c tele.Context) error {
	return f.enterStep(c, StepWaitingForFeedback, msgAskFeedback)
}

// EndStorage clears the session from any step.
func (f *Flow) EndStorage(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := f.sessions.Clear(ctx, c.Sender().ID); err != nil {
		return f.replyFailure(c)
	}
	return tghelpers.SendText(c, msgStorageEnded)
}

// onFolderName creates the folder named by the user and moves to recording.
func (f *Flow) onFolderName(c tele.Context) error {
	name := strings.TrimSpace(c.Text())
	if name == "" {
		return tghelpers.SendText(c, msgFolderNameEmpty)
	}

	ctx := tghelpers.BuildContext(c)
	folder, err := f.svc.CreateFolder(ctx, c.Sender().ID, name)
	if err != nil {
		return f.replyFailure(c)
	}
	if err := f.sessions.Set(ctx, c.Sender().ID, StepRecording, &folder.ID); err != nil {
		return f.replyFailure(c)
	}
	return tghelpers.SendMD(c, msgFolderCreated(name))
}

// onRecording stores one media reference under the pending folder. Messages
// without archivable media are ignored: no reply, no mutation, no transition.
func (f *Flow) onRecording(c tele.Context) error {
	kind, fileID, ok := ExtractMedia(c.Message())
	if !ok {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	sess := state.SessionFrom(c)
	if sess == nil || sess.FolderID == nil {
		// Recording without a pending folder breaks the session invariant.
		logger.Error(ctx, "tg", "fsm.invariant",
			slog.Int64("user_id", c.Sender().ID),
			slog.String("step", string(StepRecording)),
			slog.String("err", "missing pending folder"),
		)
		_ = f.sessions.Clear(ctx, c.Sender().ID)
		return f.replyFailure(c)
	}

	if err := f.svc.AddMedia(ctx, *sess.FolderID, kind, fileID); err != nil {
		return f.replyFailure(c)
	}
	return tghelpers.SendText(c, msgMediaSaved)
}

// onDeleteName resolves the folder to delete and asks for confirmation. A
// lookup miss keeps the user in the same step so they can retry.
func (f *Flow) onDeleteName(c tele.Context) error {
	name := strings.TrimSpace(c.Text())
	ctx := tghelpers.BuildContext(c)

	folder, err := f.svc.FindFolder(ctx, c.Sender().ID, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return tghelpers.SendText(c, msgFolderNotFound)
		}
		return f.replyFailure(c)
	}

	if err := f.sessions.Set(ctx, c.Sender().ID, StepConfirmDeletion, &folder.ID); err != nil {
		return f.replyFailure(c)
	}
	return tghelpers.SendMD(c, msgConfirmDelete(name), confirmDeleteMarkup())
}

// onShowName resolves the folder to view and resends every stored reference
// in insertion order. Individual resend failures degrade to a textual
// placeholder; the session goes idle after the full enumeration.
func (f *Flow) onShowName(c tele.Context) error {
	name := strings.TrimSpace(c.Text())
	ctx := tghelpers.BuildContext(c)

	folder, err := f.svc.FindFolder(ctx, c.Sender().ID, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return tghelpers.SendText(c, msgFolderNotFound)
		}
		return f.replyFailure(c)
	}

	items, err := f.svc.ListMedia(ctx, folder.ID)
	if err != nil {
		return f.replyFailure(c)
	}

	if len(items) == 0 {
		if err := f.sessions.Clear(ctx, c.Sender().ID); err != nil {
			return f.replyFailure(c)
		}
		return tghelpers.SendText(c, msgFolderEmpty)
	}

	// Synchronous sends keep the enumeration in insertion order.
	for _, item := range items {
		payload := mediaSendable(item.Kind, item.FileID)
		if payload == nil {
			continue
		}
		if err := c.Send(payload); err != nil {
			logger.Warn(ctx, "tg", "media.resend_failed",
				slog.Int64("folder_id", item.FolderID),
				slog.String("media_kind", string(item.Kind)),
				slog.String("err", err.Error()),
			)
			_ = c.Send(msgMediaPlaceholder(item.Kind))
		}
	}

	if err := f.sessions.Clear(ctx, c.Sender().ID); err != nil {
		return f.replyFailure(c)
	}
	return nil
}

// onFeedback stores the feedback text, forwards it to the admin chat when
// one is configured, and returns the session to idle.
func (f *Flow) onFeedback(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return tghelpers.SendText(c, msgAskFeedback)
	}

	ctx := tghelpers.BuildContext(c)
	fb, err := f.svc.SaveFeedback(ctx, c.Sender().ID, text)
	if err != nil {
		return f.replyFailure(c)
	}

	if f.adminID != 0 && c.Bot() != nil {
		forward := "📨 Feedback from user " + strconv.FormatInt(c.Sender().ID, 10) + ":\n" + fb.Text
		if _, err := c.Bot().Send(&tele.User{ID: f.adminID}, forward); err != nil {
			logger.Warn(ctx, "tg", "feedback.forward_failed",
				slog.Int64("user_id", c.Sender().ID),
				slog.String("err", err.Error()),
			)
		}
	}

	if err := f.sessions.Clear(ctx, c.Sender().ID); err != nil {
		return f.replyFailure(c)
	}
	return tghelpers.SendText(c, msgFeedbackThanks)
}

// onConfirmDelete deletes the pending folder with its media atomically.
// It is guarded to the confirm_deletion step by the callback wiring.
func (f *Flow) onConfirmDelete(c tele.Context) error {
	disableButtons(c)

	ctx := tghelpers.BuildContext(c)
	sess := state.SessionFrom(c)
	if sess == nil || sess.FolderID == nil {
		_ = f.sessions.Clear(ctx, c.Sender().ID)
		return f.replyFailure(c)
	}

	if err := f.svc.DeleteFolder(ctx, *sess.FolderID); err != nil {
		// The step is left unchanged so the user can retry the button.
		return f.replyFailure(c)
	}
	if err := f.sessions.Clear(ctx, c.Sender().ID); err != nil {
		return f.replyFailure(c)
	}
	return tghelpers.SendText(c, msgFolderDeleted)
}

// onCancelDelete abandons the deletion without touching the folder.
func (f *Flow) onCancelDelete(c tele.Context) error {
	disableButtons(c)

	ctx := tghelpers.BuildContext(c)
	if err := f.sessions.Clear(ctx, c.Sender().ID); err != nil {
		return f.replyFailure(c)
	}
	return tghelpers.SendText(c, msgDeleteCanceled)
}

// onCancelFlow aborts whatever prompt the user is in.
func (f *Flow) onCancelFlow(c tele.Context) error {
	disableButtons(c)

	ctx := tghelpers.BuildContext(c)
	if err := f.sessions.Clear(ctx, c.Sender().ID); err != nil {
		return f.replyFailure(c)
	}
	return tghelpers.SendText(c, msgActionCanceled)
}

// disableButtons clears the inline keyboard of the message that originated a
// callback, so stale double-taps do nothing. Best effort.
func disableButtons(c tele.Context) {
	if c.Callback() == nil || c.Message() == nil {
		return
	}
	// Editing with a bare markup clears the inline keyboard.
	_ = c.Edit(&tele.ReplyMarkup{})
}
