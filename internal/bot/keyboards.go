package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/keeperbot/core/telegram/keyboard"
)

// Callback keys consumed by the workflow.
const (
	cbStartGetMessages  = "start_get_messages"
	cbStartSaveMessages = "start_save_messages"
	cbStartDeleteFolder = "start_delete_folder"
	cbStartEndMessages  = "start_end_messages"
	cbSendFeedback      = "send_feedback"
	cbConfirmDelete     = "confirm_delete"
	cbCancelDelete      = "cancel_delete"
	cbCancelFlow        = "cancel_flow"
)

func menuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "📥 Create new folder", Unique: cbStartGetMessages},
			{Text: "📂 View folder", Unique: cbStartSaveMessages},
		},
		[]keyboard.InlineBtn{
			{Text: "🗑️ Delete folder", Unique: cbStartDeleteFolder},
			{Text: "🛑 End of storage", Unique: cbStartEndMessages},
		},
		[]keyboard.InlineBtn{
			{Text: "📨 Send feedback", Unique: cbSendFeedback},
		},
	)
}

func confirmDeleteMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "✅ Yes, delete", Unique: cbConfirmDelete},
			{Text: "❌ No, cancel", Unique: cbCancelDelete},
		},
	)
}

func promptMarkup() *tele.ReplyMarkup {
	return keyboard.SingleCancelMarkup(cbCancelFlow)
}
