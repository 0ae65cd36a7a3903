package bot

import (
	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/m3rciful/keeperbot/core/telegram"
	"github.com/m3rciful/keeperbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/keeperbot/core/telegram/helpers"
)

// RegisterCommands declares the bot's command surface on the registry.
func (f *Flow) RegisterCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     f.handleStart,
		Description: "Show the welcome menu",
	})
	reg.RegisterCommand("/get_messages", commands.Command{
		Handler:     f.StartCreateFolder,
		Description: "Create a folder and start saving messages",
	})
	reg.RegisterCommand("/end_messages", commands.Command{
		Handler:     f.EndStorage,
		Description: "Stop saving messages",
	})
	reg.RegisterCommand("/save_messages", commands.Command{
		Handler:     f.StartViewFolder,
		Description: "View messages saved in a folder",
	})
	reg.RegisterCommand("/delete_folder", commands.Command{
		Handler:     f.StartDeleteFolder,
		Description: "Delete a folder with confirmation",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     f.handleStats,
		Description: "Show archive totals",
		AdminOnly:   true,
		Hidden:      true,
	})
}

// handleStart clears any active session and shows the welcome menu.
func (f *Flow) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := f.sessions.Clear(ctx, c.Sender().ID); err != nil {
		return f.replyFailure(c)
	}
	return tghelpers.SendText(c, welcomeText, &tele.SendOptions{ReplyMarkup: menuMarkup()})
}

// handleStats reports archive totals to the admin.
func (f *Flow) handleStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	stats, err := f.svc.CollectStats(ctx)
	if err != nil {
		return f.replyFailure(c)
	}
	return tghelpers.SendText(c, msgStats(stats.Folders, stats.Media))
}
