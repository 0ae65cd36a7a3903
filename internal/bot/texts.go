package bot

import (
	"fmt"

	"github.com/m3rciful/keeperbot/core/telegram/format"
	"github.com/m3rciful/keeperbot/internal/models"
)

const welcomeText = `🎉 Welcome to the Message Saver Bot!

With this bot, you can categorize and keep your important messages forever. 📁

🛠 Features:
1️⃣ /get_messages – Create a new folder and start saving messages
2️⃣ /end_messages – End saving messages
3️⃣ /save_messages – View messages saved in a folder
4️⃣ /delete_folder – Delete a folder with confirmation
5️⃣ Supports photos, gifs, videos, and stickers

To get started, tap one of the buttons below ⬇️`

const (
	msgAskFolderName     = "📝 Please enter the name of the folder you want to create:"
	msgAskFolderToShow   = "📁 Please enter the name of the folder you want to see messages from:"
	msgAskFolderToDelete = "🗑️ Please enter the name of the folder you want to delete:"
	msgAskFeedback       = "📨 Please write the feedback or issue you want to send:"

	msgMediaSaved      = "✅ Message saved."
	msgStorageEnded    = "✅ Saving messages is complete."
	msgFolderNotFound  = "❌ No folder with this name was found."
	msgFolderEmpty     = "❌ There is no message to display."
	msgFolderDeleted   = "🗑️ Folder successfully deleted."
	msgDeleteCanceled  = "✅ Folder deletion canceled."
	msgActionCanceled  = "✅ Action canceled."
	msgFeedbackThanks  = "🙏 Thank you, your feedback has been sent."
	msgGenericFailure  = "❌ Something went wrong, please try again."
	msgFolderNameEmpty = "❌ The folder name cannot be empty, please try again:"
)

func msgFolderCreated(name string) string {
	escaped, err := format.EscapeMarkdown(name, format.MarkdownV1, "")
	if err != nil {
		escaped = name
	}
	return fmt.Sprintf("Folder *%s* has been created. You can now send photos, stickers, GIFs, or videos.", escaped)
}

func msgConfirmDelete(name string) string {
	escaped, err := format.EscapeMarkdown(name, format.MarkdownV1, "")
	if err != nil {
		escaped = name
	}
	return fmt.Sprintf("⚠️ Are you sure you want to delete the folder *%s*?", escaped)
}

func msgMediaPlaceholder(kind models.MediaKind) string {
	return fmt.Sprintf("📂 Type: %s", kind)
}

func msgStats(folders, media int64) string {
	return fmt.Sprintf("📊 Folders: %d\n🖼 Media references: %d", folders, media)
}
