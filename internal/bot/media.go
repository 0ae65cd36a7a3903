package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/keeperbot/internal/models"
)

// ExtractMedia classifies an inbound message's archivable payload and
// returns its opaque file id. Telebot already surfaces the
// highest-resolution photo variant on Message.Photo, so no size selection is
// needed here. Messages without archivable media report ok=false and must be
// ignored by the caller, producing no reply.
func ExtractMedia(m *tele.Message) (models.MediaKind, string, bool) {
	if m == nil {
		return "", "", false
	}
	switch {
	case m.Photo != nil:
		return models.MediaPhoto, m.Photo.FileID, true
	case m.Video != nil:
		return models.MediaVideo, m.Video.FileID, true
	case m.Sticker != nil:
		return models.MediaSticker, m.Sticker.FileID, true
	case m.Animation != nil:
		return models.MediaGIF, m.Animation.FileID, true
	}
	return "", "", false
}

// mediaSendable rebuilds a telebot sendable from a stored reference so it
// can be resent by file id without re-uploading.
func mediaSendable(kind models.MediaKind, fileID string) interface{} {
	file := tele.File{FileID: fileID}
	switch kind {
	case models.MediaPhoto:
		return &tele.Photo{File: file}
	case models.MediaVideo:
		return &tele.Video{File: file}
	case models.MediaSticker:
		return &tele.Sticker{File: file}
	case models.MediaGIF:
		return &tele.Animation{File: file}
	}
	return nil
}
