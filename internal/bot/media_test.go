package bot

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/keeperbot/internal/models"
)

func TestExtractMedia(t *testing.T) {
	tests := []struct {
		name     string
		msg      *tele.Message
		wantKind models.MediaKind
		wantFile string
		wantOK   bool
	}{
		{
			name:     "photo",
			msg:      &tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "ph-1"}}},
			wantKind: models.MediaPhoto,
			wantFile: "ph-1",
			wantOK:   true,
		},
		{
			name:     "video",
			msg:      &tele.Message{Video: &tele.Video{File: tele.File{FileID: "vd-1"}}},
			wantKind: models.MediaVideo,
			wantFile: "vd-1",
			wantOK:   true,
		},
		{
			name:     "sticker",
			msg:      &tele.Message{Sticker: &tele.Sticker{File: tele.File{FileID: "st-1"}}},
			wantKind: models.MediaSticker,
			wantFile: "st-1",
			wantOK:   true,
		},
		{
			name:     "animation",
			msg:      &tele.Message{Animation: &tele.Animation{File: tele.File{FileID: "an-1"}}},
			wantKind: models.MediaGIF,
			wantFile: "an-1",
			wantOK:   true,
		},
		{
			name:   "plain text",
			msg:    &tele.Message{Text: "hello"},
			wantOK: false,
		},
		{
			name:   "nil message",
			msg:    nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, fileID, ok := ExtractMedia(tt.msg)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, expected %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if kind != tt.wantKind || fileID != tt.wantFile {
				t.Fatalf("got (%s, %s), expected (%s, %s)", kind, fileID, tt.wantKind, tt.wantFile)
			}
		})
	}
}

func TestMediaSendableRoundTrip(t *testing.T) {
	tests := []struct {
		kind   models.MediaKind
		fileID string
	}{
		{models.MediaPhoto, "ph-1"},
		{models.MediaVideo, "vd-1"},
		{models.MediaSticker, "st-1"},
		{models.MediaGIF, "an-1"},
	}

	for _, tt := range tests {
		payload := mediaSendable(tt.kind, tt.fileID)
		if payload == nil {
			t.Fatalf("%s: expected sendable payload", tt.kind)
		}
		var gotFile string
		switch v := payload.(type) {
		case *tele.Photo:
			gotFile = v.FileID
		case *tele.Video:
			gotFile = v.FileID
		case *tele.Sticker:
			gotFile = v.FileID
		case *tele.Animation:
			gotFile = v.FileID
		default:
			t.Fatalf("%s: unexpected payload type %T", tt.kind, payload)
		}
		if gotFile != tt.fileID {
			t.Fatalf("%s: file id = %s, expected %s", tt.kind, gotFile, tt.fileID)
		}
	}
}

func TestMediaSendableUnknownKind(t *testing.T) {
	if payload := mediaSendable(models.MediaKind("voice"), "vc-1"); payload != nil {
		t.Fatalf("expected nil payload for unknown kind, got %T", payload)
	}
}
