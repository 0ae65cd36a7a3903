// Package models contains the domain entities persisted by the bot.
package models

import "time"

// MediaKind classifies an archived media reference.
type MediaKind string

const (
	// MediaPhoto is a photo reference (highest-resolution variant).
	MediaPhoto MediaKind = "photo"
	// MediaVideo is a video reference.
	MediaVideo MediaKind = "video"
	// MediaSticker is a sticker reference.
	MediaSticker MediaKind = "sticker"
	// MediaGIF is an animation reference.
	MediaGIF MediaKind = "gif"
)

// Folder is a named, per-user container of archived media references.
// Duplicate names per user are currently permitted.
type Folder struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Name      string    `db:"folder_name"`
	CreatedAt time.Time `db:"created_at"`
}

// Media is one archived media reference owned by exactly one folder. FileID
// is the opaque handle issued by Telegram that allows resending without
// re-uploading.
type Media struct {
	ID        int64     `db:"id"`
	FolderID  int64     `db:"folder_id"`
	Kind      MediaKind `db:"message_type"`
	FileID    string    `db:"file_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Feedback is a free-text message a user left through the feedback flow.
type Feedback struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	Text      string    `db:"feedback_text"`
	CreatedAt time.Time `db:"created_at"`
}
