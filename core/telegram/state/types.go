package state

import "context"

// Step identifies a point in a multi-turn conversation.
type Step string

// StepIdle means there is no active conversation with the user. It is
// represented by the absence of a session row, never stored.
const StepIdle Step = "idle"

// Session is the current workflow position of one user. FolderID is only
// meaningful for steps that operate on a previously selected folder.
type Session struct {
	Step     Step
	FolderID *int64
}

// Store persists sessions keyed by user id. Set has replace semantics:
// concurrent writers for the same user race with last-write-wins and no
// further ordering guarantee.
type Store interface {
	// Get returns the user's session, or nil when the user is idle.
	Get(ctx context.Context, userID int64) (*Session, error)
	// Set upserts the session for a user.
	Set(ctx context.Context, userID int64, step Step, folderID *int64) error
	// Clear removes the session, returning the user to idle. Clearing an
	// absent session is not an error.
	Clear(ctx context.Context, userID int64) error
}
