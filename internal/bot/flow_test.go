package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/keeperbot/core/telegram/middleware"
	"github.com/m3rciful/keeperbot/core/telegram/state"
	"github.com/m3rciful/keeperbot/internal/models"
	"github.com/m3rciful/keeperbot/internal/service"
	"github.com/m3rciful/keeperbot/internal/storage"
)

// testContext fakes the parts of tele.Context the workflow touches and
// records every outbound payload in order.
type testContext struct {
	tele.Context

	user  *tele.User
	text  string
	msg   *tele.Message
	cb    *tele.Callback
	store map[string]interface{}
	sent  []interface{}
	edits []interface{}
}

func newTestContext(userID int64) *testContext {
	return &testContext{
		user:  &tele.User{ID: userID},
		store: make(map[string]interface{}),
	}
}

func textUpdate(userID int64, text string) *testContext {
	c := newTestContext(userID)
	c.text = text
	c.msg = &tele.Message{Text: text, Sender: c.user}
	return c
}

func mediaUpdate(userID int64, msg *tele.Message) *testContext {
	c := newTestContext(userID)
	msg.Sender = c.user
	c.msg = msg
	return c
}

func callbackUpdate(userID int64) *testContext {
	c := newTestContext(userID)
	c.msg = &tele.Message{Sender: c.user}
	c.cb = &tele.Callback{Sender: c.user, Message: c.msg}
	return c
}

func (c *testContext) Update() tele.Update      { return tele.Update{} }
func (c *testContext) Sender() *tele.User       { return c.user }
func (c *testContext) Chat() *tele.Chat         { return &tele.Chat{ID: c.user.ID} }
func (c *testContext) Message() *tele.Message   { return c.msg }
func (c *testContext) Callback() *tele.Callback { return c.cb }
func (c *testContext) Text() string             { return c.text }

func (c *testContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *testContext) Edit(what interface{}, _ ...interface{}) error {
	c.edits = append(c.edits, what)
	return nil
}

func (c *testContext) Get(key string) interface{}      { return c.store[key] }
func (c *testContext) Set(key string, val interface{}) { c.store[key] = val }

func (c *testContext) sentTexts() []string {
	var texts []string
	for _, payload := range c.sent {
		if s, ok := payload.(string); ok {
			texts = append(texts, s)
		}
	}
	return texts
}

// In-memory repositories with the same contracts as the Postgres ones.

type memMedia struct {
	nextID int64
	items  []models.Media
}

func (m *memMedia) Add(_ context.Context, folderID int64, kind models.MediaKind, fileID string) error {
	m.nextID++
	m.items = append(m.items, models.Media{ID: m.nextID, FolderID: folderID, Kind: kind, FileID: fileID})
	return nil
}

func (m *memMedia) ListByFolder(_ context.Context, folderID int64) ([]models.Media, error) {
	var out []models.Media
	for _, item := range m.items {
		if item.FolderID == folderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memMedia) Count(_ context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *memMedia) removeFolder(folderID int64) {
	kept := m.items[:0]
	for _, item := range m.items {
		if item.FolderID != folderID {
			kept = append(kept, item)
		}
	}
	m.items = kept
}

type memFolders struct {
	nextID int64
	items  []*models.Folder
	media  *memMedia
}

func (m *memFolders) Create(_ context.Context, userID int64, name string) (*models.Folder, error) {
	m.nextID++
	folder := &models.Folder{ID: m.nextID, UserID: userID, Name: name}
	m.items = append(m.items, folder)
	return folder, nil
}

func (m *memFolders) FindByName(_ context.Context, userID int64, name string) (*models.Folder, error) {
	for _, folder := range m.items {
		if folder.UserID == userID && folder.Name == name {
			return folder, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memFolders) Delete(_ context.Context, folderID int64) error {
	for i, folder := range m.items {
		if folder.ID == folderID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			m.media.removeFolder(folderID)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memFolders) Count(_ context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

type memFeedback struct {
	items []models.Feedback
}

func (m *memFeedback) Add(_ context.Context, userID int64, text string) (*models.Feedback, error) {
	fb := models.Feedback{ID: "fb-1", UserID: userID, Text: text}
	m.items = append(m.items, fb)
	return &fb, nil
}

type flowFixture struct {
	flow     *Flow
	folders  *memFolders
	media    *memMedia
	feedback *memFeedback
	sessions state.Store
}

func newFlowFixture() *flowFixture {
	media := &memMedia{}
	folders := &memFolders{media: media}
	feedback := &memFeedback{}
	sessions := state.NewMemoryStore()
	svc := service.NewArchive(folders, media, feedback)
	return &flowFixture{
		flow:     NewFlow(svc, sessions, 0),
		folders:  folders,
		media:    media,
		feedback: feedback,
		sessions: sessions,
	}
}

func (fix *flowFixture) session(t *testing.T, userID int64) *state.Session {
	t.Helper()
	sess, err := fix.sessions.Get(context.Background(), userID)
	require.NoError(t, err)
	return sess
}

func (fix *flowFixture) confirmGuard() tele.MiddlewareFunc {
	return middleware.RequireStep(middleware.StepOptions{
		Store:        fix.sessions,
		Expected:     StepConfirmDeletion,
		OnStoreError: fix.flow.replyFailure,
	})
}

const userID = int64(42)

func TestCreateRecordViewSequence(t *testing.T) {
	fix := newFlowFixture()

	// Start the create-folder flow.
	c := textUpdate(userID, "/get_messages")
	require.NoError(t, fix.flow.StartCreateFolder(c))
	require.Equal(t, []string{msgAskFolderName}, c.sentTexts())
	require.Equal(t, StepWaitingFolderName, fix.session(t, userID).Step)

	// Name the folder.
	c = textUpdate(userID, "MyFolder")
	handled, err := fix.flow.FSM().Dispatch(state.EventText, c)
	require.NoError(t, err)
	require.True(t, handled)
	sess := fix.session(t, userID)
	require.Equal(t, StepRecording, sess.Step)
	require.NotNil(t, sess.FolderID)

	// Record a photo, then a sticker.
	c = mediaUpdate(userID, &tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "ph-1"}}})
	handled, err = fix.flow.FSM().Dispatch(state.EventMedia, c)
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, []string{msgMediaSaved}, c.sentTexts())

	c = mediaUpdate(userID, &tele.Message{Sticker: &tele.Sticker{File: tele.File{FileID: "st-1"}}})
	handled, err = fix.flow.FSM().Dispatch(state.EventMedia, c)
	require.NoError(t, err)
	require.True(t, handled)

	// View the folder back.
	c = textUpdate(userID, "/save_messages")
	require.NoError(t, fix.flow.StartViewFolder(c))

	c = textUpdate(userID, "MyFolder")
	handled, err = fix.flow.FSM().Dispatch(state.EventText, c)
	require.NoError(t, err)
	require.True(t, handled)

	// Exactly the two saved references, resent in insertion order.
	require.Len(t, c.sent, 2)
	photo, ok := c.sent[0].(*tele.Photo)
	require.True(t, ok, "first resend should be the photo, got %T", c.sent[0])
	require.Equal(t, "ph-1", photo.FileID)
	sticker, ok := c.sent[1].(*tele.Sticker)
	require.True(t, ok, "second resend should be the sticker, got %T", c.sent[1])
	require.Equal(t, "st-1", sticker.FileID)

	// The session is idle after the enumeration.
	require.Nil(t, fix.session(t, userID))
}

func TestFolderNameEmptyKeepsStep(t *testing.T) {
	fix := newFlowFixture()

	c := textUpdate(userID, "/get_messages")
	require.NoError(t, fix.flow.StartCreateFolder(c))

	c = textUpdate(userID, "   ")
	handled, err := fix.flow.FSM().Dispatch(state.EventText, c)
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, []string{msgFolderNameEmpty}, c.sentTexts())
	require.Equal(t, StepWaitingFolderName, fix.session(t, userID).Step)
	require.Empty(t, fix.folders.items)
}

func TestRecordingIgnoresNonMedia(t *testing.T) {
	fix := newFlowFixture()
	folderID := int64(7)
	require.NoError(t, fix.sessions.Set(context.Background(), userID, StepRecording, &folderID))

	c := mediaUpdate(userID, &tele.Message{Text: "not media"})
	handled, err := fix.flow.FSM().Dispatch(state.EventMedia, c)
	require.NoError(t, err)
	require.True(t, handled)
	require.Empty(t, c.sent)
	require.Empty(t, fix.media.items)
	require.Equal(t, StepRecording, fix.session(t, userID).Step)
}

func TestRecordingConsumesTextSilently(t *testing.T) {
	fix := newFlowFixture()
	folderID := int64(7)
	require.NoError(t, fix.sessions.Set(context.Background(), userID, StepRecording, &folderID))

	c := textUpdate(userID, "random chatter")
	handled, err := fix.flow.FSM().Dispatch(state.EventText, c)
	require.NoError(t, err)
	require.True(t, handled)
	require.Empty(t, c.sent)
}

func TestIdleTextFallsThrough(t *testing.T) {
	fix := newFlowFixture()

	c := textUpdate(userID, "hello")
	handled, err := fix.flow.FSM().Dispatch(state.EventText, c)
	require.NoError(t, err)
	require.False(t, handled)
	require.Empty(t, c.sent)
}

func TestDeleteFlowConfirm(t *testing.T) {
	fix := newFlowFixture()
	ctx := context.Background()

	folder, err := fix.folders.Create(ctx, userID, "Old")
	require.NoError(t, err)
	require.NoError(t, fix.media.Add(ctx, folder.ID, models.MediaPhoto, "ph-1"))

	c := textUpdate(userID, "/delete_folder")
	require.NoError(t, fix.flow.StartDeleteFolder(c))

	c = textUpdate(userID, "Old")
	handled, err := fix.flow.FSM().Dispatch(state.EventText, c)
	require.NoError(t, err)
	require.True(t, handled)
	sess := fix.session(t, userID)
	require.Equal(t, StepConfirmDeletion, sess.Step)
	require.NotNil(t, sess.FolderID)
	require.Equal(t, folder.ID, *sess.FolderID)

	cc := callbackUpdate(userID)
	require.NoError(t, fix.confirmGuard()(fix.flow.onConfirmDelete)(cc))
	require.Equal(t, []string{msgFolderDeleted}, cc.sentTexts())
	require.Empty(t, fix.folders.items)
	require.Empty(t, fix.media.items)
	require.Nil(t, fix.session(t, userID))
}

func TestDeleteFlowUnknownNameKeepsStep(t *testing.T) {
	fix := newFlowFixture()

	c := textUpdate(userID, "/delete_folder")
	require.NoError(t, fix.flow.StartDeleteFolder(c))

	c = textUpdate(userID, "ghost")
	handled, err := fix.flow.FSM().Dispatch(state.EventText, c)
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, []string{msgFolderNotFound}, c.sentTexts())
	require.Equal(t, StepWaitingFolderToDelete, fix.session(t, userID).Step)
}

func TestDeleteFlowCancelKeepsFolder(t *testing.T) {
	fix := newFlowFixture()
	ctx := context.Background()

	folder, err := fix.folders.Create(ctx, userID, "Old")
	require.NoError(t, err)
	require.NoError(t, fix.sessions.Set(ctx, userID, StepConfirmDeletion, &folder.ID))

	cc := callbackUpdate(userID)
	require.NoError(t, fix.confirmGuard()(fix.flow.onCancelDelete)(cc))
	require.Equal(t, []string{msgDeleteCanceled}, cc.sentTexts())
	require.Len(t, fix.folders.items, 1)
	require.Nil(t, fix.session(t, userID))
}

func TestStaleConfirmTapDropped(t *testing.T) {
	fix := newFlowFixture()
	ctx := context.Background()

	_, err := fix.folders.Create(ctx, userID, "Old")
	require.NoError(t, err)

	// Idle user taps a leftover confirmation button.
	cc := callbackUpdate(userID)
	require.NoError(t, fix.confirmGuard()(fix.flow.onConfirmDelete)(cc))
	require.Empty(t, cc.sent)
	require.Len(t, fix.folders.items, 1)
}

func TestViewUnknownFolderKeepsStep(t *testing.T) {
	fix := newFlowFixture()

	c := textUpdate(userID, "/save_messages")
	require.NoError(t, fix.flow.StartViewFolder(c))

	c = textUpdate(userID, "ghost")
	handled, err := fix.flow.FSM().Dispatch(state.EventText, c)
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, []string{msgFolderNotFound}, c.sentTexts())
	require.Equal(t, StepWaitingFolderToShow, fix.session(t, userID).Step)
}

func TestViewEmptyFolder(t *testing.T) {
	fix := newFlowFixture()
	ctx := context.Background()

	_, err := fix.folders.Create(ctx, userID, "Empty")
	require.NoError(t, err)
	require.NoError(t, fix.sessions.Set(ctx, userID, StepWaitingFolderToShow, nil))

	c := textUpdate(userID, "Empty")
	handled, err := fix.flow.FSM().Dispatch(state.EventText, c)
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, []string{msgFolderEmpty}, c.sentTexts())
	require.Nil(t, fix.session(t, userID))
}

func TestFeedbackFlow(t *testing.T) {
	fix := newFlowFixture()

	c := callbackUpdate(userID)
	require.NoError(t, fix.flow.StartFeedback(c))
	require.Equal(t, StepWaitingForFeedback, fix.session(t, userID).Step)

	c = textUpdate(userID, "great bot")
	handled, err := fix.flow.FSM().Dispatch(state.EventText, c)
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, []string{msgFeedbackThanks}, c.sentTexts())
	require.Len(t, fix.feedback.items, 1)
	require.Equal(t, "great bot", fix.feedback.items[0].Text)
	require.Nil(t, fix.session(t, userID))
}

func TestEndStorageClearsSession(t *testing.T) {
	fix := newFlowFixture()
	folderID := int64(7)
	require.NoError(t, fix.sessions.Set(context.Background(), userID, StepRecording, &folderID))

	c := textUpdate(userID, "/end_messages")
	require.NoError(t, fix.flow.EndStorage(c))
	require.Equal(t, []string{msgStorageEnded}, c.sentTexts())
	require.Nil(t, fix.session(t, userID))
}

func TestCancelFlowAbortsPrompt(t *testing.T) {
	fix := newFlowFixture()
	require.NoError(t, fix.sessions.Set(context.Background(), userID, StepWaitingFolderName, nil))

	cc := callbackUpdate(userID)
	require.NoError(t, fix.flow.onCancelFlow(cc))
	require.Equal(t, []string{msgActionCanceled}, cc.sentTexts())
	require.Nil(t, fix.session(t, userID))
	// The originating keyboard was cleared.
	require.Len(t, cc.edits, 1)
}

// failingStore simulates the session store being unreachable.
type failingStore struct{}

func (failingStore) Get(context.Context, int64) (*state.Session, error) {
	return nil, errors.New("store down")
}

func (failingStore) Set(context.Context, int64, state.Step, *int64) error {
	return errors.New("store down")
}

func (failingStore) Clear(context.Context, int64) error {
	return errors.New("store down")
}

func TestSessionLoadFailureNotifiesUser(t *testing.T) {
	media := &memMedia{}
	folders := &memFolders{media: media}
	svc := service.NewArchive(folders, media, &memFeedback{})
	flow := NewFlow(svc, failingStore{}, 0)

	c := textUpdate(userID, "anything")
	handled, err := flow.FSM().Dispatch(state.EventText, c)
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, []string{msgGenericFailure}, c.sentTexts())
}

func TestStepWriteFailureNotifiesUser(t *testing.T) {
	media := &memMedia{}
	folders := &memFolders{media: media}
	svc := service.NewArchive(folders, media, &memFeedback{})
	flow := NewFlow(svc, failingStore{}, 0)

	c := textUpdate(userID, "/get_messages")
	require.NoError(t, flow.StartCreateFolder(c))
	require.Equal(t, []string{msgGenericFailure}, c.sentTexts())
}
