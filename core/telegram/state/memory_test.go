package state

import (
	"context"
	"testing"
)

func TestMemoryStoreGetAbsent(t *testing.T) {
	store := NewMemoryStore()

	sess, err := store.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session for idle user, got %+v", sess)
	}
}

func TestMemoryStoreSetGetClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	folderID := int64(7)

	if err := store.Set(ctx, 1, Step("recording"), &folderID); err != nil {
		t.Fatalf("set: %v", err)
	}

	sess, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess == nil || sess.Step != Step("recording") {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if sess.FolderID == nil || *sess.FolderID != 7 {
		t.Fatalf("unexpected folder id: %v", sess.FolderID)
	}

	if err := store.Clear(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}
	sess, err = store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected idle after clear, got %+v", sess)
	}

	// Clearing an absent session is not an error.
	if err := store.Clear(ctx, 1); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestMemoryStoreSetReplaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	folderID := int64(3)

	if err := store.Set(ctx, 1, Step("recording"), &folderID); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, 1, Step("waiting_folder_name"), nil); err != nil {
		t.Fatalf("second set: %v", err)
	}

	sess, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess == nil || sess.Step != Step("waiting_folder_name") || sess.FolderID != nil {
		t.Fatalf("expected replaced session, got %+v", sess)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	folderID := int64(5)

	if err := store.Set(ctx, 1, Step("recording"), &folderID); err != nil {
		t.Fatalf("set: %v", err)
	}

	first, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	*first.FolderID = 99

	second, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *second.FolderID != 5 {
		t.Fatalf("stored session mutated through returned copy: %d", *second.FolderID)
	}
}
