package reminder

import (
	"encoding/json"
	"errors"
	"fmt"

	"examnova/internal/storage"
)

// Bookmarks keeps each user's bookmarked exam ids under bookmarks_<userId>.
type Bookmarks struct {
	kv    keyValue
	locks *userLocks
}

// NewBookmarks wires the key-value backend.
func NewBookmarks(kv keyValue) *Bookmarks {
	return &Bookmarks{kv: kv, locks: newUserLocks()}
}

// List returns the user's bookmarked exam ids in stored order.
func (b *Bookmarks) List(userID string) ([]string, error) {
	raw, err := b.kv.Get(bookmarksKey(userID))
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load bookmarks for %s: %w", userID, err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("parse bookmarks for %s: %w", userID, err)
	}

	return ids, nil
}

// Toggle adds the exam id when absent and removes it when present,
// reporting the resulting bookmarked state.
func (b *Bookmarks) Toggle(userID, examID string) (bool, error) {
	unlock := b.locks.lock(userID)
	defer unlock()

	ids, err := b.List(userID)
	if err != nil {
		return false, err
	}

	kept := ids[:0]
	removed := false
	for _, id := range ids {
		if id == examID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}

	bookmarked := !removed
	if bookmarked {
		kept = append(kept, examID)
	}

	raw, err := json.Marshal(kept)
	if err != nil {
		return false, fmt.Errorf("marshal bookmarks for %s: %w", userID, err)
	}
	if err := b.kv.Put(bookmarksKey(userID), string(raw)); err != nil {
		return false, fmt.Errorf("persist bookmarks for %s: %w", userID, err)
	}

	return bookmarked, nil
}

func bookmarksKey(userID string) string {
	return "bookmarks_" + userID
}
