package tasks

import (
	"testing"

	"github.com/desertthunder/vidshelf/internal/models"
	tu "github.com/desertthunder/vidshelf/internal/testing"
)

func TestHistory(t *testing.T) {
	s1 := tu.State(tu.Playlist("a", "A"))
	s2 := tu.State(tu.Playlist("b", "B"))
	s3 := tu.State(tu.Playlist("c", "C"))

	t.Run("undo and redo", func(t *testing.T) {
		h := NewHistory(10)
		h.Push(s1)
		h.Push(s2)

		prev, ok := h.Undo(s3)
		if !ok || prev != s2 {
			t.Fatalf("expected s2, got %v", prev)
		}
		prev, ok = h.Undo(s2)
		if !ok || prev != s1 {
			t.Fatalf("expected s1, got %v", prev)
		}
		if h.CanUndo() {
			t.Error("undo stack should be empty")
		}

		next, ok := h.Redo(s1)
		if !ok || next != s2 {
			t.Fatalf("expected redo to s2, got %v", next)
		}
		next, ok = h.Redo(s2)
		if !ok || next != s3 {
			t.Fatalf("expected redo to s3, got %v", next)
		}
		if h.CanRedo() {
			t.Error("redo stack should be empty")
		}
	})

	t.Run("push clears redo", func(t *testing.T) {
		h := NewHistory(10)
		h.Push(s1)
		h.Undo(s2)
		h.Push(s3)
		if h.CanRedo() {
			t.Error("push should clear redo")
		}
	})

	t.Run("bounded", func(t *testing.T) {
		h := NewHistory(2)
		for _, s := range []*models.CollectionState{s1, s2, s3} {
			h.Push(s)
		}
		h.Undo(nil)
		h.Undo(nil)
		if _, ok := h.Undo(nil); ok {
			t.Error("oldest snapshot should have been dropped")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		h := NewHistory(0)
		h.Push(s1)
		if h.CanUndo() {
			t.Error("zero-sized history should not record")
		}
	})
}
