package tasks

import "github.com/desertthunder/vidshelf/internal/models"

// History keeps bounded undo and redo stacks of collection snapshots.
//
// Snapshots are immutable, so pushing a state never copies it.
type History struct {
	undo    []*models.CollectionState
	redo    []*models.CollectionState
	maxSize int
}

// NewHistory creates a History holding at most maxSize snapshots per stack. A non-positive size disables it.
func NewHistory(maxSize int) *History {
	return &History{maxSize: maxSize}
}

// Push records state as the one to return to on undo and clears the redo stack.
func (h *History) Push(state *models.CollectionState) {
	if h.maxSize <= 0 {
		return
	}
	h.undo = pushBounded(h.undo, state, h.maxSize)
	h.redo = nil
}

// Undo pops the previous state, saving current for redo.
func (h *History) Undo(current *models.CollectionState) (*models.CollectionState, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = pushBounded(h.redo, current, h.maxSize)
	return prev, true
}

// Redo pops the next state, saving current for undo.
func (h *History) Redo(current *models.CollectionState) (*models.CollectionState, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = pushBounded(h.undo, current, h.maxSize)
	return next, true
}

// CanUndo reports whether [History.Undo] would succeed.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether [History.Redo] would succeed.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

func pushBounded(stack []*models.CollectionState, state *models.CollectionState, max int) []*models.CollectionState {
	stack = append(stack, state)
	if len(stack) > max {
		stack = stack[len(stack)-max:]
	}
	return stack
}
