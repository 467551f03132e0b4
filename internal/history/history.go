package history

// History is a linear undo/redo stack of immutable snapshots.
// A Push after an Undo discards the redo branch.
type History[T any] struct {
	undoStack []T
	redoStack []T
	maxDepth  int
	clone     func(T) T
}

type Option[T any] func(*History[T])

// WithLimit bounds the undo stack; the oldest snapshot is dropped first.
// Zero means unbounded.
func WithLimit[T any](n int) Option[T] {
	return func(h *History[T]) {
		if n > 0 {
			h.maxDepth = n
		}
	}
}

// WithClone copies every snapshot on the way in, for value types that
// carry shared references.
func WithClone[T any](fn func(T) T) Option[T] {
	return func(h *History[T]) { h.clone = fn }
}

func New[T any](opts ...Option[T]) *History[T] {
	h := &History[T]{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Push records current as the state to return to on the next Undo.
func (h *History[T]) Push(current T) {
	h.undoStack = h.pushBounded(h.undoStack, h.copy(current))
	h.redoStack = h.redoStack[:0]
}

// Undo returns the previous state. With nothing to undo it returns current and false.
func (h *History[T]) Undo(current T) (T, bool) {
	if len(h.undoStack) == 0 {
		return current, false
	}
	prev := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, h.copy(current))
	return prev, true
}

// Redo returns the state undone last. With nothing to redo it returns current and false.
func (h *History[T]) Redo(current T) (T, bool) {
	if len(h.redoStack) == 0 {
		return current, false
	}
	next := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = h.pushBounded(h.undoStack, h.copy(current))
	return next, true
}

func (h *History[T]) CanUndo() bool { return len(h.undoStack) > 0 }

func (h *History[T]) CanRedo() bool { return len(h.redoStack) > 0 }

// Len returns the depth of both stacks.
func (h *History[T]) Len() (undo, redo int) {
	return len(h.undoStack), len(h.redoStack)
}

// Clear wipes all undo/redo history.
func (h *History[T]) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

func (h *History[T]) pushBounded(stack []T, v T) []T {
	stack = append(stack, v)
	if h.maxDepth > 0 && len(stack) > h.maxDepth {
		var zero T
		stack[0] = zero
		stack = stack[1:]
	}
	return stack
}

func (h *History[T]) copy(v T) T {
	if h.clone == nil {
		return v
	}
	return h.clone(v)
}
