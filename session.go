package napisytwon

import (
	"fmt"
	"io"

	"github.com/marcindunin/NapisyTWON/internal/application/numbering"
)

// Session is the annotation session for one document: the public mutation
// API the UI shell drives, with queries for lists, sequence health and
// undo/redo availability.
//
// Every policy decision (duplicate resolution, delete-with-renumber) is
// passed in explicitly; the session never prompts and never blocks.
type Session struct {
	ctrl *numbering.Controller
}

// NewSession returns a standalone session with no document behind it. Marks
// are not rendered anywhere; the session still supports the full mutation,
// undo and position-file API. Used for position-file workflows and tests.
func NewSession() *Session {
	return &Session{ctrl: numbering.NewController(numbering.NopSurface{}, 0)}
}

// Insert places a new annotation with the given label at a position in
// document coordinates. When the label is already taken (ignoring the "p"
// marker) onDuplicate decides the outcome; with DuplicateCancel the insert
// is dropped and Insert returns (nil, "", nil).
//
// The returned summary is a short status line, e.g. "inserted #5, advanced
// 2 others".
func (s *Session) Insert(page int, x, y float64, label string, style Style, onDuplicate DuplicateChoice) (*Annotation, string, error) {
	return s.ctrl.Insert(page, x, y, label, style, onDuplicate)
}

// InsertNext places a new annotation under the next free whole number.
func (s *Session) InsertNext(page int, x, y float64, style Style) (*Annotation, string, error) {
	return s.ctrl.InsertNext(page, x, y, style)
}

// Relabel changes an annotation's label, with the same duplicate handling
// as Insert. Returns ErrNotFound for an unknown id.
func (s *Session) Relabel(id, newLabel string, onDuplicate DuplicateChoice) (string, error) {
	return s.ctrl.Relabel(id, newLabel, onDuplicate)
}

// Move repositions an annotation in document coordinates.
func (s *Session) Move(id string, x, y float64) (string, error) {
	return s.ctrl.Move(id, x, y)
}

// Delete removes an annotation. With renumber set and a whole-number
// target, the whole numbers above it are decreased by one in the same
// undoable action; sub-numbered targets are always plain deletes.
func (s *Session) Delete(id string, renumber bool) (string, error) {
	return s.ctrl.Delete(id, renumber)
}

// Undo reverses the most recent action, returning its description.
func (s *Session) Undo() (string, bool) { return s.ctrl.Undo() }

// Redo re-applies the most recently undone action.
func (s *Session) Redo() (string, bool) { return s.ctrl.Redo() }

// CanUndo reports whether there is anything to undo.
func (s *Session) CanUndo() bool { return s.ctrl.Log().CanUndo() }

// CanRedo reports whether there is anything to redo.
func (s *Session) CanRedo() bool { return s.ctrl.Log().CanRedo() }

// UndoDescription returns menu text for the next undo, or "".
func (s *Session) UndoDescription() string { return s.ctrl.Log().UndoDescription() }

// RedoDescription returns menu text for the next redo, or "".
func (s *Session) RedoDescription() string { return s.ctrl.Log().RedoDescription() }

// ClearAll removes every annotation and empties the undo history.
func (s *Session) ClearAll() string { return s.ctrl.ClearAll() }

// Get returns an annotation by id, or nil.
func (s *Session) Get(id string) *Annotation { return s.ctrl.Store().Get(id) }

// Annotations returns every annotation in insertion order.
func (s *Session) Annotations() []*Annotation { return s.ctrl.Store().All() }

// AnnotationsSorted returns every annotation in label order.
func (s *Session) AnnotationsSorted() []*Annotation { return s.ctrl.Store().AllSorted() }

// ForPage returns the annotations on one page (0-based).
func (s *Session) ForPage(page int) []*Annotation { return s.ctrl.Store().ForPage(page) }

// Count returns the number of annotations.
func (s *Session) Count() int { return s.ctrl.Store().Count() }

// CountByPage returns per-page annotation counts, for page indicators.
func (s *Session) CountByPage() map[int]int { return s.ctrl.Store().CountByPage() }

// HasLabel reports whether a label is taken, ignoring the "p" marker.
func (s *Session) HasLabel(label string) bool { return s.ctrl.Store().HasLabel(label) }

// NextNumber returns the next free whole-number label.
func (s *Session) NextNumber() string { return s.ctrl.Store().NextNumber() }

// NextSubNumber returns the next free sub-number label under main.
func (s *Session) NextSubNumber(main string) (string, error) {
	return s.ctrl.Store().NextSubNumber(main)
}

// FindGaps returns the missing whole numbers in the sequence, ascending.
func (s *Session) FindGaps() []int { return s.ctrl.Store().FindGaps() }

// ValidateSequence reports whether the whole-number sequence is complete,
// with a human-readable message either way.
func (s *Session) ValidateSequence() (bool, string) {
	return s.ctrl.Store().ValidateSequence()
}

// Modified reports whether the session changed since the last save.
func (s *Session) Modified() bool { return s.ctrl.Store().Modified() }

// Catalog returns the style preset catalog owned by this session.
func (s *Session) Catalog() *Catalog { return s.ctrl.Catalog() }

// ExportPositions writes the session's annotations as JSON, for the
// persistence surface and for moving numbering between revisions of a
// drawing.
func (s *Session) ExportPositions(w io.Writer) error {
	data, err := s.ctrl.ExportPositions()
	if err != nil {
		return fmt.Errorf("napisytwon: failed to export positions: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("napisytwon: failed to export positions: %w", err)
	}
	return nil
}

// ImportPositions wholesale replaces the session's annotations with
// previously exported JSON. A malformed document leaves the session
// untouched; on success the undo history is cleared.
func (s *Session) ImportPositions(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("napisytwon: failed to import positions: %w", err)
	}
	if err := s.ctrl.ImportPositions(data); err != nil {
		return fmt.Errorf("napisytwon: failed to import positions: %w", err)
	}
	return nil
}
