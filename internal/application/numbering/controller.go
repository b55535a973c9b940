// Package numbering orchestrates annotation sequence mutations: it owns the
// store, the undo/redo log and the mark surface, and turns every mutation
// into one coherent undo command plus the PDF synchronization it needs.
package numbering

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/marcindunin/NapisyTWON/annotation"
	"github.com/marcindunin/NapisyTWON/history"
	"github.com/marcindunin/NapisyTWON/logging"
)

// ErrNotFound is returned when an operation names an annotation id the
// store does not contain.
var ErrNotFound = errors.New("annotation not found")

// Surface is the PDF render/edit collaborator. Apply creates or replaces
// the visible mark for an entity and stores its locator on the entity;
// Discard erases the mark using the stored locator, falling back to
// identity and position matching when the locator is stale.
type Surface interface {
	Apply(a *annotation.Annotation) error
	Discard(a *annotation.Annotation) error
}

// NopSurface is a Surface that renders nothing. Used when the engine runs
// without an open document, e.g. for position-file workflows and tests.
type NopSurface struct{}

func (NopSurface) Apply(*annotation.Annotation) error   { return nil }
func (NopSurface) Discard(*annotation.Annotation) error { return nil }

// DuplicateChoice selects the outcome when an insert or relabel targets a
// label that is already taken. The decision is always made by the shell
// (typically by asking the user) and passed in explicitly.
type DuplicateChoice int

const (
	// DuplicateCancel aborts the operation without any mutation.
	DuplicateCancel DuplicateChoice = iota
	// DuplicateAutoAdvance frees the target label by advancing every
	// whole number at or above it, then performs the operation.
	DuplicateAutoAdvance
	// DuplicateUseSub performs the operation under the next free
	// sub-number of the target's main number instead.
	DuplicateUseSub
)

// Controller coordinates the store, the undo log and the mark surface for
// one document session. All methods are plain synchronous calls; the
// controller is owned by a single document session and is not safe for
// concurrent use.
type Controller struct {
	store   *annotation.Store
	catalog *annotation.Catalog
	log     *history.Log
	surface Surface
}

// NewController builds a controller around an empty store. historyLimit <= 0
// selects the default undo depth.
func NewController(surface Surface, historyLimit int) *Controller {
	if surface == nil {
		surface = NopSurface{}
	}
	c := &Controller{
		store:   annotation.NewStore(),
		catalog: annotation.NewCatalog(),
		surface: surface,
	}
	c.log = history.NewLog(c, historyLimit)
	return c
}

// SetSurface replaces the mark surface the controller renders to. A nil
// surface selects NopSurface; the document facade uses that on Close so
// later session operations stop writing into the released context.
func (c *Controller) SetSurface(s Surface) {
	if s == nil {
		s = NopSurface{}
	}
	c.surface = s
}

// Store exposes the underlying annotation store for queries.
func (c *Controller) Store() *annotation.Store { return c.store }

// Catalog exposes the style preset catalog.
func (c *Controller) Catalog() *annotation.Catalog { return c.catalog }

// Log exposes the undo/redo log for availability queries and menu text.
func (c *Controller) Log() *history.Log { return c.log }

// Insert places a new annotation with the given label. When the label is
// already taken (ignoring the empty marker) the duplicate choice decides
// the outcome; DuplicateCancel returns a nil annotation, an empty summary
// and no error, with nothing mutated.
func (c *Controller) Insert(page int, x, y float64, label string, style annotation.Style, onDuplicate DuplicateChoice) (*annotation.Annotation, string, error) {
	if _, _, err := annotation.ParseLabel(label); err != nil {
		return nil, "", err
	}

	if !c.store.HasLabel(label) {
		a := annotation.New(page, x, y, label, style)
		c.ApplyAdd(a)
		c.log.Push(&history.AddCommand{Annotation: a, Label: a.Label})
		return a, fmt.Sprintf("added #%s", a.Label), nil
	}

	switch onDuplicate {
	case DuplicateAutoAdvance:
		changes, err := c.store.AdvanceFrom(label, 1)
		if err != nil {
			return nil, "", err
		}
		c.resync(changes)
		a := annotation.New(page, x, y, label, style)
		c.ApplyAdd(a)
		c.log.Push(&history.BulkRenumberCommand{
			Changes: changes,
			Trigger: &history.AddCommand{Annotation: a, Label: a.Label},
			Summary: fmt.Sprintf("insert #%s, advance %d others", a.Label, len(changes)),
		})
		return a, fmt.Sprintf("inserted #%s, advanced %d others", a.Label, len(changes)), nil

	case DuplicateUseSub:
		main, _ := annotation.SortKey(label)
		sub, err := c.store.NextSubNumber(annotation.FormatLabel(main, 0))
		if err != nil {
			return nil, "", err
		}
		a := annotation.New(page, x, y, sub, style)
		c.ApplyAdd(a)
		c.log.Push(&history.AddCommand{Annotation: a, Label: a.Label})
		return a, fmt.Sprintf("added #%s", a.Label), nil

	default:
		return nil, "", nil
	}
}

// InsertNext places a new annotation under the next free whole number.
func (c *Controller) InsertNext(page int, x, y float64, style annotation.Style) (*annotation.Annotation, string, error) {
	return c.Insert(page, x, y, c.store.NextNumber(), style, DuplicateCancel)
}

// Relabel changes an annotation's label. Duplicate targets follow the same
// three-way choice as Insert; relabeling an annotation to its own label
// (or its own label with the marker toggled) is not a conflict.
func (c *Controller) Relabel(id, newLabel string, onDuplicate DuplicateChoice) (string, error) {
	a := c.store.Get(id)
	if a == nil {
		return "", ErrNotFound
	}
	if _, _, err := annotation.ParseLabel(newLabel); err != nil {
		return "", err
	}

	holder := c.store.GetByLabel(newLabel)
	if holder == nil || holder == a {
		old := a.Label
		c.ApplyRelabel(a, newLabel)
		c.log.Push(&history.RelabelCommand{Annotation: a, OldLabel: old, NewLabel: newLabel})
		return fmt.Sprintf("changed #%s to #%s", old, newLabel), nil
	}

	switch onDuplicate {
	case DuplicateAutoAdvance:
		changes, err := c.store.AdvanceFrom(newLabel, 1)
		if err != nil {
			return "", err
		}
		c.resync(changes)
		// The advance may have relabeled the target annotation itself;
		// the trigger's old label is whatever it carries now so a single
		// undo unwinds to the original state.
		old := a.Label
		c.ApplyRelabel(a, newLabel)
		c.log.Push(&history.BulkRenumberCommand{
			Changes: changes,
			Trigger: &history.RelabelCommand{Annotation: a, OldLabel: old, NewLabel: newLabel},
			Summary: fmt.Sprintf("change #%s to #%s, advance %d others", old, newLabel, len(changes)),
		})
		return fmt.Sprintf("changed #%s to #%s, advanced %d others", old, newLabel, len(changes)), nil

	case DuplicateUseSub:
		main, _ := annotation.SortKey(newLabel)
		sub, err := c.store.NextSubNumber(annotation.FormatLabel(main, 0))
		if err != nil {
			return "", err
		}
		old := a.Label
		c.ApplyRelabel(a, sub)
		c.log.Push(&history.RelabelCommand{Annotation: a, OldLabel: old, NewLabel: sub})
		return fmt.Sprintf("changed #%s to #%s", old, sub), nil

	default:
		return "", nil
	}
}

// Move repositions an annotation in document coordinates.
func (c *Controller) Move(id string, x, y float64) (string, error) {
	a := c.store.Get(id)
	if a == nil {
		return "", ErrNotFound
	}
	oldX, oldY := a.X, a.Y
	c.ApplyMove(a, x, y)
	c.log.Push(&history.MoveCommand{
		Annotation: a, Label: a.Label,
		OldX: oldX, OldY: oldY, NewX: x, NewY: y,
	})
	return fmt.Sprintf("moved #%s", a.Label), nil
}

// Delete removes an annotation. With renumber set, and only for a
// whole-number target, every whole number above the target is decreased by
// one so the sequence closes over the hole; the removal and the renumber
// then undo as one action. Sub-numbered targets are always plain deletes:
// decrease semantics are defined only over the whole-number sequence.
func (c *Controller) Delete(id string, renumber bool) (string, error) {
	a := c.store.Get(id)
	if a == nil {
		return "", ErrNotFound
	}
	_, sub := a.SortKey()

	if !renumber || sub != 0 {
		c.ApplyRemove(a)
		c.log.Push(&history.RemoveCommand{Annotation: a, Label: a.Label})
		return fmt.Sprintf("deleted #%s", a.Label), nil
	}

	changes, err := c.store.DecreaseFrom(a.Label, 1)
	if err != nil {
		return "", err
	}
	c.resync(changes)
	c.ApplyRemove(a)
	c.log.Push(&history.BulkRenumberCommand{
		Changes: changes,
		Trigger: &history.RemoveCommand{Annotation: a, Label: a.Label},
		Summary: fmt.Sprintf("delete #%s, decrease %d others", a.Label, len(changes)),
	})
	return fmt.Sprintf("deleted #%s, decreased %d others", a.Label, len(changes)), nil
}

// Undo reverses the most recent action and returns its description, or
// false when there is nothing to undo.
func (c *Controller) Undo() (string, bool) { return c.log.Undo() }

// Redo re-applies the most recently undone action and returns its
// description, or false when there is nothing to redo.
func (c *Controller) Redo() (string, bool) { return c.log.Redo() }

// ClearAll removes every annotation and its mark and empties the undo log.
func (c *Controller) ClearAll() string {
	n := c.store.Count()
	for _, a := range c.store.All() {
		c.discard(a)
	}
	c.store.Clear()
	c.log.Clear()
	return fmt.Sprintf("cleared %d annotations", n)
}

// ExportPositions serializes the store for the persistence surface.
func (c *Controller) ExportPositions() ([]byte, error) {
	return c.store.ToJSON()
}

// ImportPositions wholesale replaces the session contents with previously
// exported data. The input is parsed and validated before any existing mark
// is touched, so a malformed document leaves both the session and the
// rendered document untouched. On success the old marks are discarded and
// new ones written, and the undo log is cleared because its commands
// reference entities that no longer exist.
func (c *Controller) ImportPositions(data []byte) error {
	replaced := c.store.All()
	if err := c.store.FromJSON(data); err != nil {
		return err
	}
	for _, a := range replaced {
		c.discard(a)
	}
	c.log.Clear()
	for _, a := range c.store.All() {
		a.Mark = annotation.Mark{}
		a.AppliedToPDF = false
		c.render(a)
	}
	return nil
}

// ApplyPending writes marks for every annotation not yet applied to the
// document. Called before a save so the written file carries every mark.
func (c *Controller) ApplyPending() error {
	for _, a := range c.store.AllSorted() {
		if a.AppliedToPDF {
			continue
		}
		if err := c.surface.Apply(a); err != nil {
			return fmt.Errorf("apply mark #%s: %w", a.Label, err)
		}
	}
	return nil
}

// ApplyAdd implements history.Applier: (re)insert the entity and render its
// mark.
func (c *Controller) ApplyAdd(a *annotation.Annotation) {
	c.store.Add(a)
	c.render(a)
}

// ApplyRemove implements history.Applier: remove the entity and its mark.
func (c *Controller) ApplyRemove(a *annotation.Annotation) {
	c.store.Remove(a.ID)
	c.discard(a)
}

// ApplyMove implements history.Applier.
func (c *Controller) ApplyMove(a *annotation.Annotation, x, y float64) {
	a.X = x
	a.Y = y
	c.store.SetModified(true)
	c.render(a)
}

// ApplyRelabel implements history.Applier.
func (c *Controller) ApplyRelabel(a *annotation.Annotation, label string) {
	a.Label = label
	c.store.SetModified(true)
	c.render(a)
}

func (c *Controller) resync(changes []annotation.LabelChange) {
	for _, ch := range changes {
		c.render(ch.Annotation)
	}
}

func (c *Controller) render(a *annotation.Annotation) {
	if err := c.surface.Apply(a); err != nil {
		logging.Logger().Warn("mark apply failed",
			slog.String("id", a.ID),
			slog.String("label", a.Label),
			slog.Any("err", err))
	}
}

func (c *Controller) discard(a *annotation.Annotation) {
	if err := c.surface.Discard(a); err != nil {
		logging.Logger().Warn("mark discard failed",
			slog.String("id", a.ID),
			slog.String("label", a.Label),
			slog.Any("err", err))
	}
}
