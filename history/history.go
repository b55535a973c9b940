// Package history provides a bounded undo/redo log of annotation commands.
//
// Commands are tagged variants carrying their own before/after data, and a
// single Applier dispatches them. Keeping the data explicit instead of
// capturing it in closures means a command can always be inspected and
// replayed, and nothing ambient leaks into the log.
package history

import (
	"fmt"

	"github.com/marcindunin/NapisyTWON/annotation"
)

// DefaultLimit is the maximum number of undoable actions a log retains by
// default. The oldest action is dropped when the limit is exceeded.
const DefaultLimit = 50

// Applier executes the state transitions that commands describe. The
// numbering controller implements it; each method must both mutate the
// store and resynchronize the rendered mark for the entity.
//
// Applier methods run synchronously inside Undo and Redo and must not push
// new commands onto the log from within that execution.
type Applier interface {
	ApplyAdd(a *annotation.Annotation)
	ApplyRemove(a *annotation.Annotation)
	ApplyMove(a *annotation.Annotation, x, y float64)
	ApplyRelabel(a *annotation.Annotation, label string)
}

// Command is one undoable action. Implementations are the tagged variants
// in this package; the interface is sealed.
type Command interface {
	Description() string
	undo(ap Applier)
	redo(ap Applier)
}

// AddCommand records the insertion of one annotation.
type AddCommand struct {
	Annotation *annotation.Annotation
	Label      string // label at insertion time, for the description
}

func (c *AddCommand) Description() string { return fmt.Sprintf("add #%s", c.Label) }
func (c *AddCommand) undo(ap Applier)     { ap.ApplyRemove(c.Annotation) }
func (c *AddCommand) redo(ap Applier)     { ap.ApplyAdd(c.Annotation) }

// RemoveCommand records the deletion of one annotation.
type RemoveCommand struct {
	Annotation *annotation.Annotation
	Label      string
}

func (c *RemoveCommand) Description() string { return fmt.Sprintf("delete #%s", c.Label) }
func (c *RemoveCommand) undo(ap Applier)     { ap.ApplyAdd(c.Annotation) }
func (c *RemoveCommand) redo(ap Applier)     { ap.ApplyRemove(c.Annotation) }

// MoveCommand records a reposition of one annotation.
type MoveCommand struct {
	Annotation *annotation.Annotation
	Label      string
	OldX, OldY float64
	NewX, NewY float64
}

func (c *MoveCommand) Description() string { return fmt.Sprintf("move #%s", c.Label) }
func (c *MoveCommand) undo(ap Applier)     { ap.ApplyMove(c.Annotation, c.OldX, c.OldY) }
func (c *MoveCommand) redo(ap Applier)     { ap.ApplyMove(c.Annotation, c.NewX, c.NewY) }

// RelabelCommand records a label change of one annotation.
type RelabelCommand struct {
	Annotation *annotation.Annotation
	OldLabel   string
	NewLabel   string
}

func (c *RelabelCommand) Description() string {
	return fmt.Sprintf("change #%s to #%s", c.OldLabel, c.NewLabel)
}
func (c *RelabelCommand) undo(ap Applier) { ap.ApplyRelabel(c.Annotation, c.OldLabel) }
func (c *RelabelCommand) redo(ap Applier) { ap.ApplyRelabel(c.Annotation, c.NewLabel) }

// BulkRenumberCommand records a bulk relabel together with the operation
// that triggered it, so that one undo reverses the entire user-visible
// action: an auto-advance insert, or a delete that decreased the numbers
// after it.
//
// On redo the relabels run before the trigger, mirroring the original
// order; on undo the trigger is reversed first and the relabels are rolled
// back in reverse.
type BulkRenumberCommand struct {
	Changes []annotation.LabelChange
	Trigger Command // optional
	Summary string
}

func (c *BulkRenumberCommand) Description() string { return c.Summary }

func (c *BulkRenumberCommand) undo(ap Applier) {
	if c.Trigger != nil {
		c.Trigger.undo(ap)
	}
	for i := len(c.Changes) - 1; i >= 0; i-- {
		ch := c.Changes[i]
		ap.ApplyRelabel(ch.Annotation, ch.OldLabel)
	}
}

func (c *BulkRenumberCommand) redo(ap Applier) {
	for _, ch := range c.Changes {
		ap.ApplyRelabel(ch.Annotation, ch.NewLabel)
	}
	if c.Trigger != nil {
		c.Trigger.redo(ap)
	}
}

// Log is a bounded undo/redo stack pair. History is linear: pushing a new
// command discards everything that could still be redone.
type Log struct {
	applier Applier
	undo    []Command
	redo    []Command
	limit   int
}

// NewLog returns a log dispatching to the given applier. A limit of zero or
// less means DefaultLimit.
func NewLog(ap Applier, limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{applier: ap, limit: limit}
}

// Push appends a command to the undo stack and clears the redo stack. When
// the undo stack exceeds the limit the oldest command is evicted.
func (l *Log) Push(cmd Command) {
	l.undo = append(l.undo, cmd)
	l.redo = nil
	if len(l.undo) > l.limit {
		l.undo = l.undo[1:]
	}
}

// Undo reverses the most recent command and moves it to the redo stack. It
// returns the command's description, or false when there is nothing to
// undo.
func (l *Log) Undo() (string, bool) {
	if len(l.undo) == 0 {
		return "", false
	}
	cmd := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	cmd.undo(l.applier)
	l.redo = append(l.redo, cmd)
	return cmd.Description(), true
}

// Redo re-applies the most recently undone command and moves it back to the
// undo stack. It returns the command's description, or false when there is
// nothing to redo.
func (l *Log) Redo() (string, bool) {
	if len(l.redo) == 0 {
		return "", false
	}
	cmd := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	cmd.redo(l.applier)
	l.undo = append(l.undo, cmd)
	return cmd.Description(), true
}

// CanUndo reports whether the undo stack is non-empty.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// UndoDescription returns the description of the next command Undo would
// reverse, or "" when the undo stack is empty. Shells use it for menu text.
func (l *Log) UndoDescription() string {
	if len(l.undo) == 0 {
		return ""
	}
	return l.undo[len(l.undo)-1].Description()
}

// RedoDescription returns the description of the next command Redo would
// re-apply, or "" when the redo stack is empty.
func (l *Log) RedoDescription() string {
	if len(l.redo) == 0 {
		return ""
	}
	return l.redo[len(l.redo)-1].Description()
}

// Clear empties both stacks. Called on document open and close and on a
// bulk clear of all annotations.
func (l *Log) Clear() {
	l.undo = nil
	l.redo = nil
}
