package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcindunin/NapisyTWON/annotation"
)

// recordingApplier logs every dispatched transition so tests can assert on
// dispatch order without a real store behind it.
type recordingApplier struct {
	ops []string
}

func (r *recordingApplier) ApplyAdd(a *annotation.Annotation) {
	r.ops = append(r.ops, "add "+a.Label)
}

func (r *recordingApplier) ApplyRemove(a *annotation.Annotation) {
	r.ops = append(r.ops, "remove "+a.Label)
}

func (r *recordingApplier) ApplyMove(a *annotation.Annotation, x, y float64) {
	r.ops = append(r.ops, fmt.Sprintf("move %s to %g,%g", a.Label, x, y))
}

func (r *recordingApplier) ApplyRelabel(a *annotation.Annotation, label string) {
	r.ops = append(r.ops, fmt.Sprintf("relabel %s to %s", a.Label, label))
	a.Label = label
}

func ann(label string) *annotation.Annotation {
	return annotation.New(0, 0, 0, label, annotation.DefaultStyle())
}

func TestLog_UndoRedo(t *testing.T) {
	ap := &recordingApplier{}
	l := NewLog(ap, 0)

	l.Push(&AddCommand{Annotation: ann("1"), Label: "1"})
	l.Push(&AddCommand{Annotation: ann("2"), Label: "2"})

	desc, ok := l.Undo()
	require.True(t, ok)
	assert.Equal(t, "add #2", desc)

	desc, ok = l.Undo()
	require.True(t, ok)
	assert.Equal(t, "add #1", desc)

	_, ok = l.Undo()
	assert.False(t, ok, "nothing left to undo")

	desc, ok = l.Redo()
	require.True(t, ok)
	assert.Equal(t, "add #1", desc)

	assert.Equal(t, []string{"remove 2", "remove 1", "add 1"}, ap.ops)
	assert.True(t, l.CanUndo())
	assert.True(t, l.CanRedo())
}

func TestLog_PushClearsRedo(t *testing.T) {
	ap := &recordingApplier{}
	l := NewLog(ap, 0)

	l.Push(&AddCommand{Annotation: ann("1"), Label: "1"})
	_, ok := l.Undo()
	require.True(t, ok)
	require.True(t, l.CanRedo())

	l.Push(&AddCommand{Annotation: ann("2"), Label: "2"})
	assert.False(t, l.CanRedo(), "linear history: a new action discards the redo branch")
}

func TestLog_LimitEvictsOldest(t *testing.T) {
	ap := &recordingApplier{}
	l := NewLog(ap, 3)

	for i := 1; i <= 5; i++ {
		label := fmt.Sprintf("%d", i)
		l.Push(&AddCommand{Annotation: ann(label), Label: label})
	}

	var descs []string
	for {
		desc, ok := l.Undo()
		if !ok {
			break
		}
		descs = append(descs, desc)
	}
	assert.Equal(t, []string{"add #5", "add #4", "add #3"}, descs)
}

func TestLog_Descriptions(t *testing.T) {
	ap := &recordingApplier{}
	l := NewLog(ap, 0)
	assert.Equal(t, "", l.UndoDescription())
	assert.Equal(t, "", l.RedoDescription())

	a := ann("4")
	l.Push(&MoveCommand{Annotation: a, Label: "4", OldX: 1, OldY: 2, NewX: 3, NewY: 4})
	assert.Equal(t, "move #4", l.UndoDescription())

	_, ok := l.Undo()
	require.True(t, ok)
	assert.Equal(t, "move #4", l.RedoDescription())
}

func TestLog_Clear(t *testing.T) {
	ap := &recordingApplier{}
	l := NewLog(ap, 0)
	l.Push(&AddCommand{Annotation: ann("1"), Label: "1"})
	_, _ = l.Undo()
	l.Push(&AddCommand{Annotation: ann("2"), Label: "2"})

	l.Clear()
	assert.False(t, l.CanUndo())
	assert.False(t, l.CanRedo())
}

func TestMoveCommand_Dispatch(t *testing.T) {
	ap := &recordingApplier{}
	l := NewLog(ap, 0)
	a := ann("7")

	l.Push(&MoveCommand{Annotation: a, Label: "7", OldX: 1, OldY: 2, NewX: 3, NewY: 4})
	_, _ = l.Undo()
	_, _ = l.Redo()

	assert.Equal(t, []string{"move 7 to 1,2", "move 7 to 3,4"}, ap.ops)
}

func TestRelabelCommand_Dispatch(t *testing.T) {
	ap := &recordingApplier{}
	l := NewLog(ap, 0)
	a := ann("9")

	l.Push(&RelabelCommand{Annotation: a, OldLabel: "7", NewLabel: "9"})
	assert.Equal(t, "change #7 to #9", l.UndoDescription())

	_, _ = l.Undo()
	_, _ = l.Redo()
	assert.Equal(t, []string{"relabel 9 to 7", "relabel 7 to 9"}, ap.ops)
}

func TestBulkRenumberCommand_UndoOrder(t *testing.T) {
	// An auto-advance insert: 2 and 3 shifted up, then 2 inserted. Undo
	// reverses the trigger first and unwinds the relabels in reverse;
	// redo replays in the original order.
	ap := &recordingApplier{}
	l := NewLog(ap, 0)

	shifted2 := ann("3")
	shifted3 := ann("4")
	inserted := ann("2")

	cmd := &BulkRenumberCommand{
		Changes: []annotation.LabelChange{
			{Annotation: shifted2, OldLabel: "2", NewLabel: "3"},
			{Annotation: shifted3, OldLabel: "3", NewLabel: "4"},
		},
		Trigger: &AddCommand{Annotation: inserted, Label: "2"},
		Summary: "insert #2, advance 2 others",
	}
	l.Push(cmd)
	assert.Equal(t, "insert #2, advance 2 others", l.UndoDescription())

	_, ok := l.Undo()
	require.True(t, ok)
	assert.Equal(t, []string{
		"remove 2",
		"relabel 4 to 3",
		"relabel 3 to 2",
	}, ap.ops)

	ap.ops = nil
	_, ok = l.Redo()
	require.True(t, ok)
	assert.Equal(t, []string{
		"relabel 2 to 3",
		"relabel 3 to 4",
		"add 2",
	}, ap.ops)
}

func TestRemoveCommand_Dispatch(t *testing.T) {
	ap := &recordingApplier{}
	l := NewLog(ap, 0)
	a := ann("5")

	l.Push(&RemoveCommand{Annotation: a, Label: "5"})
	assert.Equal(t, "delete #5", l.UndoDescription())

	_, _ = l.Undo()
	_, _ = l.Redo()
	assert.Equal(t, []string{"add 5", "remove 5"}, ap.ops)
}
