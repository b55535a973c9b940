package napisytwon_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	napisytwon "github.com/marcindunin/NapisyTWON"
)

func TestSession_EndToEnd(t *testing.T) {
	s := napisytwon.NewSession()

	for i := 1; i <= 3; i++ {
		a, _, err := s.InsertNext(0, float64(i*50), 100, napisytwon.DefaultStyle())
		require.NoError(t, err)
		require.NotNil(t, a)
	}
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, "4", s.NextNumber())

	ok, msg := s.ValidateSequence()
	assert.True(t, ok, msg)

	// Insert a duplicate of 2 by auto-advancing the rest.
	a, summary, err := s.Insert(0, 75, 100, "2", napisytwon.DefaultStyle(), napisytwon.DuplicateAutoAdvance)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "inserted #2, advanced 2 others", summary)

	var labels []string
	for _, a := range s.AnnotationsSorted() {
		labels = append(labels, a.Label)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, labels)

	desc, ok2 := s.Undo()
	require.True(t, ok2)
	assert.Equal(t, "insert #2, advance 2 others", desc)
	assert.Equal(t, 3, s.Count())
}

func TestSession_DeleteWithRenumberGapClose(t *testing.T) {
	s := napisytwon.NewSession()
	for _, label := range []string{"1", "2", "3", "4"} {
		_, _, err := s.Insert(0, 0, 0, label, napisytwon.DefaultStyle(), napisytwon.DuplicateCancel)
		require.NoError(t, err)
	}

	target := s.AnnotationsSorted()[1] // "2"
	_, err := s.Delete(target.ID, true)
	require.NoError(t, err)

	ok, msg := s.ValidateSequence()
	assert.True(t, ok, "renumbering closed the gap: %s", msg)
	assert.Equal(t, "4", s.NextNumber())
}

func TestSession_GapReporting(t *testing.T) {
	s := napisytwon.NewSession()
	for _, label := range []string{"1", "2", "5"} {
		_, _, err := s.Insert(0, 0, 0, label, napisytwon.DefaultStyle(), napisytwon.DuplicateCancel)
		require.NoError(t, err)
	}

	assert.Equal(t, []int{3, 4}, s.FindGaps())
	ok, msg := s.ValidateSequence()
	assert.False(t, ok)
	assert.Contains(t, msg, "3, 4")
}

func TestSession_PositionRoundTrip(t *testing.T) {
	s := napisytwon.NewSession()
	for _, label := range []string{"1", "2.1", "3p"} {
		_, _, err := s.Insert(2, 10, 20, label, napisytwon.DefaultStyle(), napisytwon.DuplicateCancel)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, s.ExportPositions(&buf))

	s2 := napisytwon.NewSession()
	require.NoError(t, s2.ImportPositions(&buf))
	assert.Equal(t, 3, s2.Count())
	assert.True(t, s2.HasLabel("2.1"))
	assert.True(t, s2.HasLabel("3"))
	assert.Len(t, s2.ForPage(2), 3)
}

func TestSession_ImportFailureLeavesSession(t *testing.T) {
	s := napisytwon.NewSession()
	_, _, err := s.Insert(0, 0, 0, "1", napisytwon.DefaultStyle(), napisytwon.DuplicateCancel)
	require.NoError(t, err)

	require.Error(t, s.ImportPositions(bytes.NewReader([]byte("{broken"))))
	assert.Equal(t, 1, s.Count())
}

func TestSession_CatalogOwnership(t *testing.T) {
	s1 := napisytwon.NewSession()
	s2 := napisytwon.NewSession()

	custom := napisytwon.DefaultStyle()
	custom.Name = "Site Red"
	custom.TextColor = "#FF0000"
	s1.Catalog().Save(custom)

	_, ok := s1.Catalog().Get("Site Red")
	assert.True(t, ok)
	_, ok = s2.Catalog().Get("Site Red")
	assert.False(t, ok, "sessions do not share catalogs")
}

func TestSession_ModifiedFlag(t *testing.T) {
	s := napisytwon.NewSession()
	assert.False(t, s.Modified())

	_, _, err := s.Insert(0, 0, 0, "1", napisytwon.DefaultStyle(), napisytwon.DuplicateCancel)
	require.NoError(t, err)
	assert.True(t, s.Modified())
}
