package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_SeededPresets(t *testing.T) {
	c := NewCatalog()
	assert.Contains(t, c.Names(), "Default")
	assert.Contains(t, c.Names(), "Red on White")
	assert.Contains(t, c.Names(), "White on Black")
	assert.Contains(t, c.Names(), "Large Yellow")
	assert.Contains(t, c.Names(), "Subtle Gray")
}

func TestCatalog_SaveAndGet(t *testing.T) {
	c := NewCatalog()
	s := DefaultStyle()
	s.Name = "Big"
	s.FontSize = 100
	c.Save(s)

	loaded, ok := c.Get("Big")
	require.True(t, ok)
	assert.Equal(t, 100, loaded.FontSize)
}

func TestCatalog_GetReturnsCopy(t *testing.T) {
	c := NewCatalog()
	s1, ok := c.Get("Default")
	require.True(t, ok)

	s1.FontSize = 999

	s2, ok := c.Get("Default")
	require.True(t, ok)
	assert.Equal(t, 24, s2.FontSize)
}

func TestCatalog_GetUnknown(t *testing.T) {
	c := NewCatalog()
	_, ok := c.Get("No Such Preset")
	assert.False(t, ok)
}

func TestCatalog_Delete(t *testing.T) {
	c := NewCatalog()
	s := DefaultStyle()
	s.Name = "Temp"
	c.Save(s)

	assert.True(t, c.Delete("Temp"))
	_, ok := c.Get("Temp")
	assert.False(t, ok)

	assert.False(t, c.Delete("Temp"), "second delete is a no-op")
}

func TestCatalog_CannotDeleteDefault(t *testing.T) {
	c := NewCatalog()
	assert.False(t, c.Delete("Default"))
	_, ok := c.Get("Default")
	assert.True(t, ok)
}

func TestCatalog_JSONRoundTrip(t *testing.T) {
	c := NewCatalog()
	s := DefaultStyle()
	s.Name = "Custom"
	s.FontSize = 72
	c.Save(s)

	data, err := c.ToJSON()
	require.NoError(t, err)

	c2 := NewCatalog()
	require.NoError(t, c2.FromJSON(data))

	loaded, ok := c2.Get("Custom")
	require.True(t, ok)
	assert.Equal(t, 72, loaded.FontSize)
}

func TestCatalog_FromJSONMalformedLeavesCatalog(t *testing.T) {
	c := NewCatalog()
	before := c.Len()

	require.Error(t, c.FromJSON([]byte(`{"broken": `)))
	assert.Equal(t, before, c.Len())
}
