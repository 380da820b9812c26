package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Empty(t, s.Store.DataDir)
	assert.Equal(t, "itsunani.db", s.Store.FileName)
	assert.Equal(t, 1, s.Store.SchemaVersion)
	assert.False(t, s.Log.Verbose)
}

func TestDefaultSettings_MatchConstants(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, DefaultFileName, s.Store.FileName)
	assert.Equal(t, DefaultSchemaVersion, s.Store.SchemaVersion)
}
