package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLogger_DerivedLoggersShareEntries(t *testing.T) {
	mock := NewMockLogger()
	child := mock.WithField(FieldSheet, "A").WithError(errors.New("bad cell"))

	child.Warn("row skipped", F(FieldRow, 7))
	mock.Info("done")

	entries := mock.GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, []Field{{Key: FieldSheet, Value: "A"}, {Key: FieldRow, Value: 7}}, entries[0].Fields)
	assert.EqualError(t, entries[0].Error, "bad cell")
	assert.True(t, mock.HasEntry("INFO", "done"))
	assert.Len(t, mock.GetEntriesByLevel("WARN"), 1)

	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}

func TestMockLogger_ZeroValueUsable(t *testing.T) {
	var mock MockLogger
	mock.Debug("x")
	mock.WithField(FieldSheet, "B").Error("failed")
	assert.True(t, mock.HasEntry("DEBUG", "x"))
	assert.True(t, mock.HasEntry("ERROR", "failed"))
}
