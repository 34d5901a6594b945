package controller

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fabric8-services/fabric8-tracker/action"
	"github.com/fabric8-services/fabric8-tracker/app"
	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)
	valid := map[string]int{
		`3`:      3,
		`"3"`:    3,
		`" 4 "`:  4,
		`2.9`:    2,
		`-2.9`:   -2,
		`"7.5"`:  7,
		`1e1`:    10,
		`0`:      0,
		`"-10"`:  -10,
		`100000`: 100000,
	}
	for raw, expected := range valid {
		actual, err := parsePriority(json.RawMessage(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, expected, actual, raw)
	}
	for _, raw := range []string{`"high"`, `""`, `true`, `[1]`, `{}`, `1e20`, `"NaN"`} {
		_, err := parsePriority(json.RawMessage(raw))
		require.Error(t, err, raw)
		ok, _ := errors.IsBadParameterError(err)
		assert.True(t, ok, raw)
	}
}

func TestParseTrackerID(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)
	valid := map[string]uint64{
		`1`:                  1,
		`"12"`:               12,
		`9007199254740993`:   9007199254740993,
		`"9007199254740993"`: 9007199254740993,
	}
	for raw, expected := range valid {
		actual, err := parseTrackerID(json.RawMessage(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, expected, actual, raw)
	}
	for _, raw := range []string{`0`, `-1`, `1.5`, `"abc"`, `""`, `true`, `null`} {
		_, err := parseTrackerID(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func TestParseDueDate(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)
	expected := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{`"2026-03-01"`, `"2026-03-01T23:30:00Z"`, `"2026-03-01T08:00:00+02:00"`} {
		actual, err := parseDueDate(json.RawMessage(raw))
		require.NoError(t, err, raw)
		assert.True(t, expected.Equal(actual), "%s: %v", raw, actual)
	}
	for _, raw := range []string{`"01/03/2026"`, `"2026-13-01"`, `20260301`, `""`} {
		_, err := parseDueDate(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func TestNewPatch(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)

	t.Run("absent attributes are left alone", func(t *testing.T) {
		p, err := newPatch(app.ActionPayload{"title": json.RawMessage(`"B"`)})
		require.NoError(t, err)
		require.NotNil(t, p.Title)
		assert.Equal(t, "B", *p.Title)
		assert.Nil(t, p.Owner)
		assert.False(t, p.ClearOwner)
		assert.False(t, p.ClearDueDate)
	})
	t.Run("null clears", func(t *testing.T) {
		p, err := newPatch(app.ActionPayload{
			"owner":    json.RawMessage(`null`),
			"comments": json.RawMessage(`null`),
			"due_date": json.RawMessage(`null`),
		})
		require.NoError(t, err)
		assert.True(t, p.ClearOwner)
		assert.True(t, p.ClearComments)
		assert.True(t, p.ClearDueDate)
	})
	t.Run("status", func(t *testing.T) {
		p, err := newPatch(app.ActionPayload{"status": json.RawMessage(`"in_progress"`)})
		require.NoError(t, err)
		require.NotNil(t, p.Status)
		assert.Equal(t, action.StatusInProgress, *p.Status)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := newPatch(app.ActionPayload{})
		ok, _ := errors.IsBadParameterError(err)
		assert.True(t, ok)
	})
	t.Run("owner must be a string", func(t *testing.T) {
		_, err := newPatch(app.ActionPayload{"owner": json.RawMessage(`42`)})
		ok, _ := errors.IsBadParameterError(err)
		assert.True(t, ok)
	})
}

func TestNewAction(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)

	a, err := newAction(app.ActionPayload{
		"tracker_id": json.RawMessage(`3`),
		"title":      json.RawMessage(`"A1"`),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), a.TrackerID)
	assert.Equal(t, action.StatusOpen, a.Status)
	assert.Equal(t, action.DefaultPriority, a.Priority)
	assert.Equal(t, 0, a.LocalID)

	_, err = newAction(app.ActionPayload{"tracker_id": json.RawMessage(`3`)})
	ok, _ := errors.IsBadParameterError(err)
	assert.True(t, ok)
}
