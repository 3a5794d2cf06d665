package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateBuilder(t *testing.T) {
	name := "Renamed"
	var city *string

	b := newUpdate("locations")
	setIfPresent(b, "name", &name)
	setIfPresent(b, "city", city)
	b.set("event_date", "2026-01-02", "::date")

	require.False(t, b.empty())
	sql, args := b.build("location_id", 7)
	require.Equal(t, "UPDATE locations SET name = $1, event_date = $2::date WHERE location_id = $3", sql)
	require.Equal(t, []any{"Renamed", "2026-01-02", int64(7)}, args)
}

func TestUpdateBuilderEmpty(t *testing.T) {
	var name *string
	b := newUpdate("events")
	setIfPresent(b, "name", name)
	require.True(t, b.empty())
}

func TestAccessTable(t *testing.T) {
	table, err := accessTable("blacklist")
	require.NoError(t, err)
	require.Equal(t, "blacklist", table)

	_, err = accessTable("greylist; DROP TABLE events")
	require.Error(t, err)
}
