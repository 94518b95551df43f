package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2021-06-01")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2021, time.June, 1), d)

	d, err = ParseDate("2021-06-01T23:15:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2021-06-01", d.String())

	_, err = ParseDate("01.06.2021")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2021, time.June, 1))
	require.NoError(t, err)
	assert.JSONEq(t, `"2021-06-01"`, string(b))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2019-12-31"`), &d))
	assert.Equal(t, 2019, d.Year())

	assert.Error(t, json.Unmarshal([]byte(`20191231`), &d))
}

func TestDateScanValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2020, 2, 29, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2020-02-29", d.String())

	require.NoError(t, d.Scan([]byte("2018-01-02")))
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2018-01-02", v)

	assert.Error(t, d.Scan(42))
}

func TestTimestampAcceptsDateAndRFC3339(t *testing.T) {
	var req struct {
		At *Timestamp `json:"at"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-05-01"}`), &req))
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), req.At.Time)

	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-05-01T10:30:00+02:00"}`), &req))
	assert.True(t, req.At.Equal(time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)))

	req.At = nil
	require.NoError(t, json.Unmarshal([]byte(`{"at":null}`), &req))
	assert.Nil(t, req.At)

	assert.Error(t, json.Unmarshal([]byte(`{"at":"01/05/2024"}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"at":20240501}`), &req))
}

func TestOptionalString(t *testing.T) {
	var req UpdateOrderRequest

	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.False(t, req.Notes.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"notes":null}`), &req))
	assert.True(t, req.Notes.Set)
	assert.Nil(t, req.Notes.Value)

	req = UpdateOrderRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"ring twice"}`), &req))
	assert.Equal(t, SomeString("ring twice"), req.Notes)

	assert.Error(t, json.Unmarshal([]byte(`{"notes":5}`), &req))
}
