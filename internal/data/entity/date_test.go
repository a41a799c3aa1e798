package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.June, 3), d)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2024-06-03", d.String())

	_, err = ParseDate("03/06/2024")
	assert.Error(t, err)
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.February, 28)
	assert.Equal(t, NewDate(2024, time.February, 29), d.AddDays(1))
	assert.Equal(t, NewDate(2024, time.March, 1), d.AddDays(2))
	assert.Equal(t, 2, d.DaysUntil(d.AddDays(2)))
	assert.Equal(t, -7, d.DaysUntil(d.AddDays(-7)))

	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.Equal(t, 0, d.Compare(NewDate(2024, time.February, 28)))
}

func TestDateOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	instant := time.Date(2024, time.June, 2, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, NewDate(2024, time.June, 2), DateOf(instant))
	assert.Equal(t, NewDate(2024, time.June, 3), DateOf(instant.In(loc)))
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-06-10"}`), &payload))
	assert.Equal(t, NewDate(2024, time.June, 10), payload.Date)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-06-10"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"date":"tomorrow"}`), &payload))
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: At(9, 0)},
		{in: "17:30:00", want: At(17, 30)},
		{in: "00:00", want: 0},
		{in: "23:59", want: At(23, 59)},
		{in: "24:00", wantErr: true},
		{in: "9", wantErr: true},
		{in: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDayParts(t *testing.T) {
	tod := At(10, 15)
	assert.Equal(t, "10:15", tod.String())
	assert.Equal(t, 10, tod.Hour())
	assert.Equal(t, 15, tod.Minute())
}
