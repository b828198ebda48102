package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		input   string
		want    ClockTime
		wantErr bool
	}{
		{input: "08:00", want: 480},
		{input: "8:05", want: 485},
		{input: "23:59", want: 1439},
		{input: "00:00", want: 0},
		{input: "07:30:00", want: 450},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "12:5", wantErr: true},
		{input: "noon", wantErr: true},
		{input: "", wantErr: true},
		{input: "07:30:99", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClockTime(tt.input)
			if tt.wantErr {
				var invalid *InvalidTimeError
				require.Error(t, err)
				assert.True(t, errors.As(err, &invalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockTimeFormatting(t *testing.T) {
	assert.Equal(t, "08:05", NewClockTime(8, 5).String())
	assert.Equal(t, "8:05 AM", NewClockTime(8, 5).Display())
	assert.Equal(t, "12:00 PM", NewClockTime(12, 0).Display())
	assert.Equal(t, "12:15 AM", NewClockTime(0, 15).Display())
	assert.Equal(t, "11:45 PM", NewClockTime(23, 45).Display())
}

func TestClockTimeOn(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	got := NewClockTime(7, 30).On(NewDate(2023, time.January, 2), loc)
	assert.Equal(t, time.Date(2023, 1, 2, 7, 30, 0, 0, loc), got)
	assert.Equal(t, NewClockTime(7, 30), ClockTimeOf(got.Add(59*time.Second)))
}

func TestClockTimeText(t *testing.T) {
	var c ClockTime
	require.NoError(t, c.UnmarshalText([]byte("06:00")))
	assert.Equal(t, NewClockTime(6, 0), c)

	text, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "06:00", string(text))

	require.NoError(t, c.Scan([]byte("09:15:00")))
	assert.Equal(t, NewClockTime(9, 15), c)
}
