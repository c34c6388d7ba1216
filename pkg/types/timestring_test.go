package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	invalid := []string{"", "9:30", "24:00", "09:60", "09-30", "morning"}
	for _, s := range invalid {
		_, err := NewTimeStringFromString(s)
		assert.ErrorIs(t, err, ErrInvalidTimeString, "input=%q", s)
	}
}

func TestTimeString_Minutes(t *testing.T) {
	tests := []struct {
		ts   TimeString
		want int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"23:59", 1439},
	}

	for _, tt := range tests {
		got, err := tt.ts.Minutes()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "ts=%s", tt.ts)
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("09:30")

	got, err := ts.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), got)

	got, err = ts.AddMinutes(-30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:00"), got)
}

func TestTimeString_RequiresZeroPadding(t *testing.T) {
	// Лексикографические сравнения корректны только на выровненных строках:
	// "9:00" < "10:00" дало бы false
	assert.ErrorIs(t, TimeString("9:00").Validate(), ErrInvalidTimeString)
	assert.NoError(t, TimeString("09:00").Validate())

	_, err := NewTimeStringFromString("9:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	var decoded TimeString
	assert.Error(t, json.Unmarshal([]byte(`"9:00"`), &decoded))
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:01"))
	assert.False(t, TimeString("09:01").IsBefore("09:00"))
	assert.True(t, TimeString("18:00").IsAfter("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("09:00"))
}

func TestTimeString_JSON(t *testing.T) {
	ts := TimeString("14:05")

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"14:05"`, string(data))

	var decoded TimeString
	require.NoError(t, json.Unmarshal([]byte(`"08:00"`), &decoded))
	assert.Equal(t, TimeString("08:00"), decoded)

	assert.Error(t, json.Unmarshal([]byte(`"8am"`), &decoded))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("11:45"))
	assert.Equal(t, TimeString("11:45"), ts)

	require.NoError(t, ts.Scan([]byte("12:00")))
	assert.Equal(t, TimeString("12:00"), ts)

	// Строки из БД нормализуются к канонической форме
	require.NoError(t, ts.Scan("9:05"))
	assert.Equal(t, TimeString("09:05"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 10, 15, 16, 20, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("16:20"), ts)

	assert.Error(t, ts.Scan(42))
}
