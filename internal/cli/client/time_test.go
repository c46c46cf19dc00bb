package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		err   bool
	}{
		{name: "rfc3339", input: `"2026-10-01T12:00:00Z"`, want: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)},
		{name: "fractional seconds", input: `"2026-10-01T12:00:00.5+02:00"`, want: time.Date(2026, 10, 1, 10, 0, 0, 500000000, time.UTC)},
		{name: "no zone", input: `"2026-10-01T12:00:00"`, want: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)},
		{name: "space separated", input: `"2026-10-01 12:00:00"`, want: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)},
		{name: "date only", input: `"2026-10-01"`, want: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
		{name: "empty string", input: `""`},
		{name: "null", input: `null`},
		{name: "garbage", input: `"next tuesday"`, err: true},
		{name: "number", input: `1759276800`, err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Time
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %s", got.Time)
		})
	}
}

func TestTime_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Time{Time: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2026-10-01T00:00:00Z"`, string(out))
}
