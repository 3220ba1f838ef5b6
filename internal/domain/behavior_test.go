package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBehaviorEvent_Accessors(t *testing.T) {
	tests := []struct {
		name    string
		event   BehaviorEvent
		wantTS  int64
		tsOK    bool
		wantDur float64
		durOK   bool
	}{
		{"ints", BehaviorEvent{"timestamp": 1700000000, "duration": 5}, 1700000000, true, 5, true},
		{"floats", BehaviorEvent{"timestamp": 1700000000.9, "duration": 2.5}, 1700000000, true, 2.5, true},
		{"numeric strings", BehaviorEvent{"timestamp": "1700000000", "duration": "3"}, 1700000000, true, 3, true},
		{"float string timestamp", BehaviorEvent{"timestamp": "1700000000.0"}, 1700000000, true, 0, false},
		{"missing", BehaviorEvent{}, 0, false, 0, false},
		{"null", BehaviorEvent{"timestamp": nil, "duration": nil}, 0, false, 0, false},
		{"empty strings", BehaviorEvent{"timestamp": " ", "duration": ""}, 0, false, 0, false},
		{"garbage", BehaviorEvent{"timestamp": "soon", "duration": "long"}, 0, false, 0, false},
		{"bools", BehaviorEvent{"timestamp": true, "duration": false}, 0, false, 0, false},
		{"negative duration", BehaviorEvent{"duration": -4}, 0, false, 0, false},
		{"NaN strings", BehaviorEvent{"timestamp": "NaN", "duration": "NaN"}, 0, false, 0, false},
		{"infinities", BehaviorEvent{"timestamp": math.Inf(1), "duration": "Inf"}, 0, false, 0, false},
		{"NaN number", BehaviorEvent{"timestamp": math.NaN(), "duration": math.NaN()}, 0, false, 0, false},
		{"timestamp out of int64 range", BehaviorEvent{"timestamp": 1e300, "duration": 1e300}, 0, false, 1e300, true},
		{"leading zeros are decimal", BehaviorEvent{"timestamp": "010"}, 10, true, 0, false},
		{"hex strings are rejected", BehaviorEvent{"timestamp": "0x10"}, 0, false, 0, false},
		{"padded string", BehaviorEvent{"timestamp": " 42 "}, 42, true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, ok := tt.event.Timestamp()
			assert.Equal(t, tt.tsOK, ok)
			assert.Equal(t, tt.wantTS, ts)

			d, ok := tt.event.Duration()
			assert.Equal(t, tt.durOK, ok)
			assert.Equal(t, tt.wantDur, d)
		})
	}
}

func TestBehaviorEvent_Action(t *testing.T) {
	assert.Equal(t, "play", BehaviorEvent{"action": "play"}.Action())
	assert.Empty(t, BehaviorEvent{"action": 3}.Action())
	assert.Empty(t, BehaviorEvent{}.Action())
}

func TestBehaviorEvent_DecodedFromJSON(t *testing.T) {
	var events []BehaviorEvent
	require.NoError(t, json.Unmarshal([]byte(`[{"action":"click","timestamp":1700000000,"duration":4,"x":12}]`), &events))

	require.Len(t, events, 1)
	ts, ok := events[0].Timestamp()
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), ts)
	assert.Equal(t, float64(12), events[0]["x"], "unknown keys are kept")
}
