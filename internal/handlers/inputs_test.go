package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`{"quantity": 12}`, 12},
		{`{"quantity": "7"}`, 7},
		{`{"quantity": 3.9}`, 3},
		{`{"quantity": "-2"}`, 0},
		{`{"quantity": "muchas"}`, 0},
		{`{"quantity": null}`, 0},
		{`{}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var in ItemInput
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &in))
			assert.Equal(t, tt.want, int(in.Quantity))
		})
	}
}

func TestToRecords(t *testing.T) {
	assert.Nil(t, toRecords(nil))

	recs := toRecords([]RecordInput{{ID: "I-0001", ItemInput: ItemInput{Description: "Tornillo", Quantity: 4}}})
	require.Len(t, recs, 1)
	assert.Equal(t, "I-0001", recs[0].ID)
	assert.Equal(t, 4, recs[0].Quantity)
}
