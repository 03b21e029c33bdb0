package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionFeaturesMarshal(t *testing.T) {
	in := TransactionInput{TransactionID: "TXN-1", Amount: 10.5, Time: 3}
	in.Features[0] = -1.25
	in.Features[27] = 2

	body, err := json.Marshal(in.Request())
	require.NoError(t, err)

	s := string(body)
	assert.True(t, strings.HasPrefix(s, `{"transaction_id":"TXN-1","transaction":{"Time":3,"Amount":10.5,"V1":-1.25,"V2":0,`))
	assert.True(t, strings.HasSuffix(s, `"V28":2}}`))
}

func TestTransactionFeaturesNaN(t *testing.T) {
	in := TransactionInput{TransactionID: "TXN-2", Amount: math.NaN(), Time: math.Inf(1)}
	in.Features[4] = math.NaN()

	body, err := json.Marshal(in.Request())
	require.NoError(t, err)
	assert.Contains(t, string(body), `"Time":null,"Amount":null`)
	assert.Contains(t, string(body), `"V5":null`)

	var back PredictionRequest
	require.NoError(t, json.Unmarshal(body, &back))
	assert.True(t, math.IsNaN(back.Transaction.Amount))
	assert.True(t, math.IsNaN(back.Transaction.Features[4]))
	assert.Equal(t, "TXN-2", back.Input().TransactionID)
}

func TestTransactionFeaturesMissingField(t *testing.T) {
	var f TransactionFeatures
	err := json.Unmarshal([]byte(`{"Time":1,"Amount":2}`), &f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"V1"`)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2024-11-10T10:30:00", true},
		{"2024-11-10T10:30:00.123456", true},
		{"2024-11-10T10:30:00Z", true},
		{"2024-11-10T10:30:00+02:00", true},
		{"yesterday", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
