package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	type payload struct {
		DueDate Date `json:"dueDate"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"2023-11-15"}`), &p))
	assert.Equal(t, NewDate(2023, time.November, 15), p.DueDate)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dueDate":"2023-11-15"}`, string(data))

	p = payload{}
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":""}`), &p))
	assert.True(t, p.DueDate.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"dueDate":"15/11/2023"}`), &p))
}
