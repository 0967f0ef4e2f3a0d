package worker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImportProcessTask(t *testing.T) {
	task, err := NewImportProcessTask(12, "IMP-ab12cd34", 9)
	require.NoError(t, err)
	assert.Equal(t, TypeImportProcess, task.Type())

	var payload ImportProcessPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, int64(12), payload.JobID)
	assert.Equal(t, "IMP-ab12cd34", payload.JobCode)
	assert.Equal(t, 9, payload.ActorID)
}

func TestProgressKey(t *testing.T) {
	assert.Equal(t, "import:progress:12", ProgressKey(12))
}
