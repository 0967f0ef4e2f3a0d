package worker

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeImportProcess = "import:process"

type ImportProcessPayload struct {
	JobID   int64  `json:"job_id"`
	JobCode string `json:"job_code"`
	ActorID int    `json:"actor_id"`
}

func NewImportProcessTask(jobID int64, jobCode string, actorID int) (*asynq.Task, error) {
	payload, err := json.Marshal(ImportProcessPayload{
		JobID:   jobID,
		JobCode: jobCode,
		ActorID: actorID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeImportProcess, payload), nil
}

// ProgressKey is the redis key a running import publishes live progress under.
// The status endpoint reads the same key.
func ProgressKey(jobID int64) string {
	return fmt.Sprintf("import:progress:%d", jobID)
}
