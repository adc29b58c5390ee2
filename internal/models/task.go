package models

// TaskStatus tracks a single file through the ingestion pipeline.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskUploading  TaskStatus = "uploading"
	TaskExtracting TaskStatus = "extracting"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// UploadTask is the transient per-file state for one ingestion run. Tasks are
// owned by their run and are never persisted; only PlantRecords derived from
// completed tasks survive the run.
type UploadTask struct {
	FileName         string       `json:"file_name"`
	DerivedLabel     string       `json:"derived_label"`
	Data             []byte       `json:"-"`
	ProgressPercent  int          `json:"progress"`
	Status           TaskStatus   `json:"status"`
	ErrorDetail      string       `json:"error_detail,omitempty"`
	ErrorStage       string       `json:"error_stage,omitempty"`
	ResultURL        string       `json:"result_url,omitempty"`
	ResultReference  string       `json:"result_reference,omitempty"`
	ResultLocation   *GeoLocation `json:"result_location,omitempty"`
	ResultConfidence float64      `json:"result_confidence,omitempty"`

	// Persisted flips once PersistCompleted has written this task's record.
	Persisted bool `json:"persisted"`
}

// UploadErrorInfo itemizes one file's failure together with the pipeline
// stage that produced it.
type UploadErrorInfo struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
	Stage    string `json:"stage"`
}
