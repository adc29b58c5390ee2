package models

import "time"

type UploadResponse struct {
	RunID     string            `json:"run_id"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Rejected  []RejectedFile    `json:"rejected,omitempty"`
	Records   []PlantRecord     `json:"records"`
	Tasks     []TaskResponse    `json:"tasks"`
	Errors    []UploadErrorInfo `json:"errors,omitempty"`
	Summary   string            `json:"summary"`
}

// RejectedFile is a file that failed local validation and never became a task.
type RejectedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type PlantListResponse struct {
	Plants []PlantRecord `json:"plants"`
	Count  int           `json:"count"`
}

type TaskResponse struct {
	FileName string     `json:"file_name"`
	Label    string     `json:"label"`
	Progress int        `json:"progress"`
	Status   TaskStatus `json:"status"`
	ImageURL string     `json:"image_url,omitempty"`
	Error    string     `json:"error,omitempty"`
}

type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
