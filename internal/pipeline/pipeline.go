package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmmap-backend/internal/geolookup"
	"farmmap-backend/internal/mediastore"
	"farmmap-backend/internal/models"
	"farmmap-backend/internal/repository"
)

// Stage names used in per-file error reports.
const (
	StageValidate = "validate"
	StageUpload   = "upload"
	StageExtract  = "extract"
	StagePersist  = "persist"
	StageCancel   = "cancelled"
)

// Pipeline drives upload tasks from pending to a terminal state and persists
// a PlantRecord for every task that completes extraction. Batches run
// strictly sequentially; the two external services set the pace and the
// pipeline deliberately never fans out against them.
type Pipeline struct {
	uploader  mediastore.Uploader
	extractor geolookup.Extractor
	records   repository.Records
	validator Validator
}

// File is one submitted binary with its original name.
type File struct {
	Name string
	Data []byte
}

// Event is one observable progress or status change for a task.
type Event struct {
	FileName    string            `json:"file_name"`
	Status      models.TaskStatus `json:"status"`
	Progress    int               `json:"progress"`
	RunProgress int               `json:"run_progress"`
	Detail      string            `json:"detail,omitempty"`
}

// Run owns the tasks of a single submission. A run is discarded when it
// ends; only records persisted from completed tasks survive.
type Run struct {
	ID       uuid.UUID
	Tasks    []*models.UploadTask
	Rejected []models.RejectedFile

	events   chan Event
	finished bool
}

func New(uploader mediastore.Uploader, extractor geolookup.Extractor, records repository.Records, validator Validator) *Pipeline {
	return &Pipeline{
		uploader:  uploader,
		extractor: extractor,
		records:   records,
		validator: validator,
	}
}

// Submit validates each file and creates one pending task per accepted file.
// Files failing validation are rejected synchronously and never become
// tasks. labels may be empty or supply one label per file; an empty label
// falls back to the file name stem.
func (p *Pipeline) Submit(files []File, labels []string) *Run {
	run := &Run{
		ID:     uuid.New(),
		events: make(chan Event, 16*len(files)+16),
	}

	for i, file := range files {
		if err := p.validator.Check(file.Name, file.Data); err != nil {
			run.Rejected = append(run.Rejected, models.RejectedFile{
				Filename: file.Name,
				Reason:   err.Error(),
			})
			continue
		}

		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		if label == "" {
			label = labelFromFileName(file.Name)
		}

		run.Tasks = append(run.Tasks, &models.UploadTask{
			FileName:     file.Name,
			DerivedLabel: label,
			Data:         file.Data,
			Status:       models.TaskPending,
		})
	}

	return run
}

// Events exposes the run's progress stream. The channel closes when the
// batch finishes.
func (r *Run) Events() <-chan Event {
	return r.events
}

// RunBatch processes every task in submission order. A task failure never
// aborts its siblings. Cancellation is checked before each task; remaining
// tasks are failed with a cancelled detail so no task is left non-terminal.
func (p *Pipeline) RunBatch(ctx context.Context, run *Run) {
	defer func() {
		run.finished = true
		close(run.events)
	}()

	for _, task := range run.Tasks {
		if err := ctx.Err(); err != nil {
			p.fail(run, task, StageCancel, fmt.Errorf("run aborted: %w", err))
			continue
		}
		p.runSingle(ctx, run, task)
	}
}

// runSingle walks one task through upload then extraction. The upload phase
// owns 0-50% of the task's progress, extraction the rest.
func (p *Pipeline) runSingle(ctx context.Context, run *Run, task *models.UploadTask) {
	task.Status = models.TaskUploading
	run.emit(task, "")

	objectName := fmt.Sprintf("%s_%s", uuid.New().String()[:8], task.FileName)
	result, err := p.uploader.Upload(ctx, objectName, task.Data, func(loaded, total int64, percent int) {
		run.setProgress(task, percent/2)
	})
	if err != nil {
		p.fail(run, task, StageUpload, err)
		return
	}

	task.ResultURL = result.URL
	task.ResultReference = result.Reference
	run.setProgress(task, 50)
	task.Status = models.TaskExtracting
	run.emit(task, "")

	location, confidence, err := p.extractor.Extract(ctx, task.ResultURL, task.DerivedLabel)
	if err != nil {
		p.fail(run, task, StageExtract, err)
		return
	}

	task.ResultLocation = &location
	task.ResultConfidence = confidence
	task.Status = models.TaskCompleted
	run.setProgress(task, 100)
	run.emit(task, "")
}

// PersistCompleted writes one PlantRecord per completed task. It is
// idempotent per task and is always worth calling after a batch, even a
// partially failed one: whatever succeeded still gets saved. A repository
// error is attributed to that record alone.
func (p *Pipeline) PersistCompleted(ctx context.Context, run *Run) ([]models.PlantRecord, []models.UploadErrorInfo) {
	var (
		persisted  []models.PlantRecord
		persistErr []models.UploadErrorInfo
	)

	for _, task := range run.Tasks {
		if task.Status != models.TaskCompleted || task.Persisted {
			continue
		}
		if task.ResultURL == "" || task.ResultLocation == nil {
			continue
		}

		confidence := task.ResultConfidence
		if confidence < 0 || confidence > 1 {
			confidence = models.DefaultConfidence
		}

		record := models.PlantRecord{
			ImageURL:       task.ResultURL,
			MediaReference: task.ResultReference,
			DisplayName:    task.DerivedLabel,
			Location:       *task.ResultLocation,
			Confidence:     confidence,
			Timestamp:      time.Now().UTC(),
		}

		stored, err := p.records.Create(ctx, record)
		if err != nil {
			persistErr = append(persistErr, models.UploadErrorInfo{
				Filename: task.FileName,
				Error:    err.Error(),
				Stage:    StagePersist,
			})
			continue
		}

		task.Persisted = true
		persisted = append(persisted, stored)
	}

	return persisted, persistErr
}

// Failures itemizes every failed task with its stage.
func (r *Run) Failures() []models.UploadErrorInfo {
	var failures []models.UploadErrorInfo
	for _, task := range r.Tasks {
		if task.Status == models.TaskFailed {
			failures = append(failures, models.UploadErrorInfo{
				Filename: task.FileName,
				Error:    task.ErrorDetail,
				Stage:    task.ErrorStage,
			})
		}
	}
	return failures
}

// Summary reports the aggregate outcome, e.g. "2 of 3 succeeded".
func (r *Run) Summary() string {
	completed := 0
	for _, task := range r.Tasks {
		if task.Status == models.TaskCompleted {
			completed++
		}
	}
	return fmt.Sprintf("%d of %d succeeded", completed, len(r.Tasks))
}

// Progress is the arithmetic mean of task progress, capped at 99 until the
// whole run has finished.
func (r *Run) Progress() int {
	if len(r.Tasks) == 0 {
		return 0
	}
	if r.finished {
		return 100
	}

	sum := 0
	for _, task := range r.Tasks {
		sum += task.ProgressPercent
	}
	mean := sum / len(r.Tasks)
	if mean > 99 {
		mean = 99
	}
	return mean
}

func (p *Pipeline) fail(run *Run, task *models.UploadTask, stage string, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		stage = StageCancel
	}
	task.Status = models.TaskFailed
	task.ErrorDetail = err.Error()
	task.ErrorStage = stage
	run.emit(task, err.Error())
}

// setProgress keeps per-task progress monotonically non-decreasing.
func (r *Run) setProgress(task *models.UploadTask, percent int) {
	if percent <= task.ProgressPercent {
		return
	}
	if percent > 100 {
		percent = 100
	}
	task.ProgressPercent = percent
	r.emit(task, "")
}

// emit publishes without blocking; a slow or absent consumer drops events
// rather than stalling the batch.
func (r *Run) emit(task *models.UploadTask, detail string) {
	event := Event{
		FileName:    task.FileName,
		Status:      task.Status,
		Progress:    task.ProgressPercent,
		RunProgress: r.Progress(),
		Detail:      detail,
	}
	select {
	case r.events <- event:
	default:
	}
}

func labelFromFileName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			if i > 0 {
				return name[:i]
			}
			break
		}
	}
	return name
}
