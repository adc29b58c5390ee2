package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"farmmap-backend/internal/middleware"
	"farmmap-backend/internal/models"
	"farmmap-backend/internal/pipeline"
	"farmmap-backend/internal/realtime"
)

type UploadHandler struct {
	pipeline *pipeline.Pipeline
	notifier realtime.Notifier
}

func NewUploadHandler(p *pipeline.Pipeline, notifier realtime.Notifier) *UploadHandler {
	return &UploadHandler{
		pipeline: p,
		notifier: notifier,
	}
}

// Upload ingests a batch of plant photos. Each file is uploaded to the image
// host, run through location extraction, and persisted as a plant record.
// Tasks run sequentially; one file's failure never drops its siblings, and
// the response itemizes exactly which files failed at which stage.
func (h *UploadHandler) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	form := c.Request.MultipartForm
	if form == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: "multipart form is nil",
		})
		return
	}

	// Try multiple common field names
	var fileHeaders []*multipart.FileHeader
	fieldNames := []string{"images", "image", "files", "file", "photos", "photo"}
	for _, fieldName := range fieldNames {
		if f := form.File[fieldName]; len(f) > 0 {
			fileHeaders = f
			break
		}
	}

	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no files uploaded",
			Message: fmt.Sprintf("please provide files with one of these field names: %v", fieldNames),
		})
		return
	}

	// Optional comma-separated labels, one per file in order.
	labelsParam := c.PostForm("labels")
	var labels []string
	if labelsParam != "" {
		labels = strings.Split(labelsParam, ",")
		for i, l := range labels {
			labels[i] = strings.TrimSpace(l)
		}
		if len(labels) != len(fileHeaders) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "labels count mismatch",
				Message: fmt.Sprintf("provided %d labels but %d files", len(labels), len(fileHeaders)),
			})
			return
		}
	}

	// Labels are paired with headers by index here, before unreadable files
	// are filtered out, so a dropped file never shifts later labels onto the
	// wrong sibling.
	files := make([]pipeline.File, 0, len(fileHeaders))
	fileLabels := make([]string, 0, len(labels))
	var readErrors []models.RejectedFile
	for i, header := range fileHeaders {
		src, err := header.Open()
		if err != nil {
			readErrors = append(readErrors, models.RejectedFile{
				Filename: header.Filename,
				Reason:   fmt.Sprintf("failed to open file: %v", err),
			})
			continue
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			readErrors = append(readErrors, models.RejectedFile{
				Filename: header.Filename,
				Reason:   fmt.Sprintf("failed to read file: %v", err),
			})
			continue
		}
		files = append(files, pipeline.File{Name: header.Filename, Data: data})
		if len(labels) > 0 {
			fileLabels = append(fileLabels, labels[i])
		}
	}

	run := h.pipeline.Submit(files, fileLabels)
	run.Rejected = append(readErrors, run.Rejected...)

	if len(run.Tasks) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no files accepted",
			Message: rejectionSummary(run.Rejected),
		})
		return
	}

	h.notifier.PublishRunEvent(run.ID, "run_started",
		realtime.RunStartedPayload(run.ID, len(run.Tasks)))

	// Forward the run's progress stream while the batch executes. Per-task
	// events carry file detail; aggregate progress goes out separately
	// whenever it moves.
	done := make(chan struct{})
	go func() {
		defer close(done)
		lastRunProgress := -1
		for event := range run.Events() {
			h.notifier.PublishRunEvent(run.ID, "task_progress", map[string]interface{}{
				"file_name": event.FileName,
				"status":    string(event.Status),
				"progress":  event.Progress,
			})
			if event.RunProgress != lastRunProgress {
				lastRunProgress = event.RunProgress
				h.notifier.PublishRunEvent(run.ID, "run_progress",
					realtime.RunProgressPayload(run.ID, event.RunProgress))
			}
		}
	}()

	h.pipeline.RunBatch(c.Request.Context(), run)
	<-done

	records, persistErrors := h.pipeline.PersistCompleted(c.Request.Context(), run)

	failures := run.Failures()
	failures = append(failures, persistErrors...)

	reportTaskMetrics(len(records), failures)

	h.notifier.PublishRunEvent(run.ID, "run_completed",
		realtime.RunCompletedPayload(run.ID, len(records), len(failures)))

	if records == nil {
		records = []models.PlantRecord{}
	}
	tasks := make([]models.TaskResponse, len(run.Tasks))
	for i, task := range run.Tasks {
		tasks[i] = models.TaskResponse{
			FileName: task.FileName,
			Label:    task.DerivedLabel,
			Progress: task.ProgressPercent,
			Status:   task.Status,
			ImageURL: task.ResultURL,
			Error:    task.ErrorDetail,
		}
	}
	c.JSON(http.StatusOK, models.UploadResponse{
		RunID:     run.ID.String(),
		Succeeded: len(records),
		Failed:    len(failures),
		Rejected:  run.Rejected,
		Records:   records,
		Tasks:     tasks,
		Errors:    failures,
		Summary:   run.Summary(),
	})
}

func reportTaskMetrics(persisted int, failures []models.UploadErrorInfo) {
	middleware.IngestedRecords.Add(float64(persisted))
	for _, f := range failures {
		middleware.FailedTasks.WithLabelValues(f.Stage).Inc()
	}
}

func rejectionSummary(rejected []models.RejectedFile) string {
	reasons := make([]string, len(rejected))
	for i, r := range rejected {
		reasons[i] = fmt.Sprintf("%s: %s", r.Filename, r.Reason)
	}
	return strings.Join(reasons, "; ")
}
