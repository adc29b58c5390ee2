package realtime

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

// Notifier publishes ingestion run events so map and list views can follow
// a batch without polling.
type Notifier interface {
	PublishRunEvent(runID uuid.UUID, event string, payload map[string]interface{}) error
}

// SupabaseNotifier publishes through Supabase Realtime.
type SupabaseNotifier struct {
	client *supabase.Client
}

func NewSupabaseNotifier(supabaseURL, key string) (*SupabaseNotifier, error) {
	client, err := supabase.NewClient(supabaseURL, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &SupabaseNotifier{client: client}, nil
}

// PublishRunEvent is a no-op for now: the Supabase Go client has no direct
// Realtime publish, and database writes on the plants table already trigger
// Realtime change feeds that clients subscribe to.
func (n *SupabaseNotifier) PublishRunEvent(runID uuid.UUID, event string, payload map[string]interface{}) error {
	return nil
}

// NoopNotifier is used when no realtime backend is configured.
type NoopNotifier struct{}

func (NoopNotifier) PublishRunEvent(uuid.UUID, string, map[string]interface{}) error {
	return nil
}

// Event payloads

func RunStartedPayload(runID uuid.UUID, fileCount int) map[string]interface{} {
	return map[string]interface{}{
		"run_id":     runID.String(),
		"status":     "uploading",
		"file_count": fileCount,
	}
}

func RunProgressPayload(runID uuid.UUID, progress int) map[string]interface{} {
	return map[string]interface{}{
		"run_id":   runID.String(),
		"status":   "uploading",
		"progress": progress,
	}
}

func RunCompletedPayload(runID uuid.UUID, succeeded, failed int) map[string]interface{} {
	return map[string]interface{}{
		"run_id":    runID.String(),
		"status":    "completed",
		"progress":  100,
		"succeeded": succeeded,
		"failed":    failed,
	}
}
