package handlers

import (
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/order_export_app/internal/apperrors"
	"github.com/SscSPs/order_export_app/internal/core/domain"
)

// exportTracker serializes export runs triggered over HTTP. A second trigger
// while one is running is refused.
type exportTracker struct {
	mu    sync.Mutex
	state domain.ExportState
	now   func() time.Time
}

func newExportTracker() *exportTracker {
	return &exportTracker{state: domain.ExportState{Status: domain.ExportIdle}, now: time.Now}
}

// begin marks a run as started or fails with apperrors.ErrConflict.
func (t *exportTracker) begin(runID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Busy() {
		return fmt.Errorf("%w: export %s is already running", apperrors.ErrConflict, t.state.RunID)
	}
	t.state = t.state.Start(runID, t.now())
	return nil
}

func (t *exportTracker) finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = t.state.Finish(err, t.now())
}

func (t *exportTracker) snapshot() domain.ExportState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
