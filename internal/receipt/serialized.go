package receipt

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/mmynk/checkbook/internal/models"
)

// Serialized allows one scan in flight. A scan started while another is
// running fails fast with a *ScanError wrapping ErrScanInProgress instead of
// queueing.
type Serialized struct {
	next Extractor
	sem  *semaphore.Weighted
}

var _ Extractor = (*Serialized)(nil)

// Serialize wraps an extractor.
func Serialize(next Extractor) *Serialized {
	return &Serialized{next: next, sem: semaphore.NewWeighted(1)}
}

func (s *Serialized) Extract(ctx context.Context, image []byte) (*models.Receipt, error) {
	if !s.sem.TryAcquire(1) {
		return nil, scanFailed(ErrScanInProgress)
	}
	defer s.sem.Release(1)
	return s.next.Extract(ctx, image)
}
