package manager

import (
	"context"
	"time"
)

// acquireGen reserves the single in-flight generation slot on ch. Returns
// a release func to be deferred, or too-busy after maxWait.
func (s *Service) acquireGen(ctx context.Context, ch chan struct{}, modelID string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timer := time.NewTimer(s.maxWait)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrTooBusy(modelID)
	}
}
