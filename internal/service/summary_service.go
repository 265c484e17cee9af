package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/events"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/repository"
	apperrors "github.com/aniketsharma889/faculty-appraisal-system-sub001/pkg/util/errorutil"
)

const (
	summaryCacheKey = "appraisal:status_counts"
	summaryCacheTTL = 30 * time.Second
)

// SummaryService serves the admin dashboard's status counts with a short
// Redis cache in front of the grouped count query. The cache is invalidated
// whenever a record transitions, so the dashboard is never more than one
// transition stale.
type SummaryService struct {
	appraisals repository.AppraisalRepository
	cache      *redis.Client
}

// NewSummaryService constructs the service.
func NewSummaryService(appraisals repository.AppraisalRepository, cache *redis.Client) *SummaryService {
	return &SummaryService{appraisals: appraisals, cache: cache}
}

// RegisterHandlers subscribes cache invalidation to lifecycle events.
func (s *SummaryService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventAppraisalSubmitted, s.invalidate)
	dispatcher.Subscribe(events.EventAppraisalStatusChanged, s.invalidate)
	dispatcher.Subscribe(events.EventAppraisalEdited, s.invalidate)
}

// StatusCounts returns the number of records per lifecycle status.
func (s *SummaryService) StatusCounts(ctx context.Context) (map[domain.AppraisalStatus]int64, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, summaryCacheKey).Bytes(); err == nil {
			var counts map[domain.AppraisalStatus]int64
			if json.Unmarshal(cached, &counts) == nil {
				return counts, nil
			}
		}
	}

	counts, err := s.appraisals.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	// every status shows up on the dashboard even when zero
	for _, status := range []domain.AppraisalStatus{
		domain.StatusPendingHOD,
		domain.StatusPendingAdmin,
		domain.StatusApproved,
		domain.StatusRejected,
	} {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(counts); err == nil {
			_ = s.cache.Set(ctx, summaryCacheKey, encoded, summaryCacheTTL).Err()
		}
	}
	return counts, nil
}

func (s *SummaryService) invalidate(ctx context.Context, _ events.Event) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, summaryCacheKey).Err()
}
