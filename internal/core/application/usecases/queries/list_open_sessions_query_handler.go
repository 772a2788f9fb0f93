package queries

import (
	"context"
	"slices"
	"time"

	"halforder/internal/core/ports"
)

// ListOpenSessionsQueryHandler returns OPEN sessions newest first. Sessions whose
// deadline has passed are hidden even when the sweeper has not reached them yet.
type ListOpenSessionsQueryHandler struct {
	sessions ports.SessionReader
	now      func() time.Time
}

func NewListOpenSessionsQueryHandler(sessions ports.SessionReader, now func() time.Time) ListOpenSessionsQueryHandler {
	return ListOpenSessionsQueryHandler{sessions: sessions, now: now}
}

func (h ListOpenSessionsQueryHandler) Handle(ctx context.Context, query ListOpenSessionsQuery) ([]SessionResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.now()
	found, err := h.sessions.ListOpenByRestaurant(ctx, query.RestaurantID(), now)
	if err != nil {
		return nil, err
	}

	result := make([]SessionResponse, 0, len(found))
	for _, s := range found {
		if !s.IsLiveAt(now) {
			continue
		}
		result = append(result, NewSessionResponse(s))
	}
	slices.SortStableFunc(result, func(a, b SessionResponse) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}
