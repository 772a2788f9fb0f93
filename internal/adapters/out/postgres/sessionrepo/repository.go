package sessionrepo

import (
	"context"
	"errors"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/session"
	"halforder/internal/core/ports"
	"halforder/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSessionRepository implements ports.SessionRepository using GORM.
type GormSessionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormSessionRepository(db *gorm.DB, tracker aggregateTracker) *GormSessionRepository {
	return &GormSessionRepository{db: db, tracker: tracker}
}

func (r *GormSessionRepository) Add(ctx context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("half-order session "+aggregate.ID().String()+" already exists", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update is a compare-and-set on version. Under concurrent joins the database row
// lock serializes the UPDATEs; the ones that wait re-check the version after the
// winner commits and affect no rows.
func (r *GormSessionRepository) Update(ctx context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&SessionDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&SessionDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("session", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidError("session")
	}

	aggregate.IncrementVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormSessionRepository) Get(ctx context.Context, id kernel.UUID) (*session.Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SessionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("session", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormSessionRepository) ListExpired(
	ctx context.Context,
	now time.Time,
	after *ports.ExpiryCursor,
	limit int,
) ([]*session.Session, error) {
	q := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", int(session.Open), now.UTC())
	if after != nil {
		// ids are canonical lower-case text, so text order matches kernel.UUID.Compare.
		at := after.ExpiresAt.UTC()
		q = q.Where("(expires_at > ? OR (expires_at = ? AND id > ?))", at, at, after.SessionID.Bytes())
	}
	q = q.Order("expires_at ASC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return find(q)
}

func (r *GormSessionRepository) ListOpenByRestaurant(
	ctx context.Context,
	restaurantID kernel.UUID,
	now time.Time,
) ([]*session.Session, error) {
	q := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND status = ? AND expires_at > ?", restaurantID.Bytes(), int(session.Open), now.UTC()).
		Order("created_at DESC")
	return find(q)
}

func find(q *gorm.DB) ([]*session.Session, error) {
	var dtos []SessionDTO
	if err := q.Find(&dtos).Error; err != nil {
		return nil, err
	}

	sessions := make([]*session.Session, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
