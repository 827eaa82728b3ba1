package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/worklane/escrow-engine/internal/domain"
	"github.com/worklane/escrow-engine/internal/ports"
)

type Repositories struct {
	Projects    ports.ProjectRepository
	Disputes    ports.DisputeRepository
	Escrows     ports.EscrowRepository
	Ratings     ports.RatingRepository
	Idempotency ports.IdempotencyRepository
	Outbox      ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Projects:    &projectRepository{db: db},
		Disputes:    &disputeRepository{db: db},
		Escrows:     &escrowRepository{db: db},
		Ratings:     &ratingRepository{db: db},
		Idempotency: &idempotencyRepository{db: db},
		Outbox:      &outboxRepository{db: db},
	}
}

const projectCounterName = "project_id"

type projectRepository struct {
	db *gorm.DB
}

// NextID increments the single counter row and returns the new value. The
// row update linearizes concurrent creations on the database side.
func (r *projectRepository) NextID(ctx context.Context) (uint64, error) {
	var value uint64
	err := r.db.WithContext(ctx).Raw(
		"UPDATE counters SET value = value + 1 WHERE name = ? RETURNING value",
		projectCounterName,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (r *projectRepository) Get(ctx context.Context, id uint64) (domain.Project, error) {
	var rec projectModel
	if err := r.db.WithContext(ctx).Where("project_id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Project{}, domain.ErrNotFound
		}
		return domain.Project{}, err
	}
	return toDomainProject(rec), nil
}

func (r *projectRepository) Put(ctx context.Context, project domain.Project) error {
	rec := toProjectModel(project)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		UpdateAll: true,
	}).Create(&rec).Error
}

func (r *projectRepository) Counter(ctx context.Context) (uint64, error) {
	var rec counterModel
	if err := r.db.WithContext(ctx).Where("name = ?", projectCounterName).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return rec.Value, nil
}

func (r *projectRepository) ListByPrincipal(ctx context.Context, principal string) ([]domain.Project, error) {
	var recs []projectModel
	err := r.db.WithContext(ctx).
		Where("client = ? OR freelancer = ?", principal, principal).
		Order("project_id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainProject(rec))
	}
	return out, nil
}

type disputeRepository struct {
	db *gorm.DB
}

func (r *disputeRepository) Put(ctx context.Context, dispute domain.Dispute) error {
	rec := toDisputeModel(dispute)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		UpdateAll: true,
	}).Create(&rec).Error
}

func (r *disputeRepository) GetByProjectID(ctx context.Context, projectID uint64) (domain.Dispute, error) {
	var rec disputeModel
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Dispute{}, domain.ErrNotFound
		}
		return domain.Dispute{}, err
	}
	return toDomainDispute(rec), nil
}

type escrowRepository struct {
	db *gorm.DB
}

func (r *escrowRepository) Put(ctx context.Context, account domain.EscrowAccount) error {
	rec := toEscrowModel(account)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		UpdateAll: true,
	}).Create(&rec).Error
}

func (r *escrowRepository) GetByProjectID(ctx context.Context, projectID uint64) (domain.EscrowAccount, error) {
	var rec escrowAccountModel
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.EscrowAccount{}, domain.ErrNotFound
		}
		return domain.EscrowAccount{}, err
	}
	return toDomainEscrow(rec), nil
}

type ratingRepository struct {
	db *gorm.DB
}

// Record appends a score atomically with an upsert increment.
func (r *ratingRepository) Record(ctx context.Context, principal string, score int) (domain.RatingEntry, error) {
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO ratings (principal, total_score, count) VALUES (?, ?, 1)
		 ON CONFLICT (principal) DO UPDATE
		 SET total_score = ratings.total_score + EXCLUDED.total_score,
		     count = ratings.count + 1`,
		principal, int64(score),
	).Error
	if err != nil {
		return domain.RatingEntry{}, err
	}
	return r.Get(ctx, principal)
}

func (r *ratingRepository) Get(ctx context.Context, principal string) (domain.RatingEntry, error) {
	var rec ratingModel
	if err := r.db.WithContext(ctx).Where("principal = ?", principal).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RatingEntry{Principal: principal}, nil
		}
		return domain.RatingEntry{}, err
	}
	return domain.RatingEntry{Principal: rec.Principal, TotalScore: rec.TotalScore, Count: rec.Count}, nil
}

type idempotencyRepository struct {
	db *gorm.DB
}

func (r *idempotencyRepository) Get(ctx context.Context, key string, now time.Time) (*ports.IdempotencyRecord, error) {
	var rec idempotencyModel
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if now.After(rec.ExpiresAt) {
		return nil, nil
	}
	out := ports.IdempotencyRecord{
		Key:          rec.IdempotencyKey,
		RequestHash:  rec.RequestHash,
		ResponseCode: rec.ResponseCode,
		ExpiresAt:    rec.ExpiresAt,
	}
	if rec.ResponseBody != nil {
		out.ResponseBody = []byte(*rec.ResponseBody)
	}
	return &out, nil
}

func (r *idempotencyRepository) Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error {
	now := time.Now().UTC()
	rec := idempotencyModel{
		IdempotencyKey: key,
		RequestHash:    requestHash,
		ExpiresAt:      expiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
	if err != nil {
		return err
	}
	var existing idempotencyModel
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).Take(&existing).Error; err != nil {
		return err
	}
	if existing.RequestHash != requestHash {
		return domain.ErrIdempotencyConflict
	}
	return nil
}

func (r *idempotencyRepository) Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error {
	body := string(responseBody)
	return r.db.WithContext(ctx).Model(&idempotencyModel{}).
		Where("idempotency_key = ?", key).
		Updates(map[string]any{
			"response_code": responseCode,
			"response_body": &body,
			"updated_at":    at,
		}).Error
}

type outboxRepository struct {
	db *gorm.DB
}

func (r *outboxRepository) Enqueue(ctx context.Context, record ports.OutboxRecord) error {
	rec, err := toOutboxModel(record)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var recs []outboxModel
	err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]ports.OutboxRecord, 0, len(recs))
	for _, rec := range recs {
		record, err := toOutboxRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, recordID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("record_id = ?", recordID).
		Update("sent_at", at).Error
}
