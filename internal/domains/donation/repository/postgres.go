package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"recycle-rewards-backend/internal/domains/donation/model"
	"recycle-rewards-backend/internal/shared/apperr"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/location"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const requestSelect = `
	SELECT
		d.id, d.donor_id, d.waste_category_id, d.address_id, d.estimated_weight, d.actual_weight,
		d.status, d.notes, d.image_urls, d.cancel_reason, d.cancelled_by, d.cancelled_at,
		d.completed_at, d.created_at, d.updated_at,
		wc.name, wc.points_per_kg, du.full_name,
		a.street, a.ward, a.district, a.city, a.latitude, a.longitude,
		c.id, c.collector_id, cu.full_name, c.verification_code, c.actual_weight,
		c.points_awarded, c.notes, c.image_urls, c.collected_at, c.created_at
	FROM donation_requests d
	JOIN waste_categories wc ON wc.id = d.waste_category_id
	JOIN users du ON du.id = d.donor_id
	JOIN addresses a ON a.id = d.address_id
	LEFT JOIN collections c ON c.donation_request_id = d.id
	LEFT JOIN users cu ON cu.id = c.collector_id`

const requestFrom = `
	FROM donation_requests d
	JOIN addresses a ON a.id = d.address_id
	LEFT JOIN collections c ON c.donation_request_id = d.id`

func scanRequest(row pgx.Row) (*model.DonationRequest, error) {
	var (
		r    model.DonationRequest
		addr model.AddressView

		collID, collectorID      *uuid.UUID
		collectorName, code      *string
		collWeight               *decimal.Decimal
		collPoints               *int
		collNotes                *string
		collImages               []string
		collectedAt, collCreated *time.Time
	)

	err := row.Scan(
		&r.ID, &r.DonorID, &r.WasteCategoryID, &r.AddressID, &r.EstimatedWeight, &r.ActualWeight,
		&r.Status, &r.Notes, &r.ImageURLs, &r.CancelReason, &r.CancelledBy, &r.CancelledAt,
		&r.CompletedAt, &r.CreatedAt, &r.UpdatedAt,
		&r.CategoryName, &r.PointsPerKg, &r.DonorName,
		&addr.Street, &addr.Ward, &addr.District, &addr.City, &addr.Latitude, &addr.Longitude,
		&collID, &collectorID, &collectorName, &code, &collWeight,
		&collPoints, &collNotes, &collImages, &collectedAt, &collCreated,
	)
	if err != nil {
		return nil, err
	}
	r.Address = &addr

	if collID != nil {
		c := &model.Collection{
			ID:                *collID,
			DonationRequestID: r.ID,
			CollectorID:       *collectorID,
			ActualWeight:      collWeight,
			PointsAwarded:     collPoints,
			Notes:             collNotes,
			ImageURLs:         collImages,
			CollectedAt:       collectedAt,
		}
		if collectorName != nil {
			c.CollectorName = *collectorName
		}
		if code != nil {
			c.VerificationCode = *code
		}
		if collCreated != nil {
			c.CreatedAt = *collCreated
		}
		r.Collection = c
	}
	return &r, nil
}

func (r *postgresRepository) Create(ctx context.Context, d *model.DonationRequest) error {
	query := `
		INSERT INTO donation_requests
			(id, donor_id, waste_category_id, address_id, estimated_weight, status, notes, image_urls, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		d.ID, d.DonorID, d.WasteCategoryID, d.AddressID, d.EstimatedWeight,
		d.Status, d.Notes, d.ImageURLs, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create donation request: %w", apperr.FromPg(err, nil))
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DonationRequest, error) {
	d, err := scanRequest(r.pool.QueryRow(ctx, requestSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRequestNotFound
		}
		return nil, fmt.Errorf("get donation request: %w", err)
	}
	return d, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.DonationRequest, int64, error) {
	where := utils.NewWhereBuilder()
	if filter.Status != nil {
		where.Add("d.status = $%d", string(*filter.Status))
	}
	if filter.CategoryID != nil {
		where.Add("d.waste_category_id = $%d", *filter.CategoryID)
	}
	if filter.DonorID != nil {
		where.Add("d.donor_id = $%d", *filter.DonorID)
	}
	if filter.CollectorID != nil {
		where.Add("c.collector_id = $%d", *filter.CollectorID)
	}
	if n := filter.Near; n != nil {
		box := location.BoundingBox(n.Center, n.RadiusKm)
		where.Add("a.latitude BETWEEN $%d AND $%d", box.MinLat, box.MaxLat)
		where.Add("a.longitude BETWEEN $%d AND $%d", box.MinLng, box.MaxLng)
		where.Add(`2 * 6371 * ASIN(SQRT(
			POWER(SIN(RADIANS(a.latitude - $%d::float8) / 2), 2) +
			COS(RADIANS($%d::float8)) * COS(RADIANS(a.latitude)) *
			POWER(SIN(RADIANS(a.longitude - $%d::float8) / 2), 2))) <= $%d::float8`,
			n.Center.Lat, n.Center.Lat, n.Center.Lng, n.RadiusKm)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+requestFrom+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count donation requests: %w", err)
	}

	next := where.Next()
	query := fmt.Sprintf(`%s%s ORDER BY d.created_at DESC, d.id LIMIT $%d OFFSET $%d`,
		requestSelect, where.SQL(), next, next+1)
	args := append(where.Args(), filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list donation requests: %w", err)
	}
	defer rows.Close()

	items := make([]model.DonationRequest, 0, filter.Limit)
	for rows.Next() {
		d, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan donation request: %w", err)
		}
		items = append(items, *d)
	}
	return items, total, rows.Err()
}

// guardMiss turns a zero-row guarded update into NotFound or a lost race.
func (r *postgresRepository) guardMiss(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM donation_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("probe donation request: %w", err)
	}
	if !exists {
		return model.ErrRequestNotFound
	}
	return model.ErrInvalidTransition
}

func (r *postgresRepository) AcceptWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	result, err := tx.Exec(ctx, `
		UPDATE donation_requests
		SET status = 'ACCEPTED', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`, id)
	if err != nil {
		return fmt.Errorf("accept donation request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return r.guardMiss(ctx, tx, id)
	}
	return nil
}

func (r *postgresRepository) CancelWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, by uuid.UUID, reason *string) (*model.Cancellation, error) {
	var from string
	err := tx.QueryRow(ctx, `
		WITH prior AS (
			SELECT id, status FROM donation_requests WHERE id = $1 FOR UPDATE
		)
		UPDATE donation_requests d
		SET status = 'CANCELLED', cancel_reason = $2, cancelled_by = $3, cancelled_at = NOW(), updated_at = NOW()
		FROM prior
		WHERE d.id = prior.id AND prior.status IN ('PENDING', 'ACCEPTED')
		RETURNING prior.status
	`, id, reason, by).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.guardMiss(ctx, tx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("cancel donation request: %w", err)
	}

	out := &model.Cancellation{From: model.Status(from)}
	if out.From != model.StatusAccepted {
		return out, nil
	}

	// New statement, new snapshot: sees a collection committed while we waited on the lock.
	var collectorID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT collector_id FROM collections WHERE donation_request_id = $1`, id).Scan(&collectorID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return out, nil
	case err != nil:
		return nil, fmt.Errorf("load collector of cancelled request: %w", err)
	}
	out.CollectorID = &collectorID
	return out, nil
}

func (r *postgresRepository) CompleteWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, actualWeight decimal.Decimal, at time.Time) error {
	result, err := tx.Exec(ctx, `
		UPDATE donation_requests
		SET status = 'COMPLETED', actual_weight = $2, completed_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'ACCEPTED'
	`, id, actualWeight, at)
	if err != nil {
		return fmt.Errorf("complete donation request: %w", apperr.FromPg(err, nil))
	}
	if result.RowsAffected() == 0 {
		return r.guardMiss(ctx, tx, id)
	}
	return nil
}

func (r *postgresRepository) CreateCollectionWithTx(ctx context.Context, tx pgx.Tx, c *model.Collection) error {
	query := `
		INSERT INTO collections (id, donation_request_id, collector_id, verification_code, image_urls, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	images := c.ImageURLs
	if images == nil {
		images = []string{}
	}
	_, err := tx.Exec(ctx, query, c.ID, c.DonationRequestID, c.CollectorID, c.VerificationCode, images, c.CreatedAt)
	if err != nil {
		// collections_request_key: someone else already holds the pickup
		return fmt.Errorf("create collection: %w", apperr.FromPg(err, model.ErrInvalidTransition))
	}
	return nil
}

func (r *postgresRepository) UpdateCollectionWithTx(ctx context.Context, tx pgx.Tx, c *model.Collection) error {
	query := `
		UPDATE collections
		SET actual_weight = $2, points_awarded = $3, notes = $4, image_urls = $5, collected_at = $6
		WHERE id = $1
	`

	images := c.ImageURLs
	if images == nil {
		images = []string{}
	}
	result, err := tx.Exec(ctx, query, c.ID, c.ActualWeight, c.PointsAwarded, c.Notes, images, c.CollectedAt)
	if err != nil {
		return fmt.Errorf("update collection: %w", apperr.FromPg(err, nil))
	}
	if result.RowsAffected() == 0 {
		return model.ErrRequestNotFound
	}
	return nil
}

func (r *postgresRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return r.countByStatus(ctx, `SELECT status, COUNT(*) FROM donation_requests GROUP BY status`)
}

func (r *postgresRepository) countByStatus(ctx context.Context, query string, args ...interface{}) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (r *postgresRepository) DonorStats(ctx context.Context, donorID uuid.UUID) (*model.DonorStats, error) {
	counts, err := r.countByStatus(ctx,
		`SELECT status, COUNT(*) FROM donation_requests WHERE donor_id = $1 GROUP BY status`, donorID)
	if err != nil {
		return nil, err
	}

	stats := &model.DonorStats{ByStatus: make(map[model.Status]int64, len(counts))}
	for status, n := range counts {
		stats.ByStatus[model.Status(status)] = n
	}

	query := `
		SELECT COALESCE(SUM(d.actual_weight), 0), COALESCE(SUM(c.points_awarded), 0)
		FROM donation_requests d
		JOIN collections c ON c.donation_request_id = d.id
		WHERE d.donor_id = $1 AND d.status = 'COMPLETED'
	`
	if err := r.pool.QueryRow(ctx, query, donorID).Scan(&stats.TotalWeight, &stats.TotalPoints); err != nil {
		return nil, fmt.Errorf("donor totals: %w", err)
	}
	return stats, nil
}

func (r *postgresRepository) CollectorStats(ctx context.Context, collectorID uuid.UUID) (*model.CollectorStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE d.status = 'ACCEPTED'),
			COUNT(*) FILTER (WHERE d.status = 'COMPLETED'),
			COALESCE(SUM(c.actual_weight) FILTER (WHERE d.status = 'COMPLETED'), 0)
		FROM collections c
		JOIN donation_requests d ON d.id = c.donation_request_id
		WHERE c.collector_id = $1
	`

	var stats model.CollectorStats
	if err := r.pool.QueryRow(ctx, query, collectorID).Scan(&stats.Accepted, &stats.Completed, &stats.TotalWeight); err != nil {
		return nil, fmt.Errorf("collector stats: %w", err)
	}
	return &stats, nil
}

func (r *postgresRepository) ListCompleted(ctx context.Context, filter model.ExportFilter) ([]model.ExportRow, error) {
	where := utils.NewWhereBuilder()
	where.AddRaw("d.status = 'COMPLETED'")
	if !filter.From.IsZero() {
		where.Add("d.completed_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		where.Add("d.completed_at < $%d", filter.To)
	}

	query := `
		SELECT d.id, d.completed_at, du.email, cu.email, wc.name,
			d.estimated_weight, d.actual_weight, COALESCE(c.points_awarded, 0), a.city, a.district
		FROM donation_requests d
		JOIN collections c ON c.donation_request_id = d.id
		JOIN users du ON du.id = d.donor_id
		JOIN users cu ON cu.id = c.collector_id
		JOIN waste_categories wc ON wc.id = d.waste_category_id
		JOIN addresses a ON a.id = d.address_id` + where.SQL() + `
		ORDER BY d.completed_at
	`

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list completed collections: %w", err)
	}
	defer rows.Close()

	var out []model.ExportRow
	for rows.Next() {
		var row model.ExportRow
		if err := rows.Scan(
			&row.RequestID, &row.CompletedAt, &row.DonorEmail, &row.CollectorEmail, &row.CategoryName,
			&row.EstimatedWeight, &row.ActualWeight, &row.PointsAwarded, &row.City, &row.District,
		); err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
