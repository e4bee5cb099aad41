package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/donation/model"
	"recycle-rewards-backend/internal/domains/donation/repository"
	ledgerModel "recycle-rewards-backend/internal/domains/ledger/model"
	notificationModel "recycle-rewards-backend/internal/domains/notification/model"
	notificationService "recycle-rewards-backend/internal/domains/notification/service"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/apperr"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/cache"
	"recycle-rewards-backend/pkg/database"
	"recycle-rewards-backend/pkg/logger"
)

type donationService struct {
	repo          repository.Repository
	txManager     database.TxManager
	categories    CategoryReader
	addresses     AddressReader
	ledger        PointsCrediter
	notifier      notificationService.NotificationService
	verifyLimiter *cache.AttemptLimiter
	codeLength    int
	now           func() time.Time
}

func NewDonationService(
	repo repository.Repository,
	txManager database.TxManager,
	categories CategoryReader,
	addresses AddressReader,
	ledger PointsCrediter,
	notifier notificationService.NotificationService,
	verifyLimiter *cache.AttemptLimiter,
	codeLength int,
) Service {
	return &donationService{
		repo:          repo,
		txManager:     txManager,
		categories:    categories,
		addresses:     addresses,
		ledger:        ledger,
		notifier:      notifier,
		verifyLimiter: verifyLimiter,
		codeLength:    codeLength,
		now:           time.Now,
	}
}

// ========================================
// LIFECYCLE
// ========================================

func (s *donationService) Create(ctx context.Context, donorID uuid.UUID, req model.CreateRequest) (*model.DonationRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 1. Category must exist and accept new requests
	if _, err := s.categories.GetActive(ctx, req.WasteCategoryID); err != nil {
		return nil, err
	}

	// 2. Pickup address must be the donor's own
	if _, err := s.addresses.GetOwned(ctx, donorID, req.AddressID); err != nil {
		return nil, err
	}

	now := s.now()
	images := req.ImageURLs
	if images == nil {
		images = []string{}
	}
	d := &model.DonationRequest{
		ID:              uuid.New(),
		DonorID:         donorID,
		WasteCategoryID: req.WasteCategoryID,
		AddressID:       req.AddressID,
		EstimatedWeight: req.EstimatedWeight,
		Status:          model.StatusPending,
		Notes:           req.Notes,
		ImageURLs:       images,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	logger.Info("Donation request created", map[string]interface{}{
		"request_id": d.ID,
		"donor_id":   donorID,
		"weight":     d.EstimatedWeight.String(),
	})

	return s.repo.GetByID(ctx, d.ID)
}

// Accept assigns the request to collectorID and issues the pickup code.
// Of two concurrent accepts exactly one succeeds; the other gets ErrInvalidTransition.
func (s *donationService) Accept(ctx context.Context, collectorID, requestID uuid.UUID) (*model.DonationRequest, error) {
	d, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(d.Status, model.StatusAccepted) {
		return nil, model.ErrInvalidTransition
	}

	code, err := model.GenerateVerificationCode(s.codeLength)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.AcceptWithTx(ctx, tx, requestID); err != nil {
			return err
		}

		collection := &model.Collection{
			ID:                uuid.New(),
			DonationRequestID: requestID,
			CollectorID:       collectorID,
			VerificationCode:  code,
			ImageURLs:         []string{},
			CreatedAt:         s.now(),
		}
		if err := s.repo.CreateCollectionWithTx(ctx, tx, collection); err != nil {
			return err
		}

		return s.notifier.NotifyWithTx(ctx, tx, notificationModel.New(
			d.DonorID,
			notificationModel.TypeDonationAccepted,
			"Pickup accepted",
			fmt.Sprintf("A collector accepted your %s pickup. Share your verification code when they arrive.", d.CategoryName),
			&requestID,
		))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Donation request accepted", map[string]interface{}{
		"request_id":   requestID,
		"collector_id": collectorID,
	})

	accepted, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	view := accepted.WithoutCode()
	return &view, nil
}

// Cancel is allowed to the owning donor and admins while the request is
// PENDING or ACCEPTED. No points move.
func (s *donationService) Cancel(ctx context.Context, actor shared.Actor, requestID uuid.UUID, req model.CancelRequest) (*model.DonationRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if d.DonorID != actor.UserID && !actor.IsAdmin() {
		return nil, model.ErrNotRequestOwner
	}
	if !model.CanTransition(d.Status, model.StatusCancelled) {
		return nil, model.ErrInvalidTransition
	}

	var cancelled *model.Cancellation
	err = s.txManager.WithTransaction(ctx, func(tx pgx.Tx) error {
		// d.Status may be stale; the repository reports the state it replaced.
		c, err := s.repo.CancelWithTx(ctx, tx, requestID, actor.UserID, req.Reason)
		if err != nil {
			return err
		}
		cancelled = c
		if c.From != model.StatusAccepted || c.CollectorID == nil {
			return nil
		}

		msg := fmt.Sprintf("The %s pickup you accepted was cancelled.", d.CategoryName)
		if req.Reason != nil && *req.Reason != "" {
			msg += " Reason: " + *req.Reason
		}
		return s.notifier.NotifyWithTx(ctx, tx, notificationModel.New(
			*c.CollectorID,
			notificationModel.TypeDonationCancelled,
			"Pickup cancelled",
			msg,
			&requestID,
		))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Donation request cancelled", map[string]interface{}{
		"request_id": requestID,
		"actor_id":   actor.UserID,
		"from":       cancelled.From,
	})

	return s.viewFor(ctx, actor, requestID)
}

// Complete records the weighed pickup and credits the donor
// round(actualWeight x pointsPerKg) points in the same transaction.
func (s *donationService) Complete(ctx context.Context, collectorID, requestID uuid.UUID, req model.CompleteRequest) (*model.DonationRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(d.Status, model.StatusCompleted) {
		return nil, model.ErrInvalidTransition
	}
	if !d.IsAssignedTo(collectorID) {
		return nil, model.ErrNotAssignedCollector
	}

	if err := s.checkCode(ctx, d, req.VerificationCode); err != nil {
		return nil, err
	}

	cat, err := s.categories.GetByID(ctx, d.WasteCategoryID)
	if err != nil {
		return nil, err
	}
	points := cat.PointsFor(req.ActualWeight)
	now := s.now()

	err = s.txManager.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.CompleteWithTx(ctx, tx, requestID, req.ActualWeight, now); err != nil {
			return err
		}

		collection := *d.Collection
		collection.ActualWeight = &req.ActualWeight
		collection.PointsAwarded = &points
		collection.CollectedAt = &now
		if req.Notes != nil {
			collection.Notes = req.Notes
		}
		if req.ImageURLs != nil {
			collection.ImageURLs = req.ImageURLs
		}
		if err := s.repo.UpdateCollectionWithTx(ctx, tx, &collection); err != nil {
			return err
		}

		// A credit needs amount > 0; a tiny pickup still completes.
		if points > 0 {
			_, err := s.ledger.CreditWithTx(ctx, tx, ledgerModel.EntryRequest{
				UserID:      d.DonorID,
				Amount:      points,
				Description: fmt.Sprintf("Donation completed: %s kg %s", req.ActualWeight.String(), cat.Name),
				RelatedID:   &requestID,
			})
			if err != nil {
				return err
			}
		}

		return s.notifier.NotifyWithTx(ctx, tx, notificationModel.New(
			d.DonorID,
			notificationModel.TypeDonationCompleted,
			"Pickup completed",
			fmt.Sprintf("Your %s kg of %s was collected. You earned %d points.", req.ActualWeight.String(), cat.Name, points),
			&requestID,
		))
	})
	if err != nil {
		return nil, err
	}

	if err := s.verifyLimiter.Reset(ctx, requestID.String()); err != nil {
		logger.Warn("Failed to reset verification attempts", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}

	logger.Info("Donation request completed", map[string]interface{}{
		"request_id":    requestID,
		"collector_id":  collectorID,
		"actual_weight": req.ActualWeight.String(),
		"points":        points,
	})

	completed, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	view := completed.WithoutCode()
	return &view, nil
}

// checkCode enforces the attempt lock before comparing the code.
func (s *donationService) checkCode(ctx context.Context, d *model.DonationRequest, given string) error {
	subject := d.ID.String()

	locked, ttl, err := s.verifyLimiter.Locked(ctx, subject)
	if err != nil {
		return fmt.Errorf("check verification lock: %w", err)
	}
	if locked {
		return model.ErrTooManyAttempts.WithMessage("Too many wrong verification codes, try again in %d minutes", minutesCeil(ttl))
	}

	if model.CodeMatches(d.Collection.VerificationCode, given) {
		return nil
	}

	remaining, err := s.verifyLimiter.Fail(ctx, subject)
	if err != nil {
		logger.Warn("Failed to record verification attempt", map[string]interface{}{
			"request_id": d.ID,
			"error":      err.Error(),
		})
		return model.ErrInvalidCode
	}

	logger.Warn("Wrong verification code", map[string]interface{}{
		"request_id": d.ID,
		"remaining":  remaining,
	})
	if remaining == 0 {
		return model.ErrTooManyAttempts
	}
	return model.ErrInvalidCode.WithMessage("Verification code does not match, %d attempts remaining", remaining)
}

func minutesCeil(d time.Duration) int {
	m := int((d + time.Minute - 1) / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}

// ========================================
// READS
// ========================================

// Browse shows collectors the PENDING feed; admins may filter any status.
func (s *donationService) Browse(ctx context.Context, actor shared.Actor, q model.ListQuery) (*model.ListResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	p := utils.Pagination{Page: q.Page, Limit: q.Limit}.Normalize()
	filter := model.ListFilter{
		Status:     q.Status,
		CategoryID: q.CategoryID,
		Near:       q.Near(),
		Limit:      p.Limit,
		Offset:     p.Offset(),
	}
	if !actor.IsAdmin() {
		pending := model.StatusPending
		filter.Status = &pending
	}

	return s.list(ctx, filter, true)
}

func (s *donationService) ListMyRequests(ctx context.Context, donorID uuid.UUID, status *model.Status, page, limit int) (*model.ListResponse, error) {
	if status != nil && !status.IsValid() {
		return nil, model.ErrInvalidStatus
	}
	p := utils.Pagination{Page: page, Limit: limit}.Normalize()

	return s.list(ctx, model.ListFilter{
		Status:  status,
		DonorID: &donorID,
		Limit:   p.Limit,
		Offset:  p.Offset(),
	}, false)
}

func (s *donationService) ListMyCollections(ctx context.Context, collectorID uuid.UUID, status *model.Status, page, limit int) (*model.ListResponse, error) {
	if status != nil && !status.IsValid() {
		return nil, model.ErrInvalidStatus
	}
	p := utils.Pagination{Page: page, Limit: limit}.Normalize()

	return s.list(ctx, model.ListFilter{
		Status:      status,
		CollectorID: &collectorID,
		Limit:       p.Limit,
		Offset:      p.Offset(),
	}, true)
}

func (s *donationService) list(ctx context.Context, filter model.ListFilter, hideCode bool) (*model.ListResponse, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if hideCode {
		for i := range items {
			items[i] = items[i].WithoutCode()
		}
	}
	return &model.ListResponse{Requests: items, Total: total}, nil
}

func (s *donationService) GetByID(ctx context.Context, actor shared.Actor, requestID uuid.UUID) (*model.DonationRequest, error) {
	return s.viewFor(ctx, actor, requestID)
}

// viewFor applies read visibility. Only the donor sees the verification code.
func (s *donationService) viewFor(ctx context.Context, actor shared.Actor, requestID uuid.UUID) (*model.DonationRequest, error) {
	d, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	switch {
	case d.DonorID == actor.UserID:
		return d, nil
	case actor.IsAdmin(),
		d.IsAssignedTo(actor.UserID),
		actor.Role == shared.RoleCollector && d.Status == model.StatusPending:
		view := d.WithoutCode()
		return &view, nil
	}
	return nil, model.ErrRequestNotVisible
}

func (s *donationService) Stats(ctx context.Context, actor shared.Actor) (*model.StatsResponse, error) {
	resp := &model.StatsResponse{Role: actor.Role.String()}

	switch actor.Role {
	case shared.RoleDonor:
		stats, err := s.repo.DonorStats(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		resp.Donor = stats
	case shared.RoleCollector:
		stats, err := s.repo.CollectorStats(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		resp.Collector = stats
	case shared.RoleAdmin:
		counts, err := s.repo.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		resp.ByStatus = make(map[model.Status]int64, len(counts))
		for status, n := range counts {
			resp.ByStatus[model.Status(status)] = n
		}
	default:
		return nil, apperr.ErrForbidden
	}
	return resp, nil
}

func (s *donationService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx)
}
