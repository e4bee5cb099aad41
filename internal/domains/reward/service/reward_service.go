package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	ledgerModel "recycle-rewards-backend/internal/domains/ledger/model"
	notificationModel "recycle-rewards-backend/internal/domains/notification/model"
	notificationService "recycle-rewards-backend/internal/domains/notification/service"
	"recycle-rewards-backend/internal/domains/reward/model"
	"recycle-rewards-backend/internal/domains/reward/repository"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/database"
	"recycle-rewards-backend/pkg/logger"
)

type rewardService struct {
	repo      repository.Repository
	txManager database.TxManager
	points    PointsSpender
	notifier  notificationService.NotificationService
	now       func() time.Time
}

func NewRewardService(
	repo repository.Repository,
	txManager database.TxManager,
	points PointsSpender,
	notifier notificationService.NotificationService,
) Service {
	return &rewardService{
		repo:      repo,
		txManager: txManager,
		points:    points,
		notifier:  notifier,
		now:       time.Now,
	}
}

// ========================================
// CATALOG
// ========================================

func (s *rewardService) List(ctx context.Context, includeInactive bool) ([]model.Reward, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *rewardService) GetByID(ctx context.Context, id uuid.UUID) (*model.Reward, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *rewardService) Create(ctx context.Context, req model.CreateRewardRequest) (*model.Reward, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	rw := &model.Reward{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		PointsCost:  req.PointsCost,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, rw); err != nil {
		return nil, err
	}

	logger.Info("Reward created", map[string]interface{}{
		"reward_id":   rw.ID,
		"points_cost": rw.PointsCost,
		"stock":       rw.Stock,
	})
	return rw, nil
}

func (s *rewardService) Update(ctx context.Context, id uuid.UUID, req model.UpdateRewardRequest) (*model.Reward, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rw, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(rw)
	rw.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, rw); err != nil {
		return nil, err
	}
	return rw, nil
}

// Deactivate hides the reward; past redemptions keep referencing it.
func (s *rewardService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, false)
}

// ========================================
// REDEMPTION
// ========================================

func (s *rewardService) Redeem(ctx context.Context, userID, rewardID uuid.UUID) (*model.RedeemResponse, error) {
	// 1. Pre-checks for precise errors. The guards below decide races.
	rw, err := s.repo.GetByID(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	if !rw.IsActive {
		return nil, model.ErrRewardInactive
	}
	if rw.Stock <= 0 {
		return nil, model.ErrOutOfStock
	}

	balance, err := s.points.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < rw.PointsCost {
		return nil, ledgerModel.ErrInsufficientBalance.WithMessage(
			"Insufficient points balance: have %d, need %d", balance, rw.PointsCost)
	}

	// 2. Stock, ledger, redemption row and notification commit together.
	// A failed debit rolls the stock decrement back.
	resp, err := database.WithTransactionResult(ctx, s.txManager, func(tx pgx.Tx) (*model.RedeemResponse, error) {
		cost, remaining, err := s.repo.TakeOneWithTx(ctx, tx, rewardID)
		if err != nil {
			return nil, err
		}

		entry, err := s.points.DebitWithTx(ctx, tx, ledgerModel.EntryRequest{
			UserID:      userID,
			Amount:      cost,
			Description: fmt.Sprintf("Redeemed reward: %s", rw.Name),
			RelatedID:   &rewardID,
		})
		if err != nil {
			return nil, err
		}

		redemption := model.Redemption{
			ID:            uuid.New(),
			UserID:        userID,
			RewardID:      rewardID,
			RewardName:    rw.Name,
			TransactionID: entry.ID,
			PointsSpent:   cost,
			Status:        model.RedemptionStatusRedeemed,
			CreatedAt:     s.now(),
		}
		if err := s.repo.CreateRedemptionWithTx(ctx, tx, &redemption); err != nil {
			return nil, err
		}

		err = s.notifier.NotifyWithTx(ctx, tx, notificationModel.New(
			userID,
			notificationModel.TypeRewardRedeemed,
			"Reward redeemed",
			fmt.Sprintf("You redeemed %s for %d points. Remaining balance: %d.", rw.Name, cost, entry.BalanceAfter),
			&redemption.ID,
		))
		if err != nil {
			return nil, err
		}

		return &model.RedeemResponse{
			Redemption:     redemption,
			Balance:        entry.BalanceAfter,
			RemainingStock: remaining,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.repo.InvalidateList(ctx)

	logger.Info("Reward redeemed", map[string]interface{}{
		"user_id":   userID,
		"reward_id": rewardID,
		"points":    resp.Redemption.PointsSpent,
		"balance":   resp.Balance,
	})
	return resp, nil
}

func (s *rewardService) MyRedemptions(ctx context.Context, userID uuid.UUID, page, limit int) (*model.RedemptionListResponse, error) {
	p := utils.Pagination{Page: page, Limit: limit}.Normalize()

	items, total, err := s.repo.ListRedemptions(ctx, model.RedemptionFilter{
		UserID: userID,
		Limit:  p.Limit,
		Offset: p.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &model.RedemptionListResponse{Redemptions: items, Total: total}, nil
}
