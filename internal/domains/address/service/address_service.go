package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recycle-rewards-backend/internal/domains/address"
	"recycle-rewards-backend/pkg/database"
	"recycle-rewards-backend/pkg/logger"
)

type addressService struct {
	repo      address.Repository
	txManager database.TxManager
	now       func() time.Time
}

func NewAddressService(repo address.Repository, txManager database.TxManager) address.Service {
	return &addressService{
		repo:      repo,
		txManager: txManager,
		now:       time.Now,
	}
}

// Create stores a new address. The first address of a user is always primary.
func (s *addressService) Create(ctx context.Context, userID uuid.UUID, req address.CreateRequest) (*address.Address, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	a := &address.Address{
		ID:        uuid.New(),
		UserID:    userID,
		Street:    req.Street,
		Ward:      req.Ward,
		District:  req.District,
		City:      req.City,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsPrimary: req.IsPrimary,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.WithTransaction(ctx, func(tx pgx.Tx) error {
		count, err := s.repo.CountByUserWithTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if count == 0 {
			a.IsPrimary = true
		}
		if a.IsPrimary && count > 0 {
			if err := s.repo.ClearPrimaryWithTx(ctx, tx, userID); err != nil {
				return err
			}
		}
		return s.repo.CreateWithTx(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (s *addressService) GetOwned(ctx context.Context, userID, addressID uuid.UUID) (*address.Address, error) {
	a, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if !a.OwnedBy(userID) {
		return nil, address.ErrAddressForbidden
	}
	return a, nil
}

func (s *addressService) List(ctx context.Context, userID uuid.UUID) ([]address.Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *addressService) Update(ctx context.Context, userID, addressID uuid.UUID, req address.UpdateRequest) (*address.Address, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.GetOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	req.Apply(a)
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the address. When it was primary the newest remaining
// address takes over.
func (s *addressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	a, err := s.GetOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.DeleteWithTx(ctx, tx, addressID, userID); err != nil {
			return err
		}
		if a.IsPrimary {
			return s.repo.PromoteNewestWithTx(ctx, tx, userID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Address deleted", map[string]interface{}{
		"user_id":     userID,
		"address_id":  addressID,
		"was_primary": a.IsPrimary,
	})
	return nil
}

func (s *addressService) SetPrimary(ctx context.Context, userID, addressID uuid.UUID) (*address.Address, error) {
	a, err := s.GetOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if a.IsPrimary {
		return a, nil
	}

	err = s.txManager.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.ClearPrimaryWithTx(ctx, tx, userID); err != nil {
			return err
		}
		return s.repo.SetPrimaryWithTx(ctx, tx, addressID, userID)
	})
	if err != nil {
		return nil, err
	}

	a.IsPrimary = true
	return a, nil
}
