package usecase

import (
	"context"
	"time"

	"cleaning-service/internal/data/entity"
	"cleaning-service/internal/data/repository"
	"cleaning-service/internal/dto/request"
	"cleaning-service/internal/dto/response"
	"cleaning-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LoyaltyService interface {
	GetLedger(ctx context.Context, actor Actor, clientID string, req *request.PaginatedRequest) (*response.LoyaltyLedgerResponse, error)
	Redeem(ctx context.Context, actor Actor, clientID string, req *request.RedeemPointsRequest) (*response.LoyaltyLedgerResponse, error)
	// Recalculate rebuilds the balance from the transaction history.
	Recalculate(ctx context.Context, actor Actor, clientID string) (*response.LoyaltyLedgerResponse, error)
}

type loyaltyService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewLoyaltyService(repo *repository.Repository, log *zap.Logger) LoyaltyService {
	return newLoyaltyService(repo, log)
}

func newLoyaltyService(repo *repository.Repository, log *zap.Logger) *loyaltyService {
	return &loyaltyService{
		repo: repo,
		log:  log.With(zap.String("service", "loyalty")),
		now:  time.Now,
	}
}

func (s *loyaltyService) in(r *repository.Repository) *loyaltyService {
	c := *s
	c.repo = r
	return &c
}

// creditOnPayment appends an earned transaction and raises the balance. A
// second credit for the same booking is ignored and reported as false.
func (s *loyaltyService) creditOnPayment(ctx context.Context, clientID uuid.UUID, points int, bookingID uuid.UUID, description string) (bool, error) {
	if points <= 0 {
		return false, nil
	}

	tx := &entity.LoyaltyTransaction{
		ID:               uuid.New(),
		ClientID:         clientID,
		Amount:           points,
		Type:             entity.LoyaltyEarned,
		Description:      &description,
		RelatedBookingID: &bookingID,
		CreatedAt:        s.now(),
	}

	inserted, err := s.repo.Loyalty.InsertTransaction(ctx, tx)
	if err != nil {
		return false, persistenceError("record earned points", err)
	}
	if !inserted {
		s.log.Warn("Points already credited for booking",
			zap.String("booking_id", bookingID.String()),
			zap.String("client_id", clientID.String()),
		)
		return false, nil
	}

	if err := s.repo.Loyalty.ApplyDelta(ctx, clientID, points, points, 0); err != nil {
		return false, persistenceError("update loyalty balance", err)
	}

	s.log.Info("Loyalty points credited",
		zap.String("booking_id", bookingID.String()),
		zap.String("client_id", clientID.String()),
		zap.Int("points", points),
	)
	return true, nil
}

// reverseForBooking removes the points a booking earned. Balances never go below zero.
func (s *loyaltyService) reverseForBooking(ctx context.Context, clientID, bookingID uuid.UUID) (int, error) {
	removed, err := s.repo.Loyalty.DeleteEarnedForBooking(ctx, bookingID)
	if err != nil {
		return 0, persistenceError("remove earned points", err)
	}

	total := 0
	for _, tx := range removed {
		total += tx.Amount
	}
	if total == 0 {
		return 0, nil
	}

	if err := s.repo.Loyalty.ApplyDelta(ctx, clientID, -total, -total, 0); err != nil {
		return 0, persistenceError("update loyalty balance", err)
	}

	s.log.Info("Loyalty points reversed",
		zap.String("booking_id", bookingID.String()),
		zap.String("client_id", clientID.String()),
		zap.Int("points", total),
	)
	return total, nil
}

func (s *loyaltyService) authorizeClient(actor Actor, clientID string) (uuid.UUID, error) {
	id, err := uuid.Parse(clientID)
	if err != nil {
		return uuid.Nil, validationError("invalid client ID %q", clientID)
	}
	if actor.IsAdmin() || (actor.Role == RoleClient && actor.ID == id) {
		return id, nil
	}
	return uuid.Nil, authorizationError("not allowed to access loyalty account of client %s", id)
}

func (s *loyaltyService) requireClient(ctx context.Context, id uuid.UUID) error {
	client, err := s.repo.Client.FindByID(ctx, id)
	if err != nil {
		return persistenceError("load client", err)
	}
	if client == nil {
		return notFoundError("client %s not found", id)
	}
	return nil
}

func (s *loyaltyService) GetLedger(ctx context.Context, actor Actor, clientID string, req *request.PaginatedRequest) (*response.LoyaltyLedgerResponse, error) {
	id, err := s.authorizeClient(actor, clientID)
	if err != nil {
		return nil, err
	}
	if err := s.requireClient(ctx, id); err != nil {
		return nil, err
	}

	page := request.PaginatedRequest{Page: 1, PerPage: 20}
	if req != nil {
		page = *req
	}
	return s.ledger(ctx, id, page.Limit(), page.Offset())
}

func (s *loyaltyService) ledger(ctx context.Context, clientID uuid.UUID, limit, offset int) (*response.LoyaltyLedgerResponse, error) {
	ledger, err := s.repo.Loyalty.FindLedger(ctx, clientID)
	if err != nil {
		return nil, persistenceError("load loyalty ledger", err)
	}

	txs, err := s.repo.Loyalty.ListTransactions(ctx, clientID, limit, offset)
	if err != nil {
		return nil, persistenceError("load loyalty transactions", err)
	}

	resp := &response.LoyaltyLedgerResponse{
		ClientID:     clientID.String(),
		Transactions: make([]response.LoyaltyTransactionResponse, 0, len(txs)),
	}
	if ledger != nil {
		resp.CurrentCredits = ledger.CurrentCredits
		resp.TotalEarned = ledger.TotalEarned
		resp.TotalSpent = ledger.TotalSpent
	}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, response.LoyaltyTransactionToResponse(tx))
	}
	return resp, nil
}

func (s *loyaltyService) Redeem(ctx context.Context, actor Actor, clientID string, req *request.RedeemPointsRequest) (*response.LoyaltyLedgerResponse, error) {
	if err := requireAdmin(actor, "redeem loyalty points"); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Redeem validation failed", zap.Any("errors", errs))
		return nil, invalidRequest(errs)
	}
	id, err := uuid.Parse(clientID)
	if err != nil {
		return nil, validationError("invalid client ID %q", clientID)
	}

	err = s.repo.Atomic(ctx, func(r *repository.Repository) error {
		tx := s.in(r)
		if err := tx.requireClient(ctx, id); err != nil {
			return err
		}

		ledger, err := r.Loyalty.FindLedgerForUpdate(ctx, id)
		if err != nil {
			return persistenceError("load loyalty ledger", err)
		}
		balance := 0
		if ledger != nil {
			balance = ledger.CurrentCredits
		}
		if balance < req.Amount {
			return validationError("insufficient loyalty balance: %d available, %d requested", balance, req.Amount)
		}

		description := req.Description
		if description == "" {
			description = "Points redeemed"
		}
		if _, err := r.Loyalty.InsertTransaction(ctx, &entity.LoyaltyTransaction{
			ID:          uuid.New(),
			ClientID:    id,
			Amount:      req.Amount,
			Type:        entity.LoyaltyRedeemed,
			Description: &description,
			CreatedAt:   s.now(),
		}); err != nil {
			return persistenceError("record redeemed points", err)
		}

		if err := r.Loyalty.ApplyDelta(ctx, id, -req.Amount, 0, req.Amount); err != nil {
			return persistenceError("update loyalty balance", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Loyalty points redeemed",
		zap.String("client_id", id.String()),
		zap.Int("points", req.Amount),
	)
	return s.ledger(ctx, id, 20, 0)
}

func (s *loyaltyService) Recalculate(ctx context.Context, actor Actor, clientID string) (*response.LoyaltyLedgerResponse, error) {
	if err := requireAdmin(actor, "recalculate loyalty balances"); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(clientID)
	if err != nil {
		return nil, validationError("invalid client ID %q", clientID)
	}

	err = s.repo.Atomic(ctx, func(r *repository.Repository) error {
		if err := s.in(r).requireClient(ctx, id); err != nil {
			return err
		}
		if _, err := r.Loyalty.FindLedgerForUpdate(ctx, id); err != nil {
			return persistenceError("load loyalty ledger", err)
		}

		earned, redeemed, err := r.Loyalty.SumTransactions(ctx, id)
		if err != nil {
			return persistenceError("sum loyalty transactions", err)
		}
		if err := r.Loyalty.SetTotals(ctx, id, earned, redeemed); err != nil {
			return persistenceError("store loyalty totals", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ledger(ctx, id, 20, 0)
}
