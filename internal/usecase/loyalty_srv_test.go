package usecase

import (
	"context"
	"testing"

	"cleaning-service/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoyaltyLedgerAccess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.loyalty.creditOnPayment(ctx, f.client.ID, 270, uuid.New(), "Points for cleaning (1000 CZK)")
	require.NoError(t, err)

	resp, err := f.svc.loyalty.GetLedger(ctx, Actor{ID: f.client.ID, Role: RoleClient}, f.client.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, 270, resp.CurrentCredits)
	assert.Equal(t, 270, resp.TotalEarned)
	require.Len(t, resp.Transactions, 1)

	_, err = f.svc.loyalty.GetLedger(ctx, Actor{ID: uuid.New(), Role: RoleClient}, f.client.ID.String(), nil)
	require.ErrorIs(t, err, ErrAuthorization)

	_, err = f.svc.loyalty.GetLedger(ctx, f.cleaner(f.cleaner1), f.client.ID.String(), nil)
	require.ErrorIs(t, err, ErrAuthorization)

	_, err = f.svc.loyalty.GetLedger(ctx, f.admin, uuid.NewString(), nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoyaltyLedgerWithoutHistory(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.loyalty.GetLedger(context.Background(), f.admin, f.client.ID.String(), &request.PaginatedRequest{Page: 1, PerPage: 5})
	require.NoError(t, err)

	assert.Zero(t, resp.CurrentCredits)
	assert.Empty(t, resp.Transactions)
}

func TestRedeemPoints(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.loyalty.creditOnPayment(ctx, f.client.ID, 300, uuid.New(), "earned")
	require.NoError(t, err)

	resp, err := f.svc.loyalty.Redeem(ctx, f.admin, f.client.ID.String(), &request.RedeemPointsRequest{Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.CurrentCredits)
	assert.Equal(t, 300, resp.TotalEarned)
	assert.Equal(t, 100, resp.TotalSpent)

	_, err = f.svc.loyalty.Redeem(ctx, f.admin, f.client.ID.String(), &request.RedeemPointsRequest{Amount: 500})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "insufficient loyalty balance")
	assert.Equal(t, 200, f.store.ledgers[f.client.ID].CurrentCredits)

	_, err = f.svc.loyalty.Redeem(ctx, f.admin, f.client.ID.String(), &request.RedeemPointsRequest{Amount: 0})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.loyalty.Redeem(ctx, Actor{ID: f.client.ID, Role: RoleClient}, f.client.ID.String(), &request.RedeemPointsRequest{Amount: 10})
	require.ErrorIs(t, err, ErrAuthorization)
}

func TestRecalculateRebuildsFromHistory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.loyalty.creditOnPayment(ctx, f.client.ID, 270, uuid.New(), "earned")
	require.NoError(t, err)
	_, err = f.svc.loyalty.Redeem(ctx, f.admin, f.client.ID.String(), &request.RedeemPointsRequest{Amount: 70})
	require.NoError(t, err)

	// Drift the stored totals away from the history.
	f.store.ledgers[f.client.ID].CurrentCredits = 999
	f.store.ledgers[f.client.ID].TotalEarned = 5

	resp, err := f.svc.loyalty.Recalculate(ctx, f.admin, f.client.ID.String())
	require.NoError(t, err)

	assert.Equal(t, 200, resp.CurrentCredits)
	assert.Equal(t, 270, resp.TotalEarned)
	assert.Equal(t, 70, resp.TotalSpent)
}

func TestReverseForBookingOnlyTouchesThatBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	kept, reversed := uuid.New(), uuid.New()
	_, err := f.svc.loyalty.creditOnPayment(ctx, f.client.ID, 100, kept, "kept")
	require.NoError(t, err)
	_, err = f.svc.loyalty.creditOnPayment(ctx, f.client.ID, 40, reversed, "reversed")
	require.NoError(t, err)

	points, err := f.svc.loyalty.reverseForBooking(ctx, f.client.ID, reversed)
	require.NoError(t, err)

	assert.Equal(t, 40, points)
	assert.Equal(t, 100, f.store.ledgers[f.client.ID].CurrentCredits)
	require.Len(t, f.store.txs, 1)
	assert.Equal(t, kept, *f.store.txs[0].RelatedBookingID)

	points, err = f.svc.loyalty.reverseForBooking(ctx, f.client.ID, reversed)
	require.NoError(t, err)
	assert.Zero(t, points)
}

func TestCreditOnPaymentSkipsZeroPoints(t *testing.T) {
	f := newFixture()

	credited, err := f.svc.loyalty.creditOnPayment(context.Background(), f.client.ID, 0, uuid.New(), "nothing")
	require.NoError(t, err)

	assert.False(t, credited)
	assert.Empty(t, f.store.txs)
	assert.NotContains(t, f.store.ledgers, f.client.ID)
}
