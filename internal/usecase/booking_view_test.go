package usecase

import (
	"context"
	"testing"
	"time"

	"cleaning-service/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingViewCrewSkipsUnknownMembers(t *testing.T) {
	f := newFixture()
	b := f.addBooking(entity.BookingStatusApproved, 1000)
	b.TeamMemberIDs = []uuid.UUID{f.cleaner1.ID, uuid.New()}

	view, err := f.svc.GetBooking(context.Background(), f.admin, b.ID.String())
	require.NoError(t, err)

	require.Len(t, view.Crew, 1)
	assert.Equal(t, f.cleaner1.Name, view.Crew[0].Name)
	assert.Len(t, view.TeamMemberIDs, 2)
}

func TestBookingViewAggregate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.addBooking(entity.BookingStatusCompleted, 2000)
	b.TeamMemberIDs = []uuid.UUID{f.cleaner1.ID, f.cleaner2.ID}
	b.Details.LeadCleanerID = &f.cleaner2.ID
	started := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	completed := started.Add(2*time.Hour + 30*time.Minute)
	b.StartedAt, b.CompletedAt = &started, &completed

	f.store.earnings = append(f.store.earnings,
		&entity.JobEarning{BaseSimple: entity.BaseSimple{ID: uuid.New()}, BookingID: b.ID, TeamMemberID: f.cleaner1.ID, Amount: 300},
		&entity.JobEarning{BaseSimple: entity.BaseSimple{ID: uuid.New()}, BookingID: b.ID, TeamMemberID: f.cleaner2.ID, Amount: 250},
	)
	comment := "Spotless"
	f.store.feedback = append(f.store.feedback, &entity.Feedback{BookingID: b.ID, ClientID: f.client.ID, Rating: 5, Comment: &comment})

	early, late := started.Add(30*time.Minute), started.Add(90*time.Minute)
	f.store.rooms = append(f.store.rooms,
		&entity.BookingRoom{BaseSimple: entity.BaseSimple{ID: uuid.New()}, BookingID: b.ID, RoomName: "Hall", SortOrder: 2, IsCompleted: true, CompletedAt: &early},
		&entity.BookingRoom{BaseSimple: entity.BaseSimple{ID: uuid.New()}, BookingID: b.ID, RoomName: "Kitchen", SortOrder: 1, IsCompleted: true, CompletedAt: &late},
	)

	view, err := f.svc.GetBooking(ctx, f.admin, b.ID.String())
	require.NoError(t, err)

	assert.Equal(t, 2000.0, view.DisplayPrice)
	assert.Equal(t, 540, view.DisplayPoints)
	assert.Equal(t, 550.0, view.DisplayTeamReward)
	require.NotNil(t, view.Client)
	assert.Equal(t, f.client.Name, view.Client.Name)
	assert.Len(t, view.Crew, 2)
	require.NotNil(t, view.LeadCleanerID)
	assert.Equal(t, f.cleaner2.ID.String(), *view.LeadCleanerID)

	require.Len(t, view.Rooms, 2)
	assert.Equal(t, "Kitchen", view.Rooms[0].RoomName)
	assert.Equal(t, entity.Progress{Completed: 2, Total: 2, Percentage: 100}, view.Progress)
	require.NotNil(t, view.LastCompletedRoom)
	assert.Equal(t, "Kitchen", view.LastCompletedRoom.RoomName)

	require.NotNil(t, view.RealDuration)
	assert.Equal(t, 150, view.RealDuration.Minutes)
	assert.Equal(t, "2 h 30 min", view.RealDuration.Formatted)

	assert.Equal(t, 2, view.Estimate.CrewSize)
	assert.Equal(t, 4.0, view.Estimate.TotalHours)

	require.NotNil(t, view.Feedback)
	assert.Equal(t, 5, view.Feedback.Rating)
	assert.Nil(t, view.Invoice)
}

func TestBookingViewWithoutPriceOrRooms(t *testing.T) {
	f := newFixture()
	b := f.addBooking(entity.BookingStatusPending, 0)
	b.Details.PriceEstimate.Price = nil

	view, err := f.svc.GetBooking(context.Background(), f.admin, b.ID.String())
	require.NoError(t, err)

	assert.Zero(t, view.DisplayPrice)
	assert.Zero(t, view.DisplayPoints)
	assert.Empty(t, view.Rooms)
	assert.Equal(t, entity.Progress{}, view.Progress)
	assert.Nil(t, view.LastCompletedRoom)
	assert.Nil(t, view.RealDuration)
	assert.Zero(t, view.Estimate.TotalHours)
}
