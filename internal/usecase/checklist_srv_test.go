package usecase

import (
	"context"
	"slices"
	"testing"

	"cleaning-service/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSnapshotCopiesTemplate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	template := f.addTemplate("Kitchen", "Bathroom")
	notes := "use the blue cloth"
	template.Rooms[0].Tasks[0].Notes = &notes
	bookingID := uuid.New()

	snapshot, err := f.svc.checklist.CreateSnapshot(ctx, bookingID, template.ID)
	require.NoError(t, err)

	require.Len(t, snapshot, 2)
	assert.Equal(t, "Bathroom", snapshot[0].RoomName)
	assert.Equal(t, "Kitchen", snapshot[1].RoomName)
	for _, room := range snapshot {
		assert.Equal(t, bookingID, room.BookingID)
		assert.False(t, room.IsCompleted)
		assert.Nil(t, room.CompletedAt)
		assert.NotEqual(t, template.Rooms[0].ID, room.ID)
		assert.NotEqual(t, template.Rooms[1].ID, room.ID)
		for _, task := range room.Tasks {
			assert.Equal(t, room.ID, task.BookingRoomID)
		}
	}

	kitchen := snapshot[1]
	require.NotNil(t, kitchen.Tasks[0].Notes)
	assert.Equal(t, notes, *kitchen.Tasks[0].Notes)

	// Editing the template afterwards leaves the copy alone.
	template.Rooms[0].RoomName = "Renamed"
	stored, err := f.svc.checklist.GetSnapshot(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", stored[1].RoomName)
}

func TestCreateSnapshotUnknownTemplate(t *testing.T) {
	f := newFixture()

	_, err := f.svc.checklist.CreateSnapshot(context.Background(), uuid.New(), uuid.New())

	require.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceSnapshotDetachesWithNilTemplate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	template := f.addTemplate("Kitchen", "Hall")
	bookingID := uuid.New()
	_, err := f.svc.checklist.CreateSnapshot(ctx, bookingID, template.ID)
	require.NoError(t, err)

	snapshot, err := f.svc.checklist.ReplaceSnapshot(ctx, bookingID, nil)
	require.NoError(t, err)

	assert.Empty(t, snapshot)
	assert.Empty(t, f.snapshot(bookingID))
}

func TestDeleteSnapshotWithoutRowsSucceeds(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.svc.checklist.DeleteSnapshot(context.Background(), uuid.New()))
}

func TestSnapshotsAreIndependentPerBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	template := f.addTemplate("Kitchen")
	first, second := uuid.New(), uuid.New()

	_, err := f.svc.checklist.CreateSnapshot(ctx, first, template.ID)
	require.NoError(t, err)
	_, err = f.svc.checklist.CreateSnapshot(ctx, second, template.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.checklist.DeleteSnapshot(ctx, first))

	assert.Empty(t, f.snapshot(first))
	assert.Len(t, f.snapshot(second), 1)
}

func TestResetTemplateClearsCompletion(t *testing.T) {
	f := newFixture()
	template := f.addTemplate("Kitchen")
	done := f.clock
	template.Rooms[0].IsCompleted = true
	template.Rooms[0].CompletedAt = &done
	template.Rooms[0].CompletedBy = &f.cleaner1.ID

	require.NoError(t, f.svc.checklist.ResetTemplate(context.Background(), template.ID))

	assert.False(t, template.Rooms[0].IsCompleted)
	assert.Nil(t, template.Rooms[0].CompletedAt)
	assert.Nil(t, template.Rooms[0].CompletedBy)
}

func TestSnapshotKeepsTemplateOrderForEqualSortOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	template := f.addTemplate("Hall", "Kitchen", "Bathroom")
	for _, room := range template.Rooms {
		room.SortOrder = 1
	}
	bookingID := uuid.New()

	snapshot, err := f.svc.checklist.CreateSnapshot(ctx, bookingID, template.ID)
	require.NoError(t, err)

	names := func(s entity.Snapshot) []string {
		out := make([]string, len(s))
		for i, room := range s {
			out[i] = room.RoomName
		}
		return out
	}
	want := []string{"Hall", "Kitchen", "Bathroom"}
	assert.Equal(t, want, names(snapshot))
	for i, room := range snapshot {
		assert.Equal(t, i, room.Position)
	}

	// Storage may hand tied rows back in any order.
	f.store.mu.Lock()
	slices.Reverse(f.store.rooms)
	f.store.mu.Unlock()

	stored, err := f.svc.checklist.GetSnapshot(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, want, names(stored))

	at := f.tick()
	for _, room := range stored {
		room.IsCompleted = true
		room.CompletedAt = &at
	}
	require.NotNil(t, stored.LastCompleted())
	assert.Equal(t, "Hall", stored.LastCompleted().RoomName)
}
