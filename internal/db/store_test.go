package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/db"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/model"
)

func newSchedule(tenantID, name string, isDefault bool) model.ContentSchedule {
	now := time.Now().UTC()
	return model.ContentSchedule{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      name,
		IsActive:  true,
		IsDefault: isDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newContent(t *testing.T, store db.Store, tenantID, title string) model.ContentItem {
	t.Helper()
	now := time.Now().UTC()
	item, err := store.CreateContentItem(context.Background(), model.ContentItem{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Title:     title,
		Type:      model.ContentTypeAnnouncement,
		Duration:  15,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return item
}

func items(scheduleID string, contentIDs ...string) []model.ScheduleItem {
	out := make([]model.ScheduleItem, len(contentIDs))
	for i, id := range contentIDs {
		out[i] = model.ScheduleItem{
			ID:            uuid.NewString(),
			ScheduleID:    scheduleID,
			ContentItemID: id,
			Order:         i,
			CreatedAt:     time.Now().UTC(),
		}
	}
	return out
}

func TestScheduleStore(t *testing.T) {
	ctx := context.Background()
	store, _ := db.OpenTestStore(t)
	const tenant = "masjid-a"

	first := newSchedule(tenant, "Jumuah", true)
	require.NoError(t, store.InsertSchedule(ctx, first))

	t.Run("second default is rejected by the unique index", func(t *testing.T) {
		err := store.InsertSchedule(ctx, newSchedule(tenant, "Ramadan", true))
		assert.ErrorIs(t, err, db.ErrDefaultConflict)

		n, err := store.CountSchedules(ctx, tenant)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("default schedules of other tenants do not conflict", func(t *testing.T) {
		assert.NoError(t, store.InsertSchedule(ctx, newSchedule("masjid-b", "Jumuah", true)))
	})

	t.Run("schedules are tenant scoped", func(t *testing.T) {
		_, err := store.GetSchedule(ctx, "masjid-b", first.ID)
		assert.ErrorIs(t, err, db.ErrNotFound)

		err = store.DeleteSchedule(ctx, "masjid-b", first.ID)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("replace items keeps order and replaces everything", func(t *testing.T) {
		a := newContent(t, store, tenant, "Eid prayer times")
		b := newContent(t, store, tenant, "Fundraiser")

		require.NoError(t, store.ReplaceScheduleItems(ctx, first.ID, items(first.ID, a.ID, b.ID)))
		got, err := store.GetSchedule(ctx, tenant, first.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 2)
		assert.Equal(t, a.ID, got.Items[0].ContentItemID)
		assert.Equal(t, b.ID, got.Items[1].ContentItemID)

		require.NoError(t, store.ReplaceScheduleItems(ctx, first.ID, items(first.ID, b.ID)))
		got, err = store.GetSchedule(ctx, tenant, first.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, b.ID, got.Items[0].ContentItemID)
		assert.Equal(t, 0, got.Items[0].Order)

		require.NoError(t, store.ReplaceScheduleItems(ctx, first.ID, nil))
		got, err = store.GetSchedule(ctx, tenant, first.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Items)
	})

	t.Run("swap default moves the flag and activates the target", func(t *testing.T) {
		other := newSchedule(tenant, "Ramadan", false)
		other.IsActive = false
		require.NoError(t, store.InsertSchedule(ctx, other))

		swapped, err := store.SwapDefault(ctx, tenant, other.ID)
		require.NoError(t, err)
		assert.True(t, swapped.IsDefault)
		assert.True(t, swapped.IsActive)

		def, err := store.GetDefaultSchedule(ctx, tenant)
		require.NoError(t, err)
		assert.Equal(t, other.ID, def.ID)

		old, err := store.GetSchedule(ctx, tenant, first.ID)
		require.NoError(t, err)
		assert.False(t, old.IsDefault)

		list, err := store.ListSchedules(ctx, tenant)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, other.ID, list[0].ID, "default is listed first")
	})

	t.Run("swap default to an unknown schedule changes nothing", func(t *testing.T) {
		_, err := store.SwapDefault(ctx, tenant, uuid.NewString())
		assert.ErrorIs(t, err, db.ErrNotFound)

		def, err := store.GetDefaultSchedule(ctx, tenant)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, def.ID)
	})

	t.Run("delete removes the slides with the schedule", func(t *testing.T) {
		c := newContent(t, store, tenant, "Quran class")
		require.NoError(t, store.ReplaceScheduleItems(ctx, first.ID, items(first.ID, c.ID)))

		require.NoError(t, store.DeleteSchedule(ctx, tenant, first.ID))
		_, err := store.GetSchedule(ctx, tenant, first.ID)
		assert.ErrorIs(t, err, db.ErrNotFound)

		left, err := store.ListScheduleItems(ctx, first.ID)
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}

func TestDefaultMustBeActive(t *testing.T) {
	store, _ := db.OpenTestStore(t)

	sc := newSchedule("masjid-a", "Jumuah", true)
	sc.IsActive = false
	assert.Error(t, store.InsertSchedule(context.Background(), sc))
}

func TestWithTenantLockRollsBack(t *testing.T) {
	ctx := context.Background()
	store, _ := db.OpenTestStore(t)
	const tenant = "masjid-a"

	sc := newSchedule(tenant, "Jumuah", true)
	require.NoError(t, store.InsertSchedule(ctx, sc))

	err := store.WithTenantLock(ctx, tenant, func(q db.Queries) error {
		if err := q.ClearDefault(ctx, tenant); err != nil {
			return err
		}
		return db.ErrNotFound
	})
	assert.ErrorIs(t, err, db.ErrNotFound)

	def, err := store.GetDefaultSchedule(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, sc.ID, def.ID)
}

func TestContentAndScreens(t *testing.T) {
	ctx := context.Background()
	store, _ := db.OpenTestStore(t)
	const tenant = "masjid-a"

	a := newContent(t, store, tenant, "Iftar")
	b := newContent(t, store, tenant, "Taraweeh")
	newContent(t, store, "masjid-b", "Not yours")

	t.Run("batch content lookup skips unknown ids", func(t *testing.T) {
		found, err := store.GetContentItems(ctx, tenant, []string{a.ID, b.ID, "nope"})
		require.NoError(t, err)
		assert.Len(t, found, 2)
		assert.Equal(t, "Iftar", found[a.ID].Title)

		require.NoError(t, store.DeleteContentItem(ctx, tenant, a.ID))
		found, err = store.GetContentItems(ctx, tenant, []string{a.ID, b.ID})
		require.NoError(t, err)
		assert.NotContains(t, found, a.ID)

		assert.ErrorIs(t, store.DeleteContentItem(ctx, tenant, a.ID), db.ErrNotFound)
	})

	t.Run("single content lookup is tenant scoped", func(t *testing.T) {
		got, err := store.GetContentItem(ctx, tenant, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Taraweeh", got.Title)
		assert.Equal(t, 15, got.Duration)

		_, err = store.GetContentItem(ctx, "masjid-b", b.ID)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("screen assignment", func(t *testing.T) {
		now := time.Now().UTC()
		screen, err := store.CreateScreen(ctx, model.Screen{
			ID:          uuid.NewString(),
			TenantID:    tenant,
			Name:        "Lobby",
			Status:      "online",
			Orientation: "landscape",
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		require.NoError(t, err)

		scheduleID := uuid.NewString()
		updated, err := store.SetScreenSchedule(ctx, tenant, screen.ID, &scheduleID)
		require.NoError(t, err)
		require.NotNil(t, updated.ScheduleID)
		assert.Equal(t, scheduleID, *updated.ScheduleID)

		updated, err = store.SetScreenSchedule(ctx, tenant, screen.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, updated.ScheduleID)

		_, err = store.SetScreenSchedule(ctx, "masjid-b", screen.ID, nil)
		assert.ErrorIs(t, err, db.ErrNotFound)

		list, err := store.ListScreens(ctx, tenant)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		none, err := store.ListScreens(ctx, "masjid-c")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})
}
