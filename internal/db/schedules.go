package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/model"
)

const scheduleColumns = `id, tenant_id, name, description, is_active, is_default, created_at, updated_at`

func (q queries) CountSchedules(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, q.ext, &n, q.rebind(`
		SELECT COUNT(*) FROM content_schedules WHERE tenant_id = ?;`), tenantID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("CountSchedules failed")
	}
	return n, err
}

// GetSchedule loads a tenant's schedule with its slides ordered by item_order.
func (q queries) GetSchedule(ctx context.Context, tenantID, id string) (model.ContentSchedule, error) {
	var s model.ContentSchedule
	err := sqlx.GetContext(ctx, q.ext, &s, q.rebind(`
		SELECT `+scheduleColumns+`
		  FROM content_schedules
		 WHERE id = ? AND tenant_id = ?;`), id, tenantID)
	if err != nil {
		return model.ContentSchedule{}, notFound(err)
	}

	items, err := q.ListScheduleItems(ctx, id)
	if err != nil {
		return model.ContentSchedule{}, err
	}
	s.Items = items
	return s, nil
}

func (q queries) GetDefaultSchedule(ctx context.Context, tenantID string) (model.ContentSchedule, error) {
	var s model.ContentSchedule
	err := sqlx.GetContext(ctx, q.ext, &s, q.rebind(`
		SELECT `+scheduleColumns+`
		  FROM content_schedules
		 WHERE tenant_id = ? AND is_default = TRUE;`), tenantID)
	if err != nil {
		return model.ContentSchedule{}, notFound(err)
	}

	items, err := q.ListScheduleItems(ctx, s.ID)
	if err != nil {
		return model.ContentSchedule{}, err
	}
	s.Items = items
	return s, nil
}

// ListSchedules returns the tenant's schedules, default first, then by name.
func (q queries) ListSchedules(ctx context.Context, tenantID string) ([]model.ContentSchedule, error) {
	var out []model.ContentSchedule
	err := sqlx.SelectContext(ctx, q.ext, &out, q.rebind(`
		SELECT `+scheduleColumns+`
		  FROM content_schedules
		 WHERE tenant_id = ?
		 ORDER BY is_default DESC, name ASC, id ASC;`), tenantID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("ListSchedules failed")
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, len(out))
	for i := range out {
		ids[i] = out[i].ID
	}
	query, args, err := sqlx.In(`
		SELECT id, schedule_id, content_item_id, item_order, created_at
		  FROM schedule_items
		 WHERE schedule_id IN (?)
		 ORDER BY schedule_id, item_order;`, ids)
	if err != nil {
		return nil, err
	}
	var items []model.ScheduleItem
	if err := sqlx.SelectContext(ctx, q.ext, &items, q.rebind(query), args...); err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("ListSchedules: failed to load items")
		return nil, err
	}

	bySchedule := make(map[string][]model.ScheduleItem, len(out))
	for _, it := range items {
		bySchedule[it.ScheduleID] = append(bySchedule[it.ScheduleID], it)
	}
	for i := range out {
		out[i].Items = bySchedule[out[i].ID]
	}
	return out, nil
}

func (q queries) InsertSchedule(ctx context.Context, s model.ContentSchedule) error {
	_, err := q.ext.ExecContext(ctx, q.rebind(`
		INSERT INTO content_schedules
		  (id, tenant_id, name, description, is_active, is_default, created_at, updated_at)
		VALUES
		  (?, ?, ?, ?, ?, ?, ?, ?);`),
		s.ID, s.TenantID, s.Name, s.Description, s.IsActive, s.IsDefault, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) && s.IsDefault {
			return ErrDefaultConflict
		}
		log.Error().Err(err).Str("tenant_id", s.TenantID).Msg("InsertSchedule failed")
	}
	return err
}

// UpdateSchedule writes name, description and is_active. Default flags only move
// through ClearDefault/MarkDefault.
func (q queries) UpdateSchedule(ctx context.Context, s model.ContentSchedule) error {
	res, err := q.ext.ExecContext(ctx, q.rebind(`
		UPDATE content_schedules
		   SET name        = ?,
		       description = ?,
		       is_active   = ?,
		       updated_at  = ?
		 WHERE id = ? AND tenant_id = ?;`),
		s.Name, s.Description, s.IsActive, s.UpdatedAt, s.ID, s.TenantID)
	if err != nil {
		log.Error().Err(err).Str("schedule_id", s.ID).Msg("UpdateSchedule failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSchedule removes the slides first, then the schedule row.
func (q queries) DeleteSchedule(ctx context.Context, tenantID, id string) error {
	if _, err := q.ext.ExecContext(ctx, q.rebind(`
		DELETE FROM schedule_items
		 WHERE schedule_id IN (SELECT id FROM content_schedules WHERE id = ? AND tenant_id = ?);`),
		id, tenantID); err != nil {
		log.Error().Err(err).Str("schedule_id", id).Msg("DeleteSchedule: items delete failed")
		return err
	}

	res, err := q.ext.ExecContext(ctx, q.rebind(`
		DELETE FROM content_schedules WHERE id = ? AND tenant_id = ?;`), id, tenantID)
	if err != nil {
		log.Error().Err(err).Str("schedule_id", id).Msg("DeleteSchedule failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q queries) ClearDefault(ctx context.Context, tenantID string) error {
	_, err := q.ext.ExecContext(ctx, q.rebind(`
		UPDATE content_schedules
		   SET is_default = FALSE
		 WHERE tenant_id = ? AND is_default = TRUE;`), tenantID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("ClearDefault failed")
	}
	return err
}

// MarkDefault sets is_default and forces is_active on the target.
func (q queries) MarkDefault(ctx context.Context, tenantID, id string) error {
	res, err := q.ext.ExecContext(ctx, q.rebind(`
		UPDATE content_schedules
		   SET is_default = TRUE,
		       is_active  = TRUE,
		       updated_at = ?
		 WHERE id = ? AND tenant_id = ?;`), time.Now().UTC(), id, tenantID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDefaultConflict
		}
		log.Error().Err(err).Str("schedule_id", id).Msg("MarkDefault failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q queries) ListScheduleItems(ctx context.Context, scheduleID string) ([]model.ScheduleItem, error) {
	var items []model.ScheduleItem
	err := sqlx.SelectContext(ctx, q.ext, &items, q.rebind(`
		SELECT id, schedule_id, content_item_id, item_order, created_at
		  FROM schedule_items
		 WHERE schedule_id = ?
		 ORDER BY item_order;`), scheduleID)
	if err != nil {
		log.Error().Err(err).Str("schedule_id", scheduleID).Msg("ListScheduleItems failed")
	}
	return items, err
}

// ReplaceScheduleItems deletes the schedule's slides and inserts items in their place.
// Callers run it inside WithTenantLock so readers never see the empty middle state.
func (q queries) ReplaceScheduleItems(ctx context.Context, scheduleID string, items []model.ScheduleItem) error {
	if _, err := q.ext.ExecContext(ctx, q.rebind(`
		DELETE FROM schedule_items WHERE schedule_id = ?;`), scheduleID); err != nil {
		log.Error().Err(err).Str("schedule_id", scheduleID).Msg("ReplaceScheduleItems: delete failed")
		return err
	}

	insert := q.rebind(`
		INSERT INTO schedule_items (id, schedule_id, content_item_id, item_order, created_at)
		VALUES (?, ?, ?, ?, ?);`)
	for _, it := range items {
		if _, err := q.ext.ExecContext(ctx, insert,
			it.ID, scheduleID, it.ContentItemID, it.Order, it.CreatedAt); err != nil {
			log.Error().Err(err).Str("schedule_id", scheduleID).Int("order", it.Order).
				Msg("ReplaceScheduleItems: insert failed")
			return err
		}
	}
	return nil
}
