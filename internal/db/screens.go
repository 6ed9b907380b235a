package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/model"
)

const screenColumns = `id, tenant_id, name, status, orientation, schedule_id, created_at, updated_at`

func (q queries) CreateScreen(ctx context.Context, s model.Screen) (model.Screen, error) {
	_, err := q.ext.ExecContext(ctx, q.rebind(`
		INSERT INTO screens (id, tenant_id, name, status, orientation, schedule_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);`),
		s.ID, s.TenantID, s.Name, s.Status, s.Orientation, s.ScheduleID, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", s.TenantID).Msg("failed to create screen")
		return model.Screen{}, err
	}
	return s, nil
}

// GetScreen is unscoped; the display endpoint only knows the screen id.
func (q queries) GetScreen(ctx context.Context, id string) (model.Screen, error) {
	var s model.Screen
	err := sqlx.GetContext(ctx, q.ext, &s, q.rebind(`
		SELECT `+screenColumns+` FROM screens WHERE id = ?;`), id)
	if err != nil {
		return model.Screen{}, notFound(err)
	}
	return s, nil
}

func (q queries) GetTenantScreen(ctx context.Context, tenantID, id string) (model.Screen, error) {
	var s model.Screen
	err := sqlx.GetContext(ctx, q.ext, &s, q.rebind(`
		SELECT `+screenColumns+` FROM screens WHERE id = ? AND tenant_id = ?;`), id, tenantID)
	if err != nil {
		return model.Screen{}, notFound(err)
	}
	return s, nil
}

func (q queries) ListScreens(ctx context.Context, tenantID string) ([]model.Screen, error) {
	screens := []model.Screen{}
	err := sqlx.SelectContext(ctx, q.ext, &screens, q.rebind(`
		SELECT `+screenColumns+`
		  FROM screens
		 WHERE tenant_id = ?
		 ORDER BY name, id;`), tenantID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to list screens")
		return nil, err
	}
	return screens, nil
}

// SetScreenSchedule points a screen at scheduleID, or back at the tenant default when nil.
func (q queries) SetScreenSchedule(ctx context.Context, tenantID, screenID string, scheduleID *string) (model.Screen, error) {
	res, err := q.ext.ExecContext(ctx, q.rebind(`
		UPDATE screens
		   SET schedule_id = ?,
		       updated_at  = ?
		 WHERE id = ? AND tenant_id = ?;`), scheduleID, time.Now().UTC(), screenID, tenantID)
	if err != nil {
		log.Error().Err(err).Str("screen_id", screenID).Msg("failed to assign schedule to screen")
		return model.Screen{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Screen{}, ErrNotFound
	}
	return q.GetTenantScreen(ctx, tenantID, screenID)
}
