// exposes a Store interface that is passed to the schedule service and API modules
package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/model"
)

// Queries are the row-level operations. They run either on the pool or inside a
// tenant-locked transaction handed out by Store.WithTenantLock.
type Queries interface {
	// content item store (owned elsewhere, read here)
	GetContentItem(ctx context.Context, tenantID, id string) (model.ContentItem, error)
	GetContentItems(ctx context.Context, tenantID string, ids []string) (map[string]model.ContentItem, error)
	CreateContentItem(ctx context.Context, item model.ContentItem) (model.ContentItem, error)
	DeleteContentItem(ctx context.Context, tenantID, id string) error

	// schedules
	CountSchedules(ctx context.Context, tenantID string) (int, error)
	GetSchedule(ctx context.Context, tenantID, id string) (model.ContentSchedule, error)
	GetDefaultSchedule(ctx context.Context, tenantID string) (model.ContentSchedule, error)
	ListSchedules(ctx context.Context, tenantID string) ([]model.ContentSchedule, error)
	InsertSchedule(ctx context.Context, s model.ContentSchedule) error
	UpdateSchedule(ctx context.Context, s model.ContentSchedule) error
	DeleteSchedule(ctx context.Context, tenantID, id string) error
	ClearDefault(ctx context.Context, tenantID string) error
	MarkDefault(ctx context.Context, tenantID, id string) error

	// slides
	ListScheduleItems(ctx context.Context, scheduleID string) ([]model.ScheduleItem, error)
	ReplaceScheduleItems(ctx context.Context, scheduleID string, items []model.ScheduleItem) error

	// screens
	CreateScreen(ctx context.Context, s model.Screen) (model.Screen, error)
	GetScreen(ctx context.Context, id string) (model.Screen, error)
	GetTenantScreen(ctx context.Context, tenantID, id string) (model.Screen, error)
	ListScreens(ctx context.Context, tenantID string) ([]model.Screen, error)
	SetScreenSchedule(ctx context.Context, tenantID, screenID string, scheduleID *string) (model.Screen, error)
}

type Store interface {
	Queries

	// WithTenantLock runs fn in one transaction after locking every schedule row of the
	// tenant, so same-tenant writers serialize. fn's error rolls everything back.
	WithTenantLock(ctx context.Context, tenantID string, fn func(q Queries) error) error

	// SwapDefault clears the tenant's current default and makes id the default (and active)
	// in one transaction.
	SwapDefault(ctx context.Context, tenantID, id string) (model.ContentSchedule, error)
}

type sqlStore struct {
	queries
	db *sqlx.DB
}

// compile-time check that sqlStore implements Store
var _ Store = (*sqlStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &sqlStore{queries: queries{ext: conn}, db: conn}
}

// queries binds the row operations to a pool or a transaction.
type queries struct {
	ext sqlx.ExtContext
}

func (q queries) rebind(query string) string {
	return q.ext.Rebind(query)
}

func (s *sqlStore) WithTenantLock(ctx context.Context, tenantID string, fn func(q Queries) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Str("tenant_id", tenantID).Msg("rollback failed")
			}
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("commit tx: %w", err)
		}
	}()

	// row-locks the tenant's schedules in Postgres, takes the write lock in SQLite
	if _, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE content_schedules
		   SET updated_at = updated_at
		 WHERE tenant_id = ?;`), tenantID); err != nil {
		return fmt.Errorf("lock tenant schedules: %w", err)
	}

	return fn(queries{ext: tx})
}

func (s *sqlStore) SwapDefault(ctx context.Context, tenantID, id string) (model.ContentSchedule, error) {
	var out model.ContentSchedule
	err := s.WithTenantLock(ctx, tenantID, func(q Queries) error {
		if _, err := q.GetSchedule(ctx, tenantID, id); err != nil {
			return err
		}
		if err := q.ClearDefault(ctx, tenantID); err != nil {
			return err
		}
		if err := q.MarkDefault(ctx, tenantID, id); err != nil {
			return err
		}
		sc, err := q.GetSchedule(ctx, tenantID, id)
		out = sc
		return err
	})
	if err != nil {
		return model.ContentSchedule{}, err
	}
	return out, nil
}
