package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/model"
)

const contentColumns = `id, tenant_id, title, type, payload, duration, is_active, start_date, end_date, created_at, updated_at`

func (q queries) GetContentItem(ctx context.Context, tenantID, id string) (model.ContentItem, error) {
	var c model.ContentItem
	err := sqlx.GetContext(ctx, q.ext, &c, q.rebind(`
		SELECT `+contentColumns+`
		  FROM content_items
		 WHERE id = ? AND tenant_id = ?;`), id, tenantID)
	if err != nil {
		return model.ContentItem{}, notFound(err)
	}
	return c, nil
}

// GetContentItems batch-loads the tenant's items by id. Missing ids are simply absent
// from the returned map.
func (q queries) GetContentItems(ctx context.Context, tenantID string, ids []string) (map[string]model.ContentItem, error) {
	out := make(map[string]model.ContentItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+contentColumns+`
		  FROM content_items
		 WHERE tenant_id = ? AND id IN (?);`, tenantID, ids)
	if err != nil {
		return nil, err
	}
	var items []model.ContentItem
	if err := sqlx.SelectContext(ctx, q.ext, &items, q.rebind(query), args...); err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("GetContentItems failed")
		return nil, err
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func (q queries) CreateContentItem(ctx context.Context, c model.ContentItem) (model.ContentItem, error) {
	_, err := q.ext.ExecContext(ctx, q.rebind(`
		INSERT INTO content_items
		  (id, tenant_id, title, type, payload, duration, is_active, start_date, end_date, created_at, updated_at)
		VALUES
		  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`),
		c.ID, c.TenantID, c.Title, c.Type, c.Payload, c.Duration, c.IsActive,
		c.StartDate, c.EndDate, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", c.TenantID).Msg("CreateContentItem failed")
		return model.ContentItem{}, err
	}
	return c, nil
}

// DeleteContentItem does not touch schedule_items; slides pointing at the item dangle.
func (q queries) DeleteContentItem(ctx context.Context, tenantID, id string) error {
	res, err := q.ext.ExecContext(ctx, q.rebind(`
		DELETE FROM content_items WHERE id = ? AND tenant_id = ?;`), id, tenantID)
	if err != nil {
		log.Error().Err(err).Str("content_item_id", id).Msg("DeleteContentItem failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
