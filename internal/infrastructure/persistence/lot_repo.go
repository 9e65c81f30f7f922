package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"coin_auction/internal/domain"
	"coin_auction/internal/domain/entity"
	"coin_auction/pkg/errcodes"
)

type LotRepository struct {
	db *sqlx.DB
}

func NewLotRepository(db *sqlx.DB) *LotRepository {
	return &LotRepository{db: db}
}

// Upsert персистит текущий снимок лота.
func (r *LotRepository) Upsert(ctx context.Context, lot entity.Lot) error {
	query := `
		INSERT INTO lots (id, auction_id, title, start_price, current_price, step, leader_id, bid_count, closed, winner_id, final_price, updated_at)
		VALUES (:id, :auction_id, :title, :start_price, :current_price, :step, :leader_id, :bid_count, :closed, :winner_id, :final_price, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			current_price = EXCLUDED.current_price,
			leader_id = EXCLUDED.leader_id,
			bid_count = EXCLUDED.bid_count,
			closed = EXCLUDED.closed,
			winner_id = EXCLUDED.winner_id,
			final_price = EXCLUDED.final_price,
			updated_at = EXCLUDED.updated_at`

	params := map[string]any{
		"id":            lot.ID,
		"auction_id":    lot.AuctionID,
		"title":         lot.Title,
		"start_price":   lot.StartPrice,
		"current_price": lot.CurrentPrice,
		"step":          lot.Step,
		"leader_id":     lot.LeaderID,
		"bid_count":     lot.BidCount,
		"closed":        lot.Closed,
		"winner_id":     lot.WinnerID,
		"final_price":   lot.FinalPrice,
		"updated_at":    orNow(lot.UpdatedAt),
	}

	if _, err := r.db.NamedExecContext(ctx, query, params); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to upsert lot")
	}

	return nil
}

// ListByAuction возвращает лоты аукциона в порядке position.
func (r *LotRepository) ListByAuction(ctx context.Context, auctionID string) ([]entity.Lot, error) {
	query := `
		SELECT id, auction_id, position, title, start_price, current_price, step, leader_id, bid_count, closed, winner_id, final_price, updated_at
		FROM lots
		WHERE auction_id = $1
		ORDER BY position, id`

	var schemas []lotSchema
	if err := r.db.SelectContext(ctx, &schemas, query, auctionID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list lots")
	}

	lots := make([]entity.Lot, 0, len(schemas))
	for _, s := range schemas {
		lots = append(lots, s.toDomain())
	}

	return lots, nil
}
