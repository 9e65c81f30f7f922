package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"coin_auction/internal/domain"
	"coin_auction/internal/domain/entity"
	"coin_auction/pkg/errcodes"
)

type AuctionRepository struct {
	db *sqlx.DB
}

func NewAuctionRepository(db *sqlx.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

// Upsert персистит текущий снимок аукциона.
func (r *AuctionRepository) Upsert(ctx context.Context, auction entity.Auction) error {
	query := `
		INSERT INTO auctions (id, house_id, title, status, currency, bid_step, starts_at, ends_at, payment_confirmed, updated_at)
		VALUES (:id, :house_id, :title, :status, :currency, :bid_step, :starts_at, :ends_at, :payment_confirmed, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at,
			payment_confirmed = EXCLUDED.payment_confirmed,
			updated_at = EXCLUDED.updated_at`

	params := map[string]any{
		"id":                auction.ID,
		"house_id":          auction.HouseID,
		"title":             auction.Title,
		"status":            auction.Status.String(),
		"currency":          auction.Currency,
		"bid_step":          auction.BidStep,
		"starts_at":         nullTime(auction.StartsAt),
		"ends_at":           nullTime(auction.EndsAt),
		"payment_confirmed": auction.PaymentConfirmed,
		"updated_at":        orNow(auction.UpdatedAt),
	}

	if _, err := r.db.NamedExecContext(ctx, query, params); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to upsert auction")
	}

	return nil
}

// ListNonArchived возвращает аукционы, которые движок должен загрузить при
// старте, вместе с их лотами (в порядке position).
func (r *AuctionRepository) ListNonArchived(ctx context.Context) ([]entity.Auction, error) {
	query := `
		SELECT id, house_id, title, status, currency, bid_step, starts_at, ends_at, payment_confirmed, updated_at
		FROM auctions
		WHERE status <> 'archived'
		ORDER BY id`

	var schemas []auctionSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list auctions")
	}

	auctions := make([]entity.Auction, 0, len(schemas))

	for _, s := range schemas {
		auction, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert auction")
		}

		lotIDs, err := r.lotIDs(ctx, auction.ID)
		if err != nil {
			return nil, err
		}

		auction.LotIDs = lotIDs
		auctions = append(auctions, auction)
	}

	return auctions, nil
}

func (r *AuctionRepository) lotIDs(ctx context.Context, auctionID string) ([]string, error) {
	query := `SELECT id FROM lots WHERE auction_id = $1 ORDER BY position, id`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, auctionID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list auction lot ids")
	}

	return ids, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}

	return t
}
