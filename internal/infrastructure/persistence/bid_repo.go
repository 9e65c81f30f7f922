package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"coin_auction/internal/domain"
	"coin_auction/internal/domain/entity"
	"coin_auction/pkg/errcodes"
)

type BidRepository struct {
	db *sqlx.DB
}

func NewBidRepository(db *sqlx.DB) *BidRepository {
	return &BidRepository{db: db}
}

// Insert записывает принятую ставку. Журнал пишет с семантикой
// at-least-once, поэтому повтор по ключу (lot_id, seq) просто игнорируется.
func (r *BidRepository) Insert(ctx context.Context, bid entity.Bid) error {
	query := `
		INSERT INTO bids (id, lot_id, seq, participant_id, amount, placed_at)
		VALUES (:id, :lot_id, :seq, :participant_id, :amount, :placed_at)
		ON CONFLICT (lot_id, seq) DO NOTHING`

	params := map[string]any{
		"id":             bid.ID,
		"lot_id":         bid.LotID,
		"seq":            bid.Seq,
		"participant_id": bid.ParticipantID,
		"amount":         bid.Amount,
		"placed_at":      bid.PlacedAt,
	}

	if _, err := r.db.NamedExecContext(ctx, query, params); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert bid")
	}

	return nil
}

// ListByLot возвращает принятые ставки лота в порядке seq — ровно то, что
// нужно движку для реплея при загрузке.
func (r *BidRepository) ListByLot(ctx context.Context, lotID string) ([]entity.Bid, error) {
	query := `
		SELECT id, lot_id, seq, participant_id, amount, placed_at
		FROM bids
		WHERE lot_id = $1
		ORDER BY seq`

	var schemas []bidSchema
	if err := r.db.SelectContext(ctx, &schemas, query, lotID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list bids")
	}

	bids := make([]entity.Bid, 0, len(schemas))
	for _, s := range schemas {
		bids = append(bids, s.toDomain())
	}

	return bids, nil
}
