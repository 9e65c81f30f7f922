package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"coin_auction/internal/domain"
	"coin_auction/internal/domain/entity"
	"coin_auction/pkg/errcodes"
)

type EligibilityRepository struct {
	db *sqlx.DB
}

func NewEligibilityRepository(db *sqlx.DB) *EligibilityRepository {
	return &EligibilityRepository{db: db}
}

// Upsert персистит запись допуска по ключу (auction_id, participant_id).
func (r *EligibilityRepository) Upsert(ctx context.Context, record entity.Eligibility) error {
	query := `
		INSERT INTO eligibility (auction_id, participant_id, status, requested_at, decided_at)
		VALUES (:auction_id, :participant_id, :status, :requested_at, :decided_at)
		ON CONFLICT (auction_id, participant_id) DO UPDATE SET
			status = EXCLUDED.status,
			decided_at = EXCLUDED.decided_at`

	params := map[string]any{
		"auction_id":     record.AuctionID,
		"participant_id": record.ParticipantID,
		"status":         record.Status.String(),
		"requested_at":   orNow(record.RequestedAt),
		"decided_at":     nullTime(record.DecidedAt),
	}

	if _, err := r.db.NamedExecContext(ctx, query, params); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to upsert eligibility")
	}

	return nil
}

// ListByAuction возвращает все записи допуска аукциона.
func (r *EligibilityRepository) ListByAuction(ctx context.Context, auctionID string) ([]entity.Eligibility, error) {
	query := `
		SELECT auction_id, participant_id, status, requested_at, decided_at
		FROM eligibility
		WHERE auction_id = $1`

	var schemas []eligibilitySchema
	if err := r.db.SelectContext(ctx, &schemas, query, auctionID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list eligibility")
	}

	records := make([]entity.Eligibility, 0, len(schemas))

	for _, s := range schemas {
		record, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert eligibility")
		}

		records = append(records, record)
	}

	return records, nil
}
