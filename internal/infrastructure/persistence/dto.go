package persistence

import (
	"database/sql"
	"time"

	"coin_auction/internal/domain/entity"
)

// auctionSchema maps the auctions table row.
type auctionSchema struct {
	ID               string       `db:"id"`
	HouseID          string       `db:"house_id"`
	Title            string       `db:"title"`
	Status           string       `db:"status"`
	Currency         string       `db:"currency"`
	BidStep          int64        `db:"bid_step"`
	StartsAt         sql.NullTime `db:"starts_at"`
	EndsAt           sql.NullTime `db:"ends_at"`
	PaymentConfirmed bool         `db:"payment_confirmed"`
	UpdatedAt        time.Time    `db:"updated_at"`
}

func (s *auctionSchema) toDomain() (entity.Auction, error) {
	status, err := entity.ParseAuctionStatus(s.Status)
	if err != nil {
		return entity.Auction{}, err
	}

	return entity.Auction{
		ID:               s.ID,
		HouseID:          s.HouseID,
		Title:            s.Title,
		Status:           status,
		Currency:         s.Currency,
		BidStep:          s.BidStep,
		StartsAt:         s.StartsAt.Time,
		EndsAt:           s.EndsAt.Time,
		PaymentConfirmed: s.PaymentConfirmed,
		UpdatedAt:        s.UpdatedAt,
	}, nil
}

// lotSchema maps the lots table row.
type lotSchema struct {
	ID           string    `db:"id"`
	AuctionID    string    `db:"auction_id"`
	Position     int       `db:"position"`
	Title        string    `db:"title"`
	StartPrice   int64     `db:"start_price"`
	CurrentPrice int64     `db:"current_price"`
	Step         int64     `db:"step"`
	LeaderID     string    `db:"leader_id"`
	BidCount     int       `db:"bid_count"`
	Closed       bool      `db:"closed"`
	WinnerID     string    `db:"winner_id"`
	FinalPrice   int64     `db:"final_price"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (s *lotSchema) toDomain() entity.Lot {
	return entity.Lot{
		ID:           s.ID,
		AuctionID:    s.AuctionID,
		Title:        s.Title,
		StartPrice:   s.StartPrice,
		CurrentPrice: s.CurrentPrice,
		Step:         s.Step,
		LeaderID:     s.LeaderID,
		BidCount:     s.BidCount,
		Closed:       s.Closed,
		WinnerID:     s.WinnerID,
		FinalPrice:   s.FinalPrice,
		UpdatedAt:    s.UpdatedAt,
	}
}

// bidSchema maps the bids table row, keyed (lot_id, seq).
type bidSchema struct {
	ID            string    `db:"id"`
	LotID         string    `db:"lot_id"`
	Seq           int64     `db:"seq"`
	ParticipantID string    `db:"participant_id"`
	Amount        int64     `db:"amount"`
	PlacedAt      time.Time `db:"placed_at"`
}

func (s *bidSchema) toDomain() entity.Bid {
	return entity.Bid{
		ID:            s.ID,
		LotID:         s.LotID,
		ParticipantID: s.ParticipantID,
		Amount:        s.Amount,
		Seq:           s.Seq,
		PlacedAt:      s.PlacedAt,
	}
}

// eligibilitySchema maps the eligibility table row, keyed
// (auction_id, participant_id).
type eligibilitySchema struct {
	AuctionID     string       `db:"auction_id"`
	ParticipantID string       `db:"participant_id"`
	Status        string       `db:"status"`
	RequestedAt   time.Time    `db:"requested_at"`
	DecidedAt     sql.NullTime `db:"decided_at"`
}

func (s *eligibilitySchema) toDomain() (entity.Eligibility, error) {
	status, err := entity.ParseEligibilityStatus(s.Status)
	if err != nil {
		return entity.Eligibility{}, err
	}

	return entity.Eligibility{
		AuctionID:     s.AuctionID,
		ParticipantID: s.ParticipantID,
		Status:        status,
		RequestedAt:   s.RequestedAt,
		DecidedAt:     s.DecidedAt.Time,
	}, nil
}
