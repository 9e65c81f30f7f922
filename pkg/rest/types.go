// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

type PlaceBidRequest struct {
	ParticipantID string `json:"participantId" validate:"required"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
}

type BidResult struct {
	Accepted     bool   `json:"accepted"`
	CurrentPrice int64  `json:"currentPrice"`
	LeaderID     string `json:"leaderId,omitempty"`
	MinNextBid   int64  `json:"minNextBid"`
	Reason       string `json:"reason,omitempty"`
}

type LotSnapshot struct {
	LotID        string `json:"lotId"`
	AuctionID    string `json:"auctionId"`
	StartPrice   int64  `json:"startPrice"`
	CurrentPrice int64  `json:"currentPrice"`
	Step         int64  `json:"step"`
	LeaderID     string `json:"leaderId,omitempty"`
	BidCount     int    `json:"bidCount"`
	Closed       bool   `json:"closed"`
	MinNextBid   int64  `json:"minNextBid"`
}

type Bid struct {
	ID            string    `json:"id"`
	LotID         string    `json:"lotId"`
	ParticipantID string    `json:"participantId"`
	Amount        int64     `json:"amount"`
	Seq           int64     `json:"seq"`
	PlacedAt      time.Time `json:"placedAt"`
}

type BidHistoryPage struct {
	Bids          []Bid  `json:"bids"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

type AuctionSnapshot struct {
	AuctionID    string     `json:"auctionId"`
	Status       string     `json:"status"`
	Currency     string     `json:"currency"`
	BidStep      int64      `json:"bidStep"`
	StartsAt     *time.Time `json:"startsAt,omitempty"`
	EndsAt       *time.Time `json:"endsAt,omitempty"`
	RemainingSec int64      `json:"remainingSec"`
	LotIDs       []string   `json:"lotIds"`
}

type EligibilityRequest struct {
	ParticipantID string `json:"participantId" validate:"required"`
}

type EligibilityDecision struct {
	Approved bool `json:"approved"`
}

type EligibilityRecord struct {
	AuctionID     string `json:"auctionId"`
	ParticipantID string `json:"participantId"`
	Status        string `json:"status"`
}

type StatusTransitionRequest struct {
	Target string `json:"target" validate:"required"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code string `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}
