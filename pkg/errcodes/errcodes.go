package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	AuctionNotFound     failure.ErrorCode = "AuctionNotFound"
	LotNotFound         failure.ErrorCode = "LotNotFound"
	ParticipantNotFound failure.ErrorCode = "ParticipantNotFound"
	InvalidAuctionID    failure.ErrorCode = "InvalidAuctionID"
	InvalidLotID        failure.ErrorCode = "InvalidLotID"
	InvalidBidAmount    failure.ErrorCode = "InvalidBidAmount"
	InvalidStatus       failure.ErrorCode = "InvalidStatus"
	InvalidTransition   failure.ErrorCode = "InvalidTransition"
	AuctionNotActive    failure.ErrorCode = "AuctionNotActive"
	LotClosed           failure.ErrorCode = "LotClosed"
	BelowMinimum        failure.ErrorCode = "BelowMinimum"
	NotEligible         failure.ErrorCode = "NotEligible"
	ConcurrencyConflict failure.ErrorCode = "ConcurrencyConflict"
	LotSuspended        failure.ErrorCode = "LotSuspended"
	LedgerCorrupted     failure.ErrorCode = "LedgerCorrupted"
	EmptyCatalog        failure.ErrorCode = "EmptyCatalog"
	PaymentNotConfirmed failure.ErrorCode = "PaymentNotConfirmed"
)
