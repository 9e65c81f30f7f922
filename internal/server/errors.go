package server

import (
	"git.appkode.ru/pub/go/failure"

	"coin_auction/internal/domain"
	"coin_auction/pkg/errcodes"
)

// asFailure переводит доменные ошибки в failure-ошибки, по kind которых
// reply.Error подбирает HTTP статус.
func asFailure(err error) error {
	code, ok := domain.GetCode(err)
	if !ok {
		return err
	}

	switch code {
	case errcodes.AuctionNotFound, errcodes.LotNotFound, errcodes.ParticipantNotFound, errcodes.NotFound:
		return failure.NewNotFoundErrorFromError(err, failure.WithCode(code))
	case errcodes.ValidationError, errcodes.InvalidAuctionID, errcodes.InvalidLotID,
		errcodes.InvalidBidAmount, errcodes.InvalidStatus, errcodes.InvalidPaging:
		return failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(code))
	case errcodes.InvalidTransition, errcodes.ConcurrencyConflict:
		return failure.NewConflictErrorFromError(err, failure.WithCode(code))
	case errcodes.EmptyCatalog, errcodes.PaymentNotConfirmed, errcodes.AuctionNotActive,
		errcodes.LotClosed, errcodes.NotEligible, errcodes.BelowMinimum:
		return failure.NewUnprocessableEntityErrorFromError(err, failure.WithCode(code))
	case errcodes.Forbidden:
		return failure.NewForbiddenErrorFromError(err, failure.WithCode(code))
	default:
		// LotSuspended, LedgerCorrupted и всё неизвестное уходит в 500.
		return err
	}
}
