package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"git.appkode.ru/pub/go/failure"

	"coin_auction/internal/domain/entity"
	"coin_auction/pkg/errcodes"
	"coin_auction/pkg/httpx/reply"
	"coin_auction/pkg/httpx/req"
	"coin_auction/pkg/rest"
)

type auctionService interface {
	AuctionSnapshot(auctionID string) (entity.Auction, time.Duration, error)
	RequestEligibility(ctx context.Context, auctionID, participantID string) (entity.Eligibility, error)
	DecideEligibility(ctx context.Context, auctionID, participantID string, approved bool) (entity.Eligibility, error)
	RequestTransition(ctx context.Context, auctionID string, target entity.AuctionStatus) error
}

type AuctionServer struct {
	auctionService auctionService
}

func NewAuctionServer(auctionService auctionService) AuctionServer {
	return AuctionServer{
		auctionService: auctionService,
	}
}

func (s AuctionServer) getV1Auction(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	auctionID := r.PathValue("auctionID")

	auction, remaining, err := s.auctionService.AuctionSnapshot(auctionID)
	if err != nil {
		return asFailure(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTAuctionSnapshot(auction, remaining))

	return nil
}

func (s AuctionServer) postV1AuctionEligibility(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	auctionID := r.PathValue("auctionID")

	var request rest.EligibilityRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	record, err := s.auctionService.RequestEligibility(ctx, auctionID, request.ParticipantID)
	if err != nil {
		return asFailure(err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTEligibility(record))

	return nil
}

func (s AuctionServer) putV1AuctionEligibility(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	auctionID := r.PathValue("auctionID")
	participantID := r.PathValue("participantID")

	var request rest.EligibilityDecision

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	record, err := s.auctionService.DecideEligibility(ctx, auctionID, participantID, request.Approved)
	if err != nil {
		return asFailure(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTEligibility(record))

	return nil
}

func (s AuctionServer) postV1AuctionStatus(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	auctionID := r.PathValue("auctionID")

	var request rest.StatusTransitionRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	target, err := entity.ParseAuctionStatus(request.Target)
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("entity.ParseAuctionStatus: %w", err),
			failure.WithCode(errcodes.InvalidStatus),
		)
	}

	if err := s.auctionService.RequestTransition(ctx, auctionID, target); err != nil {
		return asFailure(err)
	}

	reply.OK(w)

	return nil
}
