package server

import (
	"context"
	"fmt"
	"net/http"

	"coin_auction/internal/domain/entity"
	"coin_auction/internal/domain/service/bidding"
	"coin_auction/pkg/httpx/reply"
	"coin_auction/pkg/httpx/req"
	"coin_auction/pkg/rest"
)

type lotService interface {
	SubmitBid(ctx context.Context, lotID, participantID string, amount int64) (bidding.Result, error)
	LotSnapshot(lotID string) (entity.Lot, int64, error)
	BidHistory(lotID, pageToken string) ([]entity.Bid, string, error)
}

type LotServer struct {
	lotService lotService
}

func NewLotServer(lotService lotService) LotServer {
	return LotServer{
		lotService: lotService,
	}
}

// postV1LotBid is the single bid submission endpoint. Both acceptance and
// rejection come back as 200 with a structured result so the screens can
// render the reason and the exact minimum.
func (s LotServer) postV1LotBid(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	lotID := r.PathValue("lotID")

	var request rest.PlaceBidRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	result, err := s.lotService.SubmitBid(ctx, lotID, request.ParticipantID, request.Amount)
	if err != nil {
		return asFailure(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBidResult(result))

	return nil
}

func (s LotServer) getV1Lot(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	lotID := r.PathValue("lotID")

	lot, minNext, err := s.lotService.LotSnapshot(lotID)
	if err != nil {
		return asFailure(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTLotSnapshot(lot, minNext))

	return nil
}

func (s LotServer) getV1LotBids(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	lotID := r.PathValue("lotID")
	pageToken := r.URL.Query().Get("pageToken")

	bids, nextToken, err := s.lotService.BidHistory(lotID, pageToken)
	if err != nil {
		return asFailure(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBidHistoryPage(bids, nextToken))

	return nil
}
