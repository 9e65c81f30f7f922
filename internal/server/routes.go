package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"coin_auction/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/lots", func(r chi.Router) {
				r.Get("/{lotID}", handler(s.getV1Lot))
				r.Get("/{lotID}/bids", handler(s.getV1LotBids))
				r.Post("/{lotID}/bids", handler(s.postV1LotBid))
			})

			r.Route("/auctions", func(r chi.Router) {
				r.Get("/{auctionID}", handler(s.getV1Auction))
				r.Post("/{auctionID}/eligibility", handler(s.postV1AuctionEligibility))
				r.Put("/{auctionID}/eligibility/{participantID}", handler(s.putV1AuctionEligibility))
				r.Post("/{auctionID}/status", handler(s.postV1AuctionStatus))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
