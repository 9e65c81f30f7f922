package server

// Server объединяет специфичные HTTP сервера движка: ставки/лоты и
// аукционы (жизненный цикл и допуски).
type Server struct {
	LotServer
	AuctionServer
}

func NewServer(
	lotServer LotServer,
	auctionServer AuctionServer,
) Server {
	return Server{
		LotServer:     lotServer,
		AuctionServer: auctionServer,
	}
}
