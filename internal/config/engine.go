package config

import "time"

// Engine тюнинг движка ставок: размеры буферов фоновых каналов и период
// проверки расписаний аукционов.
type Engine struct {
	JournalBuffer  int           `env:"ENGINE_JOURNAL_BUFFER" envDefault:"1024"`
	BidEventBuffer int           `env:"ENGINE_BID_EVENT_BUFFER" envDefault:"1024"`
	ClosureBuffer  int           `env:"ENGINE_CLOSURE_BUFFER" envDefault:"64"`
	HistoryPage    int           `env:"ENGINE_HISTORY_PAGE" envDefault:"50"`
	TickInterval   time.Duration `env:"ENGINE_TICK_INTERVAL" envDefault:"1s"`
}
