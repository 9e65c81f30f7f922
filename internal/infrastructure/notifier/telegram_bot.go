package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"coin_auction/internal/domain/entity"
)

// TelegramBot sends operator alerts when auctions close. Delivery is best
// effort; the engine never depends on it.
type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run обрабатывает события закрытия из канала.
func (b *TelegramBot) Run(ctx context.Context, closures <-chan entity.AuctionClosed) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-closures:
			if !ok {
				return nil
			}

			if err := b.SendClosure(ctx, event); err != nil {
				logger(ctx).Error("failed to send closure alert", "error", err)
			}
		}
	}
}

func (b *TelegramBot) SendClosure(ctx context.Context, event entity.AuctionClosed) error {
	var sb strings.Builder

	header := "🏁 <b>Auction completed</b>"
	if event.Status == entity.AuctionStatusCancelled {
		header = "🚫 <b>Auction cancelled</b>"
	}

	fmt.Fprintf(&sb, "%s\n\n🆔 %s\n", header, event.AuctionID)

	for _, lot := range event.ClosedLots {
		if lot.WinnerID != "" {
			fmt.Fprintf(&sb, "🎯 Lot %s — won at %d by %s\n", lot.LotID, lot.FinalPrice, lot.WinnerID)
		} else {
			fmt.Fprintf(&sb, "▫️ Lot %s — no winner\n", lot.LotID)
		}
	}

	msg := tu.Message(
		tu.ID(b.chatID),
		sb.String(),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
