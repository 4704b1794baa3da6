package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// CoinCommand fetches current market data for a cryptocurrency by its
// CoinGecko ID (e.g. "bitcoin", "ethereum").
func CoinCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Usage: `!coin <id>` (e.g. `!coin bitcoin`).", colorRed)
		return
	}
	id := strings.ToLower(args[0])

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	info, err := gecko.Coin(ctx, id)
	if err != nil {
		logger.Warn().Err(err).Str("coin", id).Msg("coin lookup failed")
		sendEmbedMessage(s, m.ChannelID, "❌ Lookup Failed", err.Error(), colorRed)
		return
	}

	change := info.MarketData.PriceChangePercentage24h
	color := colorGreen
	arrow := "📈"
	if change < 0 {
		color = colorRed
		arrow = "📉"
	}

	description := fmt.Sprintf(
		"**Price:** $%s\n**24h Change:** %s %.2f%%\n**24h High:** $%s\n**24h Low:** $%s\n**Market Cap:** $%s",
		formatPrice(info.MarketData.CurrentPrice.USD),
		arrow, change,
		formatPrice(info.MarketData.High24h.USD),
		formatPrice(info.MarketData.Low24h.USD),
		formatPrice(info.MarketData.MarketCap.USD),
	)
	title := fmt.Sprintf("💰 %s (%s)", info.Name, strings.ToUpper(info.Symbol))
	sendEmbedMessage(s, m.ChannelID, title, description, color)
}

// formatPrice keeps sub-dollar coins readable while not drowning large caps
// in decimals.
func formatPrice(v float64) string {
	switch {
	case v >= 1000:
		return fmt.Sprintf("%.0f", v)
	case v >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.6f", v)
	}
}
