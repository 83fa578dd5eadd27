// Package flows defines the bot's concrete dialogs: weather lookup,
// currency conversion and poll creation, plus the stateless animal photo
// action. Definitions are plain flow tables; all network access goes
// through the Gateway.
package flows

import (
	"context"
	"strings"

	"funbot/core/flow"
	"funbot/providers"
)

// Flow kinds.
const (
	KindWeather  flow.Kind = "weather"
	KindExchange flow.Kind = "exchange"
	KindPoll     flow.Kind = "poll"
)

// Gateway is the slice of the provider client the flows need.
type Gateway interface {
	Geocode(ctx context.Context, city string) (providers.Coords, error)
	CurrentWeather(ctx context.Context, lat, lon float64) (providers.Weather, error)
	Convert(ctx context.Context, from, to string, amount float64) (providers.Conversion, error)
	RandomAnimalImage(ctx context.Context) ([]byte, error)
}

// Definitions builds the flow table set over the given gateway.
func Definitions(gw Gateway) map[flow.Kind]flow.Definition {
	return map[flow.Kind]flow.Definition{
		KindWeather:  weatherDefinition(gw),
		KindExchange: exchangeDefinition(gw),
		KindPoll:     pollDefinition(),
	}
}

// nonEmpty rejects blank input with the given user-facing message.
func nonEmpty(message string) func(string, map[string]string) (string, error) {
	return func(input string, _ map[string]string) (string, error) {
		if strings.TrimSpace(input) == "" {
			return "", flow.Invalid(message)
		}
		return input, nil
	}
}
