package flows

import (
	"context"
	"errors"
	"fmt"

	"funbot/core/flow"
	"funbot/providers"
)

func weatherDefinition(gw Gateway) flow.Definition {
	return flow.Definition{
		Kind: KindWeather,
		Steps: []flow.Step{
			{
				// Any input is accepted; a city that does not geocode
				// surfaces as a retry on this same step.
				Field:    "city",
				Prompt:   weatherPromptCity,
				Terminal: true,
			},
		},
		Finish: func(ctx context.Context, data map[string]string) (flow.Effect, error) {
			city := data["city"]
			coords, err := gw.Geocode(ctx, city)
			if err != nil {
				if errors.Is(err, providers.ErrNotFound) {
					return nil, fmt.Errorf("city %q: %w", city, flow.ErrNotFound)
				}
				return nil, err
			}
			wx, err := gw.CurrentWeather(ctx, coords.Lat, coords.Lon)
			if err != nil {
				return nil, err
			}
			return flow.SendText{Text: weatherReport(city, wx)}, nil
		},
		RetryText: weatherCityNotFound,
		AbortText: GenericFailText,
	}
}

func weatherReport(city string, wx providers.Weather) string {
	return fmt.Sprintf(
		"В городе %s сейчас %s \U000026A1.\n"+
			"Температура \U0001F321: %.1f°C, ощущается как %.1f°C \U0001F975.\n"+
			"Влажность \U0001F4A7: %d%%, скорость ветра \U0001F32C: %.1f м/с \U0001F4A8.\n",
		city, wx.Description, wx.TempC, wx.FeelsLikeC, wx.HumidityPct, wx.WindSpeed,
	)
}
