package providers

import (
	"context"
	"fmt"
	"net/url"
)

// Coords is a geocoded location.
type Coords struct {
	Lat float64
	Lon float64
}

// Weather is a normalized current-conditions report.
type Weather struct {
	Description string
	TempC       float64
	FeelsLikeC  float64
	HumidityPct int
	WindSpeed   float64
}

// Geocode resolves a city name to coordinates via OpenWeather direct
// geocoding. An empty result set maps to ErrNotFound.
func (c *Client) Geocode(ctx context.Context, city string) (Coords, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("limit", "5")
	q.Set("appid", c.weatherKey)

	var results []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := c.getJSON(ctx, "openweather.geo", c.geoURL+"?"+q.Encode(), nil, &results); err != nil {
		return Coords{}, err
	}
	if len(results) == 0 {
		return Coords{}, fmt.Errorf("geocode %q: %w", city, ErrNotFound)
	}
	return Coords{Lat: results[0].Lat, Lon: results[0].Lon}, nil
}

// CurrentWeather fetches current conditions for the coordinates,
// metric units, Russian descriptions.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (Weather, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", lat))
	q.Set("lon", fmt.Sprintf("%g", lon))
	q.Set("units", "metric")
	q.Set("lang", "ru")
	q.Set("appid", c.weatherKey)

	var resp struct {
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := c.getJSON(ctx, "openweather.current", c.weatherURL+"?"+q.Encode(), nil, &resp); err != nil {
		return Weather{}, err
	}
	w := Weather{
		TempC:       resp.Main.Temp,
		FeelsLikeC:  resp.Main.FeelsLike,
		HumidityPct: resp.Main.Humidity,
		WindSpeed:   resp.Wind.Speed,
	}
	if len(resp.Weather) > 0 {
		w.Description = resp.Weather[0].Description
	}
	return w, nil
}
