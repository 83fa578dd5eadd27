package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	c := New(Config{
		WeatherAPIKey:  "weather-key",
		ExchangeAPIKey: "exchange-key",
		Timeout:        2 * time.Second,
	})
	return c
}

func TestGeocodeOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Москва" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("appid"); got != "weather-key" {
			t.Errorf("appid = %q", got)
		}
		w.Write([]byte(`[{"lat":55.75,"lon":37.62},{"lat":1,"lon":2}]`))
	}))
	defer srv.Close()

	c := testClient(t)
	c.geoURL = srv.URL

	coords, err := c.Geocode(context.Background(), "Москва")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if coords.Lat != 55.75 || coords.Lon != 37.62 {
		t.Fatalf("coords = %+v", coords)
	}
}

func TestGeocodeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(t)
	c.geoURL = srv.URL

	_, err := c.Geocode(context.Background(), "Нетакогогорода")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGeocodeServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(t)
	c.geoURL = srv.URL

	_, err := c.Geocode(context.Background(), "Москва")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("5xx must not map to ErrNotFound: %v", err)
	}
}

func TestCurrentWeather(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("units") != "metric" || q.Get("lang") != "ru" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"weather":[{"description":"ясно"}],"main":{"temp":21.4,"feels_like":20.9,"humidity":40},"wind":{"speed":3.2}}`))
	}))
	defer srv.Close()

	c := testClient(t)
	c.weatherURL = srv.URL

	wx, err := c.CurrentWeather(context.Background(), 55.75, 37.62)
	if err != nil {
		t.Fatalf("CurrentWeather: %v", err)
	}
	if wx.Description != "ясно" || wx.TempC != 21.4 || wx.FeelsLikeC != 20.9 || wx.HumidityPct != 40 || wx.WindSpeed != 3.2 {
		t.Fatalf("weather = %+v", wx)
	}
}

func TestConvert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("apikey"); got != "exchange-key" {
			t.Errorf("apikey header = %q", got)
		}
		q := r.URL.Query()
		if q.Get("from") != "EUR" || q.Get("to") != "RUB" || q.Get("amount") != "10" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"query":{"from":"EUR","to":"RUB","amount":10},"result":1000}`))
	}))
	defer srv.Close()

	c := testClient(t)
	c.exchangeURL = srv.URL

	conv, err := c.Convert(context.Background(), "EUR", "RUB", 10)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if conv.From != "EUR" || conv.To != "RUB" || conv.Result != 1000 {
		t.Fatalf("conversion = %+v", conv)
	}
}

func TestConvertMissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"from":"EUR","to":"XXX","amount":10}}`))
	}))
	defer srv.Close()

	c := testClient(t)
	c.exchangeURL = srv.URL

	if _, err := c.Convert(context.Background(), "EUR", "XXX", 10); err == nil {
		t.Fatal("expected error on missing result")
	}
}

func TestRandomAnimalImage(t *testing.T) {
	img := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	var imageSrv *httptest.Server
	imageSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(img)
	}))
	defer imageSrv.Close()

	searchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"url":"` + imageSrv.URL + `"}]`))
	}))
	defer searchSrv.Close()

	c := testClient(t)
	c.catURL = searchSrv.URL
	c.dogURL = searchSrv.URL

	data, err := c.RandomAnimalImage(context.Background())
	if err != nil {
		t.Fatalf("RandomAnimalImage: %v", err)
	}
	if len(data) != len(img) {
		t.Fatalf("image size = %d, want %d", len(data), len(img))
	}
}

func TestTimeoutIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(Config{
		WeatherAPIKey:  "k",
		ExchangeAPIKey: "k",
		Timeout:        50 * time.Millisecond,
	})
	c.geoURL = srv.URL

	_, err := c.Geocode(context.Background(), "Москва")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("timeout must not map to ErrNotFound: %v", err)
	}
}
