package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sample = `{
	"weather": [{"id": 500, "main": "Rain", "description": "light rain"}],
	"main": {"temp": 71.6, "feels_like": 72.4, "humidity": 64},
	"wind": {"speed": 5.82},
	"name": "Boston"
}`

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/weather" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "Boston" || q.Get("appid") != "k3y" || q.Get("units") != "imperial" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	o := NewOpenWeatherMap("k3y")
	o.BaseURL = srv.URL
	got, err := o.Current(context.Background(), "Boston")
	if err != nil {
		t.Fatal(err)
	}
	want := Report{City: "Boston", Temp: 71.6, FeelsLike: 72.4, Condition: "light rain", Humidity: 64, Wind: 5.82}
	if got != want {
		t.Fatalf("Current = %+v, want %+v", got, want)
	}
}

func TestCurrentErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, "", func(err error) bool { return errors.Is(err, ErrUnauthorized) }},
		{"not found", http.StatusNotFound, "", func(err error) bool { return errors.Is(err, ErrCityNotFound) }},
		{"server error", http.StatusBadGateway, "", func(err error) bool {
			var se *StatusError
			return errors.As(err, &se) && se.Code == http.StatusBadGateway
		}},
		{"bad body", http.StatusOK, "{", func(err error) bool { return err != nil }},
		{"no conditions", http.StatusOK, `{"weather": []}`, func(err error) bool { return err != nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			o := NewOpenWeatherMap("k3y")
			o.BaseURL = srv.URL
			if _, err := o.Current(context.Background(), "Nowhere"); !tt.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}

func TestCurrentNoKey(t *testing.T) {
	if _, err := NewOpenWeatherMap("").Current(context.Background(), "Boston"); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("err = %v", err)
	}
}

func TestCurrentOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	o := NewOpenWeatherMap("k3y")
	o.BaseURL = url
	if _, err := o.Current(context.Background(), "Boston"); !errors.Is(err, ErrOffline) {
		t.Fatalf("err = %v", err)
	}
}

func TestCurrentTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	o := NewOpenWeatherMap("k3y")
	o.BaseURL = srv.URL
	o.Client.Timeout = 50 * time.Millisecond
	if _, err := o.Current(context.Background(), "Boston"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v", err)
	}
}
