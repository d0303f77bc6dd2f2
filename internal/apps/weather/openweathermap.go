package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org"
	requestTimeout = 10 * time.Second
)

var (
	ErrNoAPIKey     = errors.New("no API key")
	ErrUnauthorized = errors.New("invalid API key")
	ErrCityNotFound = errors.New("city not found")
	ErrTimeout      = errors.New("connection timeout")
	ErrOffline      = errors.New("no internet connection")
)

// StatusError is an unexpected HTTP status from the weather service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather service returned %d", e.Code)
}

// OpenWeatherMap fetches current conditions in imperial units from the OpenWeatherMap REST API.
type OpenWeatherMap struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewOpenWeatherMap(apiKey string) *OpenWeatherMap {
	return &OpenWeatherMap{
		BaseURL: DefaultBaseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: requestTimeout},
	}
}

type currentResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (o *OpenWeatherMap) Current(ctx context.Context, city string) (Report, error) {
	if o.APIKey == "" {
		return Report{}, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", o.APIKey)
	q.Set("units", "imperial")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.BaseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return Report{}, err
	}

	resp, err := o.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Report{}, ctx.Err()
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return Report{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return Report{}, fmt.Errorf("%w: %v", ErrOffline, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return Report{}, ErrUnauthorized
	case http.StatusNotFound:
		return Report{}, ErrCityNotFound
	default:
		return Report{}, &StatusError{Code: resp.StatusCode}
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Report{}, fmt.Errorf("decode weather: %w", err)
	}
	if len(body.Weather) == 0 {
		return Report{}, errors.New("decode weather: no conditions")
	}
	return Report{
		City:      city,
		Temp:      body.Main.Temp,
		FeelsLike: body.Main.FeelsLike,
		Condition: body.Weather[0].Description,
		Humidity:  body.Main.Humidity,
		Wind:      body.Wind.Speed,
	}, nil
}
