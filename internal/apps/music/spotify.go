package music

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

const (
	DefaultAPIURL   = "https://api.spotify.com"
	DefaultAuthURL  = "https://accounts.spotify.com/authorize"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	// RequestTimeout bounds every API call and token refresh.
	RequestTimeout = 5 * time.Second
)

// Scopes are the permissions the refresh token must have been granted.
var Scopes = []string{"user-read-playback-state", "user-modify-playback-state"}

var ErrNotConfigured = errors.New("spotify credentials not configured")

// APIError is an error response from the Web API.
type APIError struct {
	Status  int
	Message string
	Reason  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("spotify: status %d", e.Status)
	}
	return fmt.Sprintf("spotify: %d %s", e.Status, e.Message)
}

// Is makes a NO_ACTIVE_DEVICE response match ErrNoDevice.
func (e *APIError) Is(target error) bool {
	return target == ErrNoDevice && e.Reason == "NO_ACTIVE_DEVICE"
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	// RefreshToken comes from a one-time authorization code flow done elsewhere.
	RefreshToken string

	// APIURL and TokenURL default to the public endpoints.
	APIURL   string
	TokenURL string

	// Timeout defaults to RequestTimeout.
	Timeout time.Duration
}

// Spotify is a Player backed by the Spotify Web API. Access tokens are refreshed automatically.
type Spotify struct {
	api     string
	client  *http.Client
	timeout time.Duration
}

// NewSpotify returns a client for cfg. A client without credentials is still returned; every call on it fails
// with ErrNotConfigured.
func NewSpotify(ctx context.Context, cfg SpotifyConfig) *Spotify {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = RequestTimeout
	}
	s := &Spotify{api: cfg.APIURL, timeout: cfg.Timeout}
	if cfg.ClientID == "" || cfg.RefreshToken == "" {
		return s
	}

	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   DefaultAuthURL,
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		Scopes: Scopes,
	}
	// token refreshes go through base, API calls through the client wrapping it
	base := &http.Client{Timeout: cfg.Timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	s.client = oauth2.NewClient(ctx, conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}))
	s.client.Timeout = cfg.Timeout
	return s
}

type playerResponse struct {
	IsPlaying bool `json:"is_playing"`
	Item      *struct {
		Name    string `json:"name"`
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
	} `json:"item"`
}

func (s *Spotify) Playback(ctx context.Context) (*Playback, error) {
	var body playerResponse
	found, err := s.call(ctx, http.MethodGet, "/v1/me/player", nil, &body)
	if err != nil || !found {
		return nil, err
	}
	pb := &Playback{Playing: body.IsPlaying}
	if body.Item != nil {
		pb.Track = &Track{Name: body.Item.Name}
		if len(body.Item.Artists) > 0 {
			pb.Track.Artist = body.Item.Artists[0].Name
		}
	}
	return pb, nil
}

func (s *Spotify) Play(ctx context.Context) error {
	_, err := s.call(ctx, http.MethodPut, "/v1/me/player/play", nil, nil)
	return err
}

func (s *Spotify) PlayOn(ctx context.Context, deviceID string) error {
	q := url.Values{}
	q.Set("device_id", deviceID)
	_, err := s.call(ctx, http.MethodPut, "/v1/me/player/play", q, nil)
	return err
}

func (s *Spotify) Pause(ctx context.Context) error {
	_, err := s.call(ctx, http.MethodPut, "/v1/me/player/pause", nil, nil)
	return err
}

func (s *Spotify) Next(ctx context.Context) error {
	_, err := s.call(ctx, http.MethodPost, "/v1/me/player/next", nil, nil)
	return err
}

func (s *Spotify) Previous(ctx context.Context) error {
	_, err := s.call(ctx, http.MethodPost, "/v1/me/player/previous", nil, nil)
	return err
}

func (s *Spotify) Devices(ctx context.Context) ([]Device, error) {
	var body struct {
		Devices []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			IsActive bool   `json:"is_active"`
		} `json:"devices"`
	}
	if _, err := s.call(ctx, http.MethodGet, "/v1/me/player/devices", nil, &body); err != nil {
		return nil, err
	}
	out := make([]Device, 0, len(body.Devices))
	for _, d := range body.Devices {
		out = append(out, Device{ID: d.ID, Name: d.Name, Active: d.IsActive})
	}
	return out, nil
}

// call performs one request. found is false when the API answered 204 No Content.
func (s *Spotify) call(ctx context.Context, method, path string, q url.Values, out any) (found bool, err error) {
	if s.client == nil {
		return false, ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u := s.api + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return false, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("spotify %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}
	if resp.StatusCode >= 300 {
		return false, decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return true, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("spotify %s %s: decode: %w", method, path, err)
	}
	return true, nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
			Reason  string `json:"reason"`
		} `json:"error"`
	}
	e := &APIError{Status: resp.StatusCode}
	if json.NewDecoder(resp.Body).Decode(&body) == nil {
		e.Message = body.Error.Message
		e.Reason = body.Error.Reason
	}
	return e
}
