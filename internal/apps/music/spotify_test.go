package music

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type spotifyServer struct {
	*httptest.Server
	requests []string
	player   string
	status   int
}

func newSpotifyServer(t *testing.T) *spotifyServer {
	t.Helper()
	s := &spotifyServer{status: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		user, _, _ := r.BasicAuth()
		if r.FormValue("grant_type") != "refresh_token" || r.FormValue("refresh_token") != "rt" || user != "id" {
			t.Errorf("bad token request: user %q form %v", user, r.Form)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "tok", "token_type": "Bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/v1/me/", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		s.requests = append(s.requests, r.Method+" "+r.URL.RequestURI())
		switch r.URL.Path {
		case "/v1/me/player":
			if s.player == "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.Write([]byte(s.player))
		case "/v1/me/player/devices":
			w.Write([]byte(`{"devices": [{"id": "d1", "name": "Phone", "is_active": false}, {"id": "d2", "name": "Desk", "is_active": true}]}`))
		case "/v1/me/player/play":
			if r.URL.Query().Get("device_id") == "" && s.status != http.StatusOK {
				w.WriteHeader(s.status)
				w.Write([]byte(`{"error": {"status": 404, "message": "Player command failed: No active device found", "reason": "NO_ACTIVE_DEVICE"}}`))
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *spotifyServer) client() *Spotify {
	return NewSpotify(context.Background(), SpotifyConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "rt",
		APIURL:       s.URL,
		TokenURL:     s.URL + "/api/token",
	})
}

func TestSpotifyPlayback(t *testing.T) {
	srv := newSpotifyServer(t)
	srv.player = `{"is_playing": true, "item": {"name": "Song", "artists": [{"name": "Band"}, {"name": "Guest"}]}}`
	c := srv.client()

	pb, err := c.Playback(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if pb == nil || !pb.Playing || pb.Track == nil || *pb.Track != (Track{Name: "Song", Artist: "Band"}) {
		t.Fatalf("Playback = %+v", pb)
	}

	srv.player = `{"is_playing": false, "item": null}`
	pb, err = c.Playback(context.Background())
	if err != nil || pb == nil || pb.Playing || pb.Track != nil {
		t.Fatalf("Playback = %+v, %v", pb, err)
	}

	srv.player = ""
	pb, err = c.Playback(context.Background())
	if err != nil || pb != nil {
		t.Fatalf("nothing playing: Playback = %+v, %v", pb, err)
	}
}

func TestSpotifyCommands(t *testing.T) {
	srv := newSpotifyServer(t)
	c := srv.client()
	ctx := context.Background()

	for _, f := range []func(context.Context) error{c.Play, c.Pause, c.Next, c.Previous} {
		if err := f(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.PlayOn(ctx, "d2"); err != nil {
		t.Fatal(err)
	}
	devices, err := c.Devices(ctx)
	if err != nil || len(devices) != 2 || !devices[1].Active || devices[0].ID != "d1" {
		t.Fatalf("Devices = %+v, %v", devices, err)
	}

	want := []string{
		"PUT /v1/me/player/play",
		"PUT /v1/me/player/pause",
		"POST /v1/me/player/next",
		"POST /v1/me/player/previous",
		"PUT /v1/me/player/play?device_id=d2",
		"GET /v1/me/player/devices",
	}
	if len(srv.requests) != len(want) {
		t.Fatalf("requests = %q", srv.requests)
	}
	for i := range want {
		if srv.requests[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, srv.requests[i], want[i])
		}
	}
}

func TestSpotifyNoActiveDevice(t *testing.T) {
	srv := newSpotifyServer(t)
	srv.status = http.StatusNotFound
	err := srv.client().Play(context.Background())
	if !errors.Is(err, ErrNoDevice) {
		t.Fatalf("err = %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("err = %#v", err)
	}
}

func TestSpotifyNotConfigured(t *testing.T) {
	c := NewSpotify(context.Background(), SpotifyConfig{ClientID: "id"})
	if _, err := c.Playback(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}

func TestSpotifyTimesOut(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "tok", "token_type": "Bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/v1/me/player", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := NewSpotify(context.Background(), SpotifyConfig{
		ClientID:     "id",
		RefreshToken: "rt",
		APIURL:       srv.URL,
		TokenURL:     srv.URL + "/api/token",
		Timeout:      50 * time.Millisecond,
	})

	done := make(chan error, 1)
	go func() {
		_, err := c.Playback(context.Background())
		done <- err
	}()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("stalled request returned no error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Playback still blocked after 5s")
	}
}

func TestSpotifyDefaultTimeout(t *testing.T) {
	c := NewSpotify(context.Background(), SpotifyConfig{ClientID: "id", RefreshToken: "rt"})
	if c.timeout != RequestTimeout || c.client.Timeout != RequestTimeout {
		t.Fatalf("timeouts %v %v, want %v", c.timeout, c.client.Timeout, RequestTimeout)
	}
}
