package ratings

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig(baseURL string) *config.RatingsConfig {
	return &config.RatingsConfig{
		BaseURL:         baseURL,
		APIKey:          "test-key",
		TimeoutSeconds:  5,
		RetryAttempts:   1,
		RequestsPerSec:  100,
		CacheTTLSeconds: 60,
	}
}

func TestClientGetRating(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ratings/tennis/Djokovic", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(Rating{
			Name:      "Djokovic",
			Sport:     "tennis",
			Elo:       2250,
			Rank:      1,
			UpdatedAt: time.Now(),
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())
	defer client.Close()

	rating, err := client.GetRating(context.Background(), models.SportTennis, "Djokovic")
	require.NoError(t, err)
	assert.Equal(t, "Djokovic", rating.Name)
	assert.Equal(t, 2250.0, rating.Elo)
	assert.Equal(t, 1, rating.Rank)
}

func TestClientGetRatingNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())
	defer client.Close()

	_, err := client.GetRating(context.Background(), models.SportTennis, "Nobody")
	assert.ErrorIs(t, err, ErrRatingNotFound)
}

func TestClientGetRatingsTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ratings/tennis", r.URL.Path)
		json.NewEncoder(w).Encode([]*Rating{
			{Name: "Djokovic", Sport: "tennis", Elo: 2250, Rank: 1},
			{Name: "Alcaraz", Sport: "tennis", Elo: 2230, Rank: 2},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())
	defer client.Close()

	ratings, err := client.GetRatings(context.Background(), models.SportTennis)
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, "Alcaraz", ratings[1].Name)
}

func TestClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(Rating{Name: "Sinner", Elo: 2200, Rank: 3})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())
	defer client.Close()

	rating, err := client.GetRating(context.Background(), models.SportTennis, "Sinner")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "Sinner", rating.Name)
}

func TestClientInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not-json")
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())
	defer client.Close()

	_, err := client.GetRating(context.Background(), models.SportTennis, "Djokovic")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

type stubFetcher struct {
	ratings map[string]*Rating
	calls   int
}

func (s *stubFetcher) GetRating(ctx context.Context, sport models.Sport, name string) (*Rating, error) {
	s.calls++
	if r, ok := s.ratings[name]; ok {
		return r, nil
	}
	return nil, ErrRatingNotFound
}

func (s *stubFetcher) GetRatings(ctx context.Context, sport models.Sport) ([]*Rating, error) {
	s.calls++
	out := make([]*Rating, 0, len(s.ratings))
	for _, r := range s.ratings {
		out = append(out, r)
	}
	return out, nil
}

func TestCachedClientHit(t *testing.T) {
	fetcher := &stubFetcher{ratings: map[string]*Rating{
		"Djokovic": {Name: "Djokovic", Elo: 2250, Rank: 1},
	}}
	cached := NewCachedClient(fetcher, testConfig("http://localhost"), testLogger())

	for i := 0; i < 3; i++ {
		rating, err := cached.GetRating(context.Background(), models.SportTennis, "Djokovic")
		require.NoError(t, err)
		assert.Equal(t, 2250.0, rating.Elo)
	}

	assert.Equal(t, 1, fetcher.calls)
}

func TestCachedClientNegativeCaching(t *testing.T) {
	fetcher := &stubFetcher{ratings: map[string]*Rating{}}
	cached := NewCachedClient(fetcher, testConfig("http://localhost"), testLogger())

	for i := 0; i < 3; i++ {
		_, err := cached.GetRating(context.Background(), models.SportTennis, "Nobody")
		assert.ErrorIs(t, err, ErrRatingNotFound)
	}

	assert.Equal(t, 1, fetcher.calls)
}

func TestCachedClientTableWarmsPlayers(t *testing.T) {
	fetcher := &stubFetcher{ratings: map[string]*Rating{
		"Djokovic": {Name: "Djokovic", Elo: 2250, Rank: 1},
		"Alcaraz":  {Name: "Alcaraz", Elo: 2230, Rank: 2},
	}}
	cached := NewCachedClient(fetcher, testConfig("http://localhost"), testLogger())

	_, err := cached.GetRatings(context.Background(), models.SportTennis)
	require.NoError(t, err)

	// Per-player lookups should be served from the warmed cache
	rating, err := cached.GetRating(context.Background(), models.SportTennis, "Alcaraz")
	require.NoError(t, err)
	assert.Equal(t, 2230.0, rating.Elo)
	assert.Equal(t, 1, fetcher.calls)
}

func TestCachedClientClear(t *testing.T) {
	fetcher := &stubFetcher{ratings: map[string]*Rating{
		"Djokovic": {Name: "Djokovic", Elo: 2250, Rank: 1},
	}}
	cached := NewCachedClient(fetcher, testConfig("http://localhost"), testLogger())

	_, err := cached.GetRating(context.Background(), models.SportTennis, "Djokovic")
	require.NoError(t, err)

	cached.Clear()
	assert.Equal(t, 0, cached.ItemCount())

	_, err = cached.GetRating(context.Background(), models.SportTennis, "Djokovic")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}
