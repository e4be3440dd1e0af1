package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyQuotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kospi,usd_krw", r.URL.Query().Get("symbols"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_token"))
		w.Write([]byte(`[
			{"symbol": "kospi", "value": 2525.1, "change": 12.3, "change_percent": 0.49},
			{"symbol": "usd_krw", "value": 1390.5, "change": -4.2, "change_percent": -0.3}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	result, err := client.DailyQuotes(context.Background(), []string{"kospi", "usd_krw"})
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, 2525.1, result["kospi"].Value)
	assert.True(t, result["kospi"].IsUp)
	assert.False(t, result["usd_krw"].IsUp)
	assert.Equal(t, -0.3, result["usd_krw"].ChangePercent)
}

func TestDailyQuotesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key")
	_, err := client.DailyQuotes(context.Background(), []string{"kospi"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestDailyQuotesEmptySymbols(t *testing.T) {
	client := NewClient("http://unused.example.com", "key")
	result, err := client.DailyQuotes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result)
}
