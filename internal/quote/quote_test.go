package quote

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, "test-key")
}

func TestLookup(t *testing.T) {
	client := newTestServer(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/stock/NFLX/quote", request.URL.Path)
		assert.Equal(t, "test-key", request.URL.Query().Get("token"))
		fmt.Fprint(writer, `{"symbol": "NFLX", "companyName": "Netflix, Inc.", "latestPrice": 180.45}`)
	})

	result, err := client.Lookup("nflx")
	require.NoError(t, err)
	assert.Equal(t, "NFLX", result.Symbol)
	assert.Equal(t, "Netflix, Inc.", result.Name)
	assert.Equal(t, "180.45", result.Price.String())
}

func TestLookupUnknownSymbol(t *testing.T) {
	client := newTestServer(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	})

	result, err := client.Lookup("NOPE")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestLookupEmptySymbol(t *testing.T) {
	client := NewClient("http://localhost:1", "test-key")

	for _, symbol := range []string{"", "   "} {
		result, err := client.Lookup(symbol)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrUnknownSymbol)
	}
}

func TestLookupServerError(t *testing.T) {
	client := newTestServer(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
	})

	result, err := client.Lookup("NFLX")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownSymbol)
}

func TestLookupRejectsUnusablePrices(t *testing.T) {
	bodies := []string{
		`{"symbol": "NFLX", "companyName": "Netflix, Inc."}`,
		`{"symbol": "NFLX", "companyName": "Netflix, Inc.", "latestPrice": 0}`,
		`{"symbol": "NFLX", "companyName": "Netflix, Inc.", "latestPrice": -1.5}`,
		`not json at all`,
	}

	for _, body := range bodies {
		client := newTestServer(t, func(writer http.ResponseWriter, request *http.Request) {
			fmt.Fprint(writer, body)
		})

		result, err := client.Lookup("NFLX")
		assert.Nil(t, result, "body: %s", body)
		assert.Error(t, err, "body: %s", body)
	}
}
