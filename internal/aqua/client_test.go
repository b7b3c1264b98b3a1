package aqua

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSessions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getSessionsAqua", r.URL.Path)
		assert.Equal(t, "01.01.2030", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(`{"sessions":["10:00","12:00"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 1)
	slots, err := c.GetSessions(context.Background(), "01.01.2030")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "12:00"}, slots)
}

func TestGetTariffsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 1)
	_, err := c.GetTariffs(context.Background(), "01.01.2030")
	assert.Error(t, err)
}

func TestCurrentLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/CurrentLoad", r.URL.Path)

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 7, body["SiteID"])

		_, _ = w.Write([]byte(`{"load": 63}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 7)
	load, err := c.CurrentLoad(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 63, load)
}

func TestCurrentLoadUnrecognizedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 1)
	_, err := c.CurrentLoad(context.Background())
	assert.Error(t, err)
}
