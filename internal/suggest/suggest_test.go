package suggest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStaticSuggest(t *testing.T) {
	s := NewStatic(nil)

	tests := []struct {
		text string
		want []string
	}{
		{text: "Lo", want: []string{"London"}},
		{text: "lo", want: []string{"London"}},
		{text: "o", want: []string{"London", "New York", "Tokyo"}},
		{text: "", want: []string{"London", "New York", "Tokyo", "Paris", "Berlin"}},
		{text: "xyz", want: []string{}},
		{text: "PARIS", want: []string{"Paris"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := s.Suggest(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStaticCustomList(t *testing.T) {
	s := NewStatic([]string{"Lisbon", "Porto"})

	got, err := s.Suggest(context.Background(), "port")
	require.NoError(t, err)
	assert.Equal(t, []string{"Porto"}, got)
}

func TestOpenMeteoSuggest(t *testing.T) {
	var gotName, gotCount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		gotName = r.URL.Query().Get("name")
		gotCount = r.URL.Query().Get("count")
		fmt.Fprint(w, `{"results": [
			{"name": "London", "country": "United Kingdom"},
			{"name": "London", "country": "Canada"},
			{"name": "Londonderry", "country": "United Kingdom"}
		]}`)
	}))
	defer srv.Close()

	s := NewOpenMeteo(srv.URL, 5, zaptest.NewLogger(t))

	got, err := s.Suggest(context.Background(), "Lon")
	require.NoError(t, err)
	assert.Equal(t, []string{"London", "Londonderry"}, got)
	assert.Equal(t, "Lon", gotName)
	assert.Equal(t, "5", gotCount)
}

func TestOpenMeteoEmptyTextSkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	got, err := NewOpenMeteo(srv.URL, 5, zaptest.NewLogger(t)).Suggest(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, called)
}

func TestOpenMeteoUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewOpenMeteo(srv.URL, 5, zaptest.NewLogger(t)).Suggest(context.Background(), "Par")
	assert.Error(t, err)
}
