package weatherapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vzahanych/weather-widget/internal/config"
)

const londonBody = `{
  "location": {"name": "London", "region": "City of London, Greater London", "country": "United Kingdom", "lat": 51.52, "lon": -0.11, "localtime": "2025-05-30 10:00"},
  "current": {"temp_c": 17.2, "feelslike_c": 17.0, "condition": {"text": "Partly cloudy", "code": 1003}, "humidity": 64, "wind_kph": 14.4, "is_day": 1},
  "forecast": {"forecastday": [
    {"date": "2025-06-01", "day": {"maxtemp_c": 21.0, "mintemp_c": 12.5, "condition": {"text": "Sunny"}}},
    {"date": "2025-05-30", "day": {"maxtemp_c": 19.4, "mintemp_c": 11.1, "condition": {"text": "Partly cloudy"}}},
    {"date": "2025-05-31", "day": {"maxtemp_c": 16.0, "mintemp_c": 10.2, "condition": {"text": "Rain"}}}
  ]}
}`

type recordedCall struct {
	success bool
	kind    string
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeRecorder) RecordWeatherCall(ctx context.Context, success bool, kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{success: success, kind: kind})
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(config.WeatherConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Days:    3,
	}, zaptest.NewLogger(t), nil)
}

func TestFetchSendsQueryAndSortsDays(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"key":  r.URL.Query().Get("key"),
			"q":    r.URL.Query().Get("q"),
			"days": r.URL.Query().Get("days"),
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, londonBody)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL+"/")
	recorder := &fakeRecorder{}
	client.SetMetricsRecorder(recorder)

	forecast, err := client.Fetch(context.Background(), City("London"))
	require.NoError(t, err)

	assert.Equal(t, "/forecast.json", gotPath)
	assert.Equal(t, map[string]string{"key": "test-key", "q": "London", "days": "3"}, gotQuery)

	assert.Equal(t, "London", forecast.Location.Name)
	assert.Equal(t, "United Kingdom", forecast.Location.Country)
	assert.Equal(t, 17.2, forecast.Current.TempC)
	assert.Equal(t, 64, forecast.Current.Humidity)
	assert.Equal(t, 14.4, forecast.Current.WindKph)
	assert.Equal(t, "Partly cloudy", forecast.Current.Condition.Text)

	require.Len(t, forecast.Forecast.Days, 3)
	assert.Equal(t, "2025-05-30", forecast.Forecast.Days[0].Date)
	assert.Equal(t, "2025-05-31", forecast.Forecast.Days[1].Date)
	assert.Equal(t, "2025-06-01", forecast.Forecast.Days[2].Date)

	require.Len(t, recorder.calls, 1)
	assert.True(t, recorder.calls[0].success)
}

func TestFetchCoordinatesQuery(t *testing.T) {
	var gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		fmt.Fprint(w, londonBody)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Fetch(context.Background(), Coordinates(51.5, -0.12))
	require.NoError(t, err)
	assert.Equal(t, "51.5,-0.12", gotQ)
}

func TestFetchClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   Kind
	}{
		{
			name:   "no location found",
			status: http.StatusBadRequest,
			body:   `{"error": {"code": 1006, "message": "No matching location found."}}`,
			kind:   KindNotFound,
		},
		{
			name:   "too many requests",
			status: http.StatusTooManyRequests,
			body:   ``,
			kind:   KindRateLimited,
		},
		{
			name:   "quota exceeded",
			status: http.StatusForbidden,
			body:   `{"error": {"code": 2007, "message": "API key has exceeded calls per month quota."}}`,
			kind:   KindRateLimited,
		},
		{
			name:   "invalid key",
			status: http.StatusUnauthorized,
			body:   `{"error": {"code": 2006, "message": "API key is invalid."}}`,
			kind:   KindUnknown,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `oops`,
			kind:   KindUnknown,
		},
		{
			name:   "malformed document",
			status: http.StatusOK,
			body:   `{"location": `,
			kind:   KindUnknown,
		},
		{
			name:   "short forecast",
			status: http.StatusOK,
			body:   `{"location": {"name": "London"}, "forecast": {"forecastday": [{"date": "2025-05-30"}]}}`,
			kind:   KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL)
			recorder := &fakeRecorder{}
			client.SetMetricsRecorder(recorder)

			forecast, err := client.Fetch(context.Background(), City("Nowhere"))
			assert.Nil(t, forecast)

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.kind, fe.Kind)
			assert.Equal(t, Message, err.Error())

			require.Len(t, recorder.calls, 1)
			assert.False(t, recorder.calls[0].success)
			assert.Equal(t, tt.kind.String(), recorder.calls[0].kind)
		})
	}
}

func TestFetchNetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).Fetch(context.Background(), City("London"))
	require.Error(t, err)
	assert.Equal(t, KindNetworkUnavailable, KindOf(err))
}

func TestFetchEmptyQueryMakesNoCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Fetch(context.Background(), City(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyQuery))
	assert.False(t, called)
}

func TestFetchTruncatesExtraDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"location": {"name": "Tokyo"}, "forecast": {"forecastday": [
			{"date": "2025-05-30"}, {"date": "2025-05-31"}, {"date": "2025-06-01"}, {"date": "2025-06-02"}
		]}}`)
	}))
	defer srv.Close()

	forecast, err := newTestClient(t, srv.URL).Fetch(context.Background(), City("Tokyo"))
	require.NoError(t, err)
	require.Len(t, forecast.Forecast.Days, 3)
	assert.Equal(t, "2025-06-01", forecast.Forecast.Days[2].Date)
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", &FetchError{Kind: KindNotFound})))
}
