package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStaticLocator(t *testing.T) {
	pos, err := Static{Latitude: 48.8566, Longitude: 2.3522}.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Position{Latitude: 48.8566, Longitude: 2.3522}, pos)
}

func TestStaticLocatorOutOfRange(t *testing.T) {
	_, err := Static{Latitude: 123, Longitude: 0}.Locate(context.Background())

	var le *LocationError
	require.True(t, errors.As(err, &le))
}

func TestDeniedLocator(t *testing.T) {
	_, err := Denied{}.Locate(context.Background())

	var le *LocationError
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, ErrPermissionDenied))
}

func TestIPLocator(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    Position
		wantErr bool
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"status": "success", "lat": 52.52, "lon": 13.405, "city": "Berlin"}`,
			want:   Position{Latitude: 52.52, Longitude: 13.405},
		},
		{
			name:    "rejected",
			status:  http.StatusOK,
			body:    `{"status": "fail", "message": "private range"}`,
			wantErr: true,
		},
		{
			name:    "upstream error",
			status:  http.StatusServiceUnavailable,
			body:    ``,
			wantErr: true,
		},
		{
			name:    "garbage",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			pos, err := NewIPLocator(srv.URL, zaptest.NewLogger(t)).Locate(context.Background())
			if tt.wantErr {
				var le *LocationError
				require.True(t, errors.As(err, &le))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, pos)
		})
	}
}
