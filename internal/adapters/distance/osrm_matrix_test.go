package distance

import (
	"context"
	"escort-route-service/internal/domain"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestOSRM(t *testing.T, url string) *OSRMMatrixProvider {
	t.Helper()
	p, err := NewOSRMMatrixProvider(url + "/")
	require.NoError(t, err)
	p.retrier.Backoff = time.Millisecond
	return p
}

func TestOSRMMatrixProvider(t *testing.T) {
	var path, query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, query = r.URL.Path, r.URL.RawQuery
		io.WriteString(w, `{"code":"Ok",
			"distances":[[0,5000],[5100,0]],
			"durations":[[0,600],[610,0]]}`)
	}))
	defer srv.Close()

	m, err := newTestOSRM(t, srv.URL).GetMatrix(context.Background(), twoPoints)
	require.NoError(t, err)

	require.Equal(t, "/table/v1/driving/77.5900000,12.9700000;77.6200000,12.9300000", path)
	require.Equal(t, "annotations=distance,duration", query)
	require.Equal(t, twoPointMatrix(), m)
}

func TestOSRMMatrixProviderRejectsUnroutableCells(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":"Ok",
			"distances":[[0,null],[5100,0]],
			"durations":[[0,600],[610,0]]}`)
	}))
	defer srv.Close()

	_, err := newTestOSRM(t, srv.URL).GetMatrix(context.Background(), twoPoints)
	require.ErrorIs(t, err, domain.ErrInvalidMatrix)
}

func TestOSRMMatrixProviderRejectsTruncatedTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":"Ok","distances":[[0,5000]],"durations":[[0,600],[610,0]]}`)
	}))
	defer srv.Close()

	_, err := newTestOSRM(t, srv.URL).GetMatrix(context.Background(), twoPoints)
	require.ErrorIs(t, err, domain.ErrInvalidMatrix)
}

func TestOSRMMatrixProviderRetriesUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{"code":"Ok","distances":[[0,5000],[5100,0]],"durations":[[0,600],[610,0]]}`)
	}))
	defer srv.Close()

	_, err := newTestOSRM(t, srv.URL).GetMatrix(context.Background(), twoPoints)
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestOSRMMatrixProviderErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":"InvalidQuery","message":"Query string malformed"}`)
	}))
	defer srv.Close()

	_, err := newTestOSRM(t, srv.URL).GetMatrix(context.Background(), twoPoints)
	require.ErrorContains(t, err, "InvalidQuery")
}

func TestNewOSRMMatrixProviderRequiresURL(t *testing.T) {
	_, err := NewOSRMMatrixProvider("  ")
	require.Error(t, err)
}
