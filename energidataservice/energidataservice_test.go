package energidataservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/icodeforyou/spotboard-go/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDayAheadPrices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dataset/DayAheadPrices", r.URL.Path)
		assert.Equal(t, "2025-01-01T06:00", r.URL.Query().Get("start"))
		assert.Equal(t, `{"PriceArea":["DK2"]}`, r.URL.Query().Get("filter"))
		assert.Equal(t, "TimeDK ASC", r.URL.Query().Get("sort"))
		assert.Contains(t, r.URL.RawQuery, "sort=TimeDK%20ASC")
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total": 2,
			"dataset": "DayAheadPrices",
			"records": [
				{"TimeUTC": "2025-01-01T05:00:00", "TimeDK": "2025-01-01T06:00:00", "PriceArea": "DK2", "DayAheadPriceDKK": 612.5},
				{"TimeUTC": "2025-01-01T05:15:00", "TimeDK": "2025-01-01T06:15:00", "PriceArea": "DK2", "DayAheadPriceDKK": null}
			]
		}`))
	}))
	defer ts.Close()

	eds := New(ts.URL+"/", "DK2", 0, 5*time.Second)
	records, err := eds.GetDayAheadPrices(context.Background(), time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "2025-01-01T06:00:00", records[0][FieldTimeDK])
	assert.Equal(t, 612.5, records[0][FieldDayAheadPriceDKK])
	assert.Nil(t, records[1][FieldDayAheadPriceDKK])
}

func TestGetPowerSystemRightNow(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dataset/PowerSystemRightNow", r.URL.Path)
		assert.Equal(t, "Minutes1UTC DESC", r.URL.Query().Get("sort"))
		assert.Equal(t, "utc", r.URL.Query().Get("timezone"))
		assert.Equal(t, "60", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"records": [{"Minutes1UTC": "2025-01-01T12:01:00", "SolarPower": 10.5}]}`))
	}))
	defer ts.Close()

	records, err := New(ts.URL, "DK2", 60, 5*time.Second).GetPowerSystemRightNow(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 10.5, records[0][FieldSolarPower])
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"records": [`))
			},
		},
		{
			name: "slow feed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(500 * time.Millisecond)
				_, _ = w.Write([]byte(`{"records": []}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			eds := New(ts.URL, "DK2", 0, 100*time.Millisecond)
			_, err := eds.GetDayAheadPrices(context.Background(), time.Now())
			assert.ErrorIs(t, err, types.ErrFetchFailure)

			_, err = eds.GetPowerSystemRightNow(context.Background())
			assert.ErrorIs(t, err, types.ErrFetchFailure)
		})
	}
}

func TestMissingRecordsIsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total": 0}`))
	}))
	defer ts.Close()

	records, err := New(ts.URL, "DK1", 0, time.Second).GetPowerSystemRightNow(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
