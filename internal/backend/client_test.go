package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Token: "secret"}, zap.NewNop())
}

func TestClient_FetchAttendance(t *testing.T) {
	ctx := context.Background()

	t.Run("sends scope and decodes array", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/attendance", r.URL.Path)
			assert.Equal(t, "C1", r.URL.Query().Get("companyId"))
			assert.Equal(t, "2024-05-01", r.URL.Query().Get("startDate"))
			assert.Equal(t, "2024-05-31", r.URL.Query().Get("endDate"))
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			w.Write([]byte(`[
				{"_id":"A1","date":"2024-05-01T00:00:00.000Z","driver":{"_id":"D1","name":"Ravi","dailyWage":600},"vehicle":"V1"},
				{"_id":"A2","date":"2024-05-02","punchIn":{"km":"1200","photos":[{"url":"x"}]}}
			]`))
		})

		records, err := client.FetchAttendance(ctx, models.RangeQuery{
			CompanyID: "C1",
			StartDate: "2024-05-01",
			EndDate:   "2024-05-31",
		})

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Ravi", records[0].DriverName())
		assert.Equal(t, models.Some(600), records[0].Driver.DailyWage)
		assert.Equal(t, "V1", records[0].Vehicle.ID)
		// Mistyped photos degrade, the rest of the record survives
		assert.Equal(t, "A2", records[1].ID)
		assert.Equal(t, 1200.0, records[1].StartKM())
	})

	t.Run("decodes data envelope", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"data":[{"_id":"F1","amount":"2500","vehicle":{"carNumber":"KA01"}}]}`))
		})

		records, err := client.FetchFuel(ctx, models.RangeQuery{CompanyID: "C1"})

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 2500.0, records[0].Amount.Float())
	})

	t.Run("propagates http failure", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.FetchParking(ctx, models.RangeQuery{CompanyID: "C1"})

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	})
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("calls kind endpoint", func(t *testing.T) {
		var gotPath, gotMethod string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath, gotMethod = r.URL.Path, r.Method
			w.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, client.Delete(ctx, models.KindAccident, "X9"))
		assert.Equal(t, http.MethodDelete, gotMethod)
		assert.Equal(t, "/api/accident-logs/X9", gotPath)
	})

	t.Run("surfaces backend message", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"Advance already recovered"}`))
		})

		err := client.Delete(ctx, models.KindAdvance, "AD1")

		require.Error(t, err)
		assert.Equal(t, "Advance already recovered", err.Error())
	})

	t.Run("rejects empty id", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("backend must not be called")
		})

		assert.ErrorIs(t, client.Delete(ctx, models.KindFuel, " "), ErrMissingRecordID)
	})
}
