package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/talentra/ems-api/pkg/errors"
)

func TestLoginStoresAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@talentra.io", body["email"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"access_token":"tok-1","refresh_token":"ref-1","expires_in":900}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	out, err := c.Login(context.Background(), "ana@talentra.io", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", out.AccessToken)
	assert.Equal(t, "tok-1", c.Token())
}

func TestMonthAttendanceSendsBearerAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))
		assert.Equal(t, "/employees/me/attendance", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		assert.Equal(t, "3", r.URL.Query().Get("month"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"year":2024,"month":3,"records":[],"summary":{"present_count":2,"late_count":0,"half_day_count":0,"leave_count":1},"cells":[]}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok-9"))
	view, err := c.MonthAttendance(context.Background(), "me", 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 2024, view.Year)
	assert.Equal(t, 2, view.Summary.Present)
	assert.Equal(t, 1, view.Summary.OnLeave)
}

func TestServerErrorSurfacesTypedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"ALREADY_CHECKED_IN","message":"attendance already has an open check-in","status":409}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	err := c.CheckIn(context.Background())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ALREADY_CHECKED_IN", appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestCheckOutAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/attendance/check-out", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	require.NoError(t, c.CheckOut(context.Background()))
}

func TestNonEnvelopeBodyReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.TodayAttendance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
