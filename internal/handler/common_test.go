package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-room-reservation/internal/booking"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBookingErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &booking.ValidationError{Reason: "start must be before end"}, http.StatusBadRequest},
		{"conflict", booking.ErrConflict, http.StatusConflict},
		{"wrapped conflict", fmt.Errorf("submit: %w", booking.ErrConflict), http.StatusConflict},
		{"room missing", booking.ErrRoomNotFound, http.StatusNotFound},
		{"reservation missing", booking.ErrReservationNotFound, http.StatusNotFound},
		{"forbidden", booking.ErrForbidden, http.StatusForbidden},
		{"lost transition race", booking.ErrInvalidTransition, http.StatusConflict},
		{"storage down", fmt.Errorf("%w: select: timeout", booking.ErrUnavailable), http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			if err := bookingError(c, tc.err); err != nil {
				t.Fatalf("bookingError returned %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestConflictResponseCarriesCode(t *testing.T) {
	c, rec := newTestContext(t)
	if err := bookingError(c, booking.ErrConflict); err != nil {
		t.Fatalf("bookingError returned %v", err)
	}
	body := rec.Body.String()
	if want := `"code":"conflict"`; !strings.Contains(body, want) {
		t.Errorf("body %q missing %q", body, want)
	}
}

func TestGetUserIDAcceptsStoredTypes(t *testing.T) {
	for _, v := range []interface{}{uint64(7), int(7), int64(7), float64(7), "7"} {
		c, _ := newTestContext(t)
		c.Set("user_id", v)
		got, err := getUserID(c)
		if err != nil {
			t.Errorf("getUserID(%T): %v", v, err)
			continue
		}
		if got != 7 {
			t.Errorf("getUserID(%T) = %d, want 7", v, got)
		}
	}

	c, _ := newTestContext(t)
	if _, err := getUserID(c); err == nil {
		t.Error("missing user_id should error")
	}
}
