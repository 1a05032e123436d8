package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-room-reservation/internal/repository"
)

func newRoomCreateContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/rooms", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// Requests rejected at validation never reach the database, so a repo
// with no live connection is enough for these cases.
func TestCreateRoomValidation(t *testing.T) {
	h := NewAdminRoomHandler(repository.NewRoomRepo(nil))

	cases := []struct {
		name string
		body string
	}{
		{"zero capacity", `{"name":"Quiet Corner","location":"Agadir","capacity":0}`},
		{"negative capacity", `{"name":"Quiet Corner","location":"Agadir","capacity":-3}`},
		{"unknown location", `{"name":"Quiet Corner","location":"Rabat","capacity":4}`},
		{"missing name", `{"location":"Agadir","capacity":4}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newRoomCreateContext(t, tc.body)
			if err := h.CreateRoom(c); err != nil {
				t.Fatalf("CreateRoom returned %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

// Capacity travels as a plain int from the JSON body into the room
// model; a fractional value must fail the bind instead of being
// silently truncated.
func TestCreateRoomCapacityBindsAsInt(t *testing.T) {
	var req roomCreateReq
	if err := json.Unmarshal([]byte(`{"name":"Quiet Corner","location":"Agadir","capacity":6}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var capacity int = req.Capacity // same type end to end, no conversion
	if capacity != 6 {
		t.Errorf("capacity = %d, want 6", capacity)
	}
	if err := json.Unmarshal([]byte(`{"capacity":6.5}`), &req); err == nil {
		t.Error("fractional capacity should fail to bind")
	}
}

func TestNormalizeAmenities(t *testing.T) {
	got := normalizeAmenities([]string{" Projector ", "", "projector", "Whiteboard"})
	want := []string{"Projector", "Whiteboard"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalizeAmenities = %v, want %v", got, want)
	}
}
