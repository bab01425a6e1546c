package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/14-dg/roomfinder/internal/application"
	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/persistence/memory"
	"github.com/14-dg/roomfinder/internal/recurrence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

// handlerMonday is the fixed evaluation instant for the handler tests, a
// Monday at 09:00 UTC.
var handlerMonday = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

type serverHarness struct {
	store    *memory.Store
	statuses *application.StatusService
	handler  http.Handler
	now      time.Time
}

// newServerHarness wires the real services over the in-memory store behind
// the full router, so requests exercise the same path production traffic
// takes. An empty pattern leaves the default slot pattern unconfigured.
func newServerHarness(t *testing.T, pattern string) *serverHarness {
	t.Helper()

	store := memory.Open()
	now := handlerMonday
	clock := func() time.Time { return now }

	seq := 0
	idGen := func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	var defaultPattern timetable.SlotPattern
	if pattern != "" {
		parsed, err := timetable.ParsePattern(pattern)
		if err != nil {
			t.Fatalf("ParsePattern(%q) failed: %v", pattern, err)
		}
		defaultPattern = parsed
	}

	statuses := application.NewStatusService(store, store, store, store, recurrence.NewMatcher(time.UTC), defaultPattern)
	rooms := application.NewRoomService(store, idGen, clock)
	bookings := application.NewBookingService(store, store, idGen, clock)
	checkIns := application.NewCheckInService(store, store, store, idGen, clock)
	lectures := application.NewLectureService(store, store, idGen, clock)

	handler := NewRouter(RouterConfig{
		Rooms:      NewRoomHandler(rooms, statuses, nil),
		Statuses:   NewStatusHandler(statuses, clock, nil),
		Bookings:   NewBookingHandler(bookings, nil),
		CheckIns:   NewCheckInHandler(checkIns, nil),
		Lectures:   NewLectureHandler(lectures, nil),
		Middleware: []func(http.Handler) http.Handler{IdentityFromHeaders()},
	})

	return &serverHarness{store: store, statuses: statuses, handler: handler, now: now}
}

func (h *serverHarness) seedRoom(t *testing.T, room persistence.Room) persistence.Room {
	t.Helper()
	if err := h.store.CreateRoom(context.Background(), room); err != nil {
		t.Fatalf("CreateRoom(%s) failed: %v", room.ID, err)
	}
	return room
}

func (h *serverHarness) do(t *testing.T, method, path, userID, role string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}

	recorder := httptest.NewRecorder()
	h.handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(recorder.Body).Decode(out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func TestRoomEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("administrators create rooms", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		recorder := harness.do(t, http.MethodPost, "/rooms", "admin-1", "admin", map[string]any{
			"name":          "Seminar A",
			"floor":         2,
			"capacity":      30,
			"has_projector": true,
		})

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		var resp roomResponse
		decodeBody(t, recorder, &resp)
		if resp.Room.ID == "" || resp.Room.Name != "Seminar A" || !resp.Room.HasProjector {
			t.Fatalf("unexpected room %+v", resp.Room)
		}
	})

	t.Run("students cannot create rooms", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		recorder := harness.do(t, http.MethodPost, "/rooms", "student-1", "", map[string]any{
			"name":     "Seminar A",
			"capacity": 30,
		})

		if recorder.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", recorder.Code)
		}
		var resp errorResponse
		decodeBody(t, recorder, &resp)
		if resp.ErrorCode != "FORBIDDEN" {
			t.Fatalf("expected FORBIDDEN, got %q", resp.ErrorCode)
		}
	})

	t.Run("malformed JSON yields 400", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		req := httptest.NewRequest(http.MethodPost, "/rooms", bytes.NewReader([]byte("{not json")))
		req.Header.Set("X-User-ID", "admin-1")
		req.Header.Set("X-User-Role", "admin")
		recorder := httptest.NewRecorder()
		harness.handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("invalid input yields 422 with field errors", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		recorder := harness.do(t, http.MethodPost, "/rooms", "admin-1", "admin", map[string]any{
			"name":     "",
			"capacity": 0,
		})

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", recorder.Code)
		}
		var resp errorResponse
		decodeBody(t, recorder, &resp)
		if resp.ErrorCode != "INVALID_INPUT" {
			t.Fatalf("expected INVALID_INPUT, got %q", resp.ErrorCode)
		}
		if _, ok := resp.Errors["capacity"]; !ok {
			t.Fatalf("expected a capacity field error, got %v", resp.Errors)
		}
	})

	t.Run("updating an unknown room yields 404", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		recorder := harness.do(t, http.MethodPut, "/rooms/missing", "admin-1", "admin", map[string]any{
			"name":     "Seminar B",
			"capacity": 20,
		})

		if recorder.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", recorder.Code)
		}
	})

	t.Run("list embeds the published status per room", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})
		if err := harness.statuses.RefreshAll(context.Background(), harness.now); err != nil {
			t.Fatalf("RefreshAll failed: %v", err)
		}

		recorder := harness.do(t, http.MethodGet, "/rooms", "", "", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		var resp listRoomsResponse
		decodeBody(t, recorder, &resp)
		if len(resp.Rooms) != 1 {
			t.Fatalf("expected 1 room, got %d", len(resp.Rooms))
		}
		if resp.Rooms[0].Status == nil {
			t.Fatal("expected an embedded status")
		}
		if resp.Rooms[0].Status.OccupancyLevel != "empty" {
			t.Fatalf("expected an empty room, got %+v", resp.Rooms[0].Status)
		}
	})

	t.Run("staff flip the lock flag", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		recorder := harness.do(t, http.MethodPut, "/rooms/room-1/lock", "staff-1", "staff", map[string]any{"locked": true})
		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", recorder.Code, recorder.Body.String())
		}

		room, err := harness.store.GetRoom(context.Background(), "room-1")
		if err != nil {
			t.Fatalf("GetRoom failed: %v", err)
		}
		if !room.Locked {
			t.Fatal("expected the room to be locked")
		}
	})

	t.Run("students cannot flip the lock flag", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		recorder := harness.do(t, http.MethodPut, "/rooms/room-1/lock", "student-1", "", map[string]any{"locked": true})
		if recorder.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", recorder.Code)
		}
	})

	t.Run("unsupported methods yield 405 with Allow", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		recorder := harness.do(t, http.MethodDelete, "/rooms", "admin-1", "admin", nil)

		if recorder.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", recorder.Code)
		}
		if allow := recorder.Header().Get("Allow"); allow != "GET, POST" {
			t.Fatalf("expected Allow header GET, POST, got %q", allow)
		}
	})
}

func TestStatusEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("room status reflects an active booking", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "08:00-10:00,10:15-12:15")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})
		booking := persistence.Booking{
			ID:          "booking-1",
			RoomID:      "room-1",
			Start:       harness.now.Add(-time.Hour),
			End:         harness.now.Add(time.Hour),
			RequesterID: "staff-1",
			Label:       "Department meeting",
			CreatedAt:   harness.now.Add(-2 * time.Hour),
		}
		if err := harness.store.CreateBooking(context.Background(), booking); err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}

		recorder := harness.do(t, http.MethodGet, "/rooms/room-1", "", "", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		var resp statusResponse
		decodeBody(t, recorder, &resp)
		if !resp.Status.Occupied || resp.Status.Occupant == nil {
			t.Fatalf("expected an occupied room, got %+v", resp.Status)
		}
		if resp.Status.Occupant.Kind != "booking" || resp.Status.Occupant.ID != "booking-1" {
			t.Fatalf("unexpected occupant %+v", resp.Status.Occupant)
		}
		if resp.Status.CurrentSlot == nil || resp.Status.CurrentSlot.Start != "08:00" {
			t.Fatalf("expected the 08:00 slot, got %+v", resp.Status.CurrentSlot)
		}
	})

	t.Run("unknown rooms yield 404", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		recorder := harness.do(t, http.MethodGet, "/rooms/missing", "", "", nil)

		if recorder.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", recorder.Code)
		}
		var resp errorResponse
		decodeBody(t, recorder, &resp)
		if resp.ErrorCode != "NOT_FOUND" {
			t.Fatalf("expected NOT_FOUND, got %q", resp.ErrorCode)
		}
	})

	t.Run("schedule honors the days filter", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "08:00-10:00,10:15-12:15")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		recorder := harness.do(t, http.MethodGet, "/rooms/room-1/schedule?days=monday,tue", "", "", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		var resp scheduleResponse
		decodeBody(t, recorder, &resp)
		if len(resp.Days) != 2 {
			t.Fatalf("expected 2 days, got %d", len(resp.Days))
		}
		if resp.Days[0].Weekday != "monday" || resp.Days[1].Weekday != "tuesday" {
			t.Fatalf("unexpected days %+v", resp.Days)
		}
	})

	t.Run("an invalid days filter yields 400", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "08:00-10:00")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		recorder := harness.do(t, http.MethodGet, "/rooms/room-1/schedule?days=someday", "", "", nil)
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("a room without any pattern yields 409", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		recorder := harness.do(t, http.MethodGet, "/rooms/room-1/schedule", "", "", nil)
		if recorder.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", recorder.Code)
		}
		var resp errorResponse
		decodeBody(t, recorder, &resp)
		if resp.ErrorCode != "SCHEDULE_UNAVAILABLE" {
			t.Fatalf("expected SCHEDULE_UNAVAILABLE, got %q", resp.ErrorCode)
		}
	})

	t.Run("the current slot endpoint reports the active window", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "08:00-10:00,10:15-12:15")
		recorder := harness.do(t, http.MethodGet, "/slots/current", "", "", nil)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		var resp currentSlotResponse
		decodeBody(t, recorder, &resp)
		if !resp.Active || resp.Slot == nil {
			t.Fatalf("expected an active slot at 09:00, got %+v", resp)
		}
		if resp.Slot.Start != "08:00" || resp.Slot.End != "10:00" {
			t.Fatalf("unexpected slot %+v", resp.Slot)
		}
	})

	t.Run("the current slot endpoint fails without a pattern", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		recorder := harness.do(t, http.MethodGet, "/slots/current", "", "", nil)

		if recorder.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", recorder.Code)
		}
	})
}

func TestBookingEndpoints(t *testing.T) {
	t.Parallel()

	bookingBody := func(h *serverHarness) map[string]any {
		return map[string]any{
			"room_id": "room-1",
			"start":   h.now.Add(time.Hour).Format(time.RFC3339),
			"end":     h.now.Add(3 * time.Hour).Format(time.RFC3339),
			"label":   "Project meeting",
		}
	}

	t.Run("requires an identity", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		recorder := harness.do(t, http.MethodPost, "/bookings", "", "", bookingBody(harness))
		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("staff create bookings", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		recorder := harness.do(t, http.MethodPost, "/bookings", "staff-1", "staff", bookingBody(harness))
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		var resp bookingResponse
		decodeBody(t, recorder, &resp)
		if resp.Booking.RequesterID != "staff-1" || resp.Booking.RequesterRole != "staff" {
			t.Fatalf("unexpected booking %+v", resp.Booking)
		}

		if _, err := harness.store.GetBooking(context.Background(), resp.Booking.ID); err != nil {
			t.Fatalf("expected the booking to be persisted, got %v", err)
		}
	})

	t.Run("students cannot create bookings", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		recorder := harness.do(t, http.MethodPost, "/bookings", "student-1", "", bookingBody(harness))
		if recorder.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", recorder.Code)
		}
	})

	t.Run("malformed timestamps yield 400", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		recorder := harness.do(t, http.MethodPost, "/bookings", "staff-1", "staff", map[string]any{
			"room_id": "room-1",
			"start":   "next tuesday",
			"end":     "later",
		})
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("only the requester or an administrator may delete", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		created := harness.do(t, http.MethodPost, "/bookings", "staff-1", "staff", bookingBody(harness))
		if created.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", created.Code)
		}
		var resp bookingResponse
		decodeBody(t, created, &resp)

		denied := harness.do(t, http.MethodDelete, "/bookings/"+resp.Booking.ID, "staff-2", "staff", nil)
		if denied.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for another staff member, got %d", denied.Code)
		}

		allowed := harness.do(t, http.MethodDelete, "/bookings/"+resp.Booking.ID, "staff-1", "staff", nil)
		if allowed.Code != http.StatusNoContent {
			t.Fatalf("expected 204 for the requester, got %d", allowed.Code)
		}
	})
}

func TestCheckInEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("students check in and the counter moves", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		recorder := harness.do(t, http.MethodPost, "/rooms/room-1/checkins", "student-1", "", map[string]any{
			"activity": "quiet-work",
		})
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		var resp checkInResponse
		decodeBody(t, recorder, &resp)
		if resp.CheckIn.UserID != "student-1" || resp.CheckIn.Activity != "quiet-work" {
			t.Fatalf("unexpected check-in %+v", resp.CheckIn)
		}

		room, err := harness.store.GetRoom(context.Background(), "room-1")
		if err != nil {
			t.Fatalf("GetRoom failed: %v", err)
		}
		if room.CheckinCount != 1 {
			t.Fatalf("expected counter 1, got %d", room.CheckinCount)
		}

		denied := harness.do(t, http.MethodDelete, "/rooms/room-1/checkins/"+resp.CheckIn.ID, "student-2", "", nil)
		if denied.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for another student, got %d", denied.Code)
		}

		removed := harness.do(t, http.MethodDelete, "/rooms/room-1/checkins/"+resp.CheckIn.ID, "student-1", "", nil)
		if removed.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", removed.Code)
		}
		room, _ = harness.store.GetRoom(context.Background(), "room-1")
		if room.CheckinCount != 0 {
			t.Fatalf("expected counter back at 0, got %d", room.CheckinCount)
		}
	})

	t.Run("requires an identity", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		recorder := harness.do(t, http.MethodPost, "/rooms/room-1/checkins", "", "", map[string]any{
			"activity": "quiet-work",
		})
		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("checking into an unknown room yields 404", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		recorder := harness.do(t, http.MethodPost, "/rooms/missing/checkins", "student-1", "", map[string]any{
			"activity": "quiet-work",
		})
		if recorder.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", recorder.Code)
		}
	})
}

func TestLectureEndpoints(t *testing.T) {
	t.Parallel()

	lectureBody := map[string]any{
		"subject":    "Linear Algebra",
		"lecturer":   "Dr. Vogt",
		"room_id":    "room-1",
		"weekday":    "monday",
		"start_time": "10:00",
		"end_time":   "12:00",
		"start_date": "2024-02-01",
		"end_date":   "2024-06-30",
	}

	t.Run("administrators create lectures", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		recorder := harness.do(t, http.MethodPost, "/lectures", "admin-1", "admin", lectureBody)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		var resp lectureResponse
		decodeBody(t, recorder, &resp)
		if resp.Lecture.Weekday != "monday" || resp.Lecture.StartTime != "10:00" {
			t.Fatalf("unexpected lecture %+v", resp.Lecture)
		}
	})

	t.Run("staff cannot create lectures", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})

		recorder := harness.do(t, http.MethodPost, "/lectures", "staff-1", "staff", lectureBody)
		if recorder.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", recorder.Code)
		}
	})

	t.Run("malformed dates yield 400", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		body := map[string]any{}
		for k, v := range lectureBody {
			body[k] = v
		}
		body["start_date"] = "February 1st"

		recorder := harness.do(t, http.MethodPost, "/lectures", "admin-1", "admin", body)
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("list filters by room", func(t *testing.T) {
		t.Parallel()

		harness := newServerHarness(t, "")
		harness.seedRoom(t, persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20})
		harness.seedRoom(t, persistence.Room{ID: "room-2", Name: "Seminar B", Capacity: 20})

		if code := harness.do(t, http.MethodPost, "/lectures", "admin-1", "admin", lectureBody).Code; code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", code)
		}
		other := map[string]any{}
		for k, v := range lectureBody {
			other[k] = v
		}
		other["room_id"] = "room-2"
		if code := harness.do(t, http.MethodPost, "/lectures", "admin-1", "admin", other).Code; code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", code)
		}

		recorder := harness.do(t, http.MethodGet, "/lectures?room_id=room-2", "", "", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		var resp listLecturesResponse
		decodeBody(t, recorder, &resp)
		if len(resp.Lectures) != 1 || resp.Lectures[0].RoomID != "room-2" {
			t.Fatalf("expected only the room-2 lecture, got %+v", resp.Lectures)
		}
	})
}
