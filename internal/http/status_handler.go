package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/14-dg/roomfinder/internal/application"
	"github.com/14-dg/roomfinder/internal/availability"
	"github.com/14-dg/roomfinder/internal/timetable"
)

type availabilityService interface {
	ResolveAvailability(ctx context.Context, roomID string, now time.Time) (application.RoomStatus, error)
	BuildWeeklySchedule(ctx context.Context, roomID string, now time.Time) (application.WeeklySchedule, error)
	CurrentSlot(now time.Time) (timetable.Window, bool, error)
}

// StatusHandler serves the derived availability views: single room status,
// the weekly booking grid, and the campus-wide current slot.
type StatusHandler struct {
	service   availabilityService
	now       func() time.Time
	responder responder
	logger    *slog.Logger
}

func NewStatusHandler(service availabilityService, now func() time.Time, logger *slog.Logger) *StatusHandler {
	base := defaultLogger(logger)
	if now == nil {
		now = time.Now
	}
	return &StatusHandler{service: service, now: now, responder: newResponder(base), logger: base}
}

func (h *StatusHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "StatusHandler", operation, attrs...)
}

// Get resolves the live status of one room.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for status")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	logger := h.log(r.Context(), "Get", "room_id", roomID)
	status, err := h.service.ResolveAvailability(r.Context(), roomID, h.now())
	if err != nil {
		logger.ErrorContext(r.Context(), "status resolution failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("occupied", status.Occupied).InfoContext(r.Context(), "room status resolved")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: toStatusDTO(status)})
}

// Schedule returns the weekly booking grid for one room. The optional `days`
// query parameter restricts the grid to the named weekdays.
func (h *StatusHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), "Schedule", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for schedule")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	wanted, err := parseDaysQuery(r.URL.Query().Get("days"))
	if err != nil {
		h.log(r.Context(), "Schedule", "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "invalid days filter", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Schedule", "room_id", roomID)
	schedule, err := h.service.BuildWeeklySchedule(r.Context(), roomID, h.now())
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule build failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	days := schedule.Days
	if wanted != nil {
		filtered := make([]availability.DaySchedule, 0, len(days))
		for _, day := range days {
			if wanted[day.Weekday] {
				filtered = append(filtered, day)
			}
		}
		days = filtered
	}

	logger.With("day_count", len(days), "skipped_count", len(schedule.Skipped)).InfoContext(r.Context(), "schedule built")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, scheduleResponse{
		RoomID:  schedule.RoomID,
		Days:    toDayScheduleDTOs(days),
		Skipped: toFaultDTOs(schedule.Skipped),
	})
}

// CurrentSlot reports the default pattern slot active right now.
func (h *StatusHandler) CurrentSlot(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "CurrentSlot")
	now := h.now()
	slot, active, err := h.service.CurrentSlot(now)
	if err != nil {
		logger.ErrorContext(r.Context(), "current slot lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := currentSlotResponse{
		Active: active,
		AsOf:   now.UTC().Format(time.RFC3339Nano),
	}
	if active {
		dto := toSlotDTO(slot)
		resp.Slot = &dto
	}

	logger.With("active", active).InfoContext(r.Context(), "current slot resolved")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func parseDaysQuery(raw string) (map[time.Weekday]bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	wanted := make(map[time.Weekday]bool)
	for _, token := range strings.Split(raw, ",") {
		day, err := timetable.ParseWeekday(strings.TrimSpace(token))
		if err != nil {
			return nil, err
		}
		wanted[day] = true
	}
	return wanted, nil
}

type statusResponse struct {
	Status statusDTO `json:"status"`
}

type statusDTO struct {
	RoomID         string       `json:"room_id"`
	Occupied       bool         `json:"occupied"`
	Locked         bool         `json:"locked"`
	Occupant       *occupantDTO `json:"occupant,omitempty"`
	CheckIns       int          `json:"checkins"`
	OccupancyLevel string       `json:"occupancy_level"`
	Activity       string       `json:"activity"`
	CurrentSlot    *slotDTO     `json:"current_slot,omitempty"`
	ComputedAt     string       `json:"computed_at"`
}

type occupantDTO struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Lecturer string `json:"lecturer,omitempty"`
	Window   string `json:"window,omitempty"`
}

type slotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type scheduleResponse struct {
	RoomID  string           `json:"room_id"`
	Days    []dayScheduleDTO `json:"days"`
	Skipped []recordFaultDTO `json:"skipped,omitempty"`
}

type dayScheduleDTO struct {
	Weekday string              `json:"weekday"`
	Slots   []slotAssignmentDTO `json:"slots"`
}

type slotAssignmentDTO struct {
	Slot    slotDTO     `json:"slot"`
	Booking *bookingDTO `json:"booking,omitempty"`
}

type recordFaultDTO struct {
	Kind     string `json:"kind"`
	RecordID string `json:"record_id"`
	Error    string `json:"error"`
}

type currentSlotResponse struct {
	Active bool     `json:"active"`
	Slot   *slotDTO `json:"slot,omitempty"`
	AsOf   string   `json:"as_of"`
}

func toStatusDTO(status application.RoomStatus) statusDTO {
	dto := statusDTO{
		RoomID:         status.Room.ID,
		Occupied:       status.Occupied,
		Locked:         status.Locked,
		Occupant:       toOccupantDTO(status.Occupant),
		CheckIns:       status.CheckIns,
		OccupancyLevel: string(status.Level),
		Activity:       status.Activity,
		ComputedAt:     status.ComputedAt.UTC().Format(time.RFC3339Nano),
	}
	if status.CurrentSlot != nil {
		slot := toSlotDTO(*status.CurrentSlot)
		dto.CurrentSlot = &slot
	}
	return dto
}

func toOccupantDTO(occupant *availability.Occupant) *occupantDTO {
	if occupant == nil {
		return nil
	}

	dto := occupantDTO{Kind: string(occupant.Kind)}
	switch {
	case occupant.Booking != nil:
		dto.ID = occupant.Booking.ID
		dto.Label = occupant.Booking.Label
		dto.Start = occupant.Booking.Start.UTC().Format(time.RFC3339Nano)
		dto.End = occupant.Booking.End.UTC().Format(time.RFC3339Nano)
	case occupant.Lecture != nil:
		dto.ID = occupant.Lecture.ID
		dto.Subject = occupant.Lecture.Subject
		dto.Lecturer = occupant.Lecture.Lecturer
		dto.Window = occupant.Lecture.Window.String()
	}
	return &dto
}

func toSlotDTO(slot timetable.Window) slotDTO {
	return slotDTO{Start: slot.Start.String(), End: slot.End.String()}
}

func toDayScheduleDTOs(days []availability.DaySchedule) []dayScheduleDTO {
	out := make([]dayScheduleDTO, 0, len(days))
	for _, day := range days {
		slots := make([]slotAssignmentDTO, 0, len(day.Slots))
		for _, assignment := range day.Slots {
			entry := slotAssignmentDTO{Slot: toSlotDTO(assignment.Slot)}
			if assignment.Booking != nil {
				dto := toBookingDTO(*assignment.Booking)
				entry.Booking = &dto
			}
			slots = append(slots, entry)
		}
		out = append(out, dayScheduleDTO{
			Weekday: strings.ToLower(day.Weekday.String()),
			Slots:   slots,
		})
	}
	return out
}

func toFaultDTOs(faults []availability.RecordFault) []recordFaultDTO {
	if len(faults) == 0 {
		return nil
	}
	out := make([]recordFaultDTO, 0, len(faults))
	for _, fault := range faults {
		dto := recordFaultDTO{Kind: fault.Kind, RecordID: fault.RecordID}
		if fault.Err != nil {
			dto.Error = fault.Err.Error()
		}
		out = append(out, dto)
	}
	return out
}
