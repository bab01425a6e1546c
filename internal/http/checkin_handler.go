package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/14-dg/roomfinder/internal/application"
	"github.com/14-dg/roomfinder/internal/persistence"
)

type checkInService interface {
	AddCheckIn(ctx context.Context, params application.AddCheckInParams) (persistence.CheckIn, error)
	RemoveCheckIn(ctx context.Context, principal application.Principal, checkInID string) error
}

type CheckInHandler struct {
	service   checkInService
	responder responder
	logger    *slog.Logger
}

func NewCheckInHandler(service checkInService, logger *slog.Logger) *CheckInHandler {
	base := defaultLogger(logger)
	return &CheckInHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CheckInHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CheckInHandler", operation, attrs...)
}

func (h *CheckInHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for check-in")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		h.log(r.Context(), "Create", "error_kind", "unauthorized").ErrorContext(r.Context(), "missing caller identity")
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingIdentity)
		return
	}

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode check-in request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput(roomID)
	if err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "invalid check-in payload", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "room_id", roomID)

	checkIn, err := h.service.AddCheckIn(r.Context(), application.AddCheckInParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "check-in failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("checkin_id", checkIn.ID).InfoContext(r.Context(), "check-in recorded")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, checkInResponse{CheckIn: toCheckInDTO(checkIn)})
}

func (h *CheckInHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	checkInID, ok := CheckInIDFromContext(r.Context())
	if !ok || strings.TrimSpace(checkInID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing check-in id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCheckInID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "checkin_id", checkInID)
	if err := h.service.RemoveCheckIn(r.Context(), principal, checkInID); err != nil {
		logger.ErrorContext(r.Context(), "check-in removal failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "check-in removed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type checkInRequest struct {
	Activity        string `json:"activity"`
	Start           string `json:"start,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

func (r checkInRequest) toInput(roomID string) (application.CheckInInput, error) {
	input := application.CheckInInput{
		RoomID:          roomID,
		Activity:        strings.TrimSpace(r.Activity),
		DurationMinutes: r.DurationMinutes,
	}
	if strings.TrimSpace(r.Start) != "" {
		start, err := parseTimestamp(r.Start)
		if err != nil {
			return application.CheckInInput{}, errors.New("start must be an RFC 3339 timestamp")
		}
		input.Start = start
	}
	return input, nil
}

type checkInResponse struct {
	CheckIn checkInDTO `json:"checkin"`
}

type checkInDTO struct {
	ID       string `json:"id"`
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	Activity string `json:"activity"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

func toCheckInDTO(checkIn persistence.CheckIn) checkInDTO {
	return checkInDTO{
		ID:       checkIn.ID,
		RoomID:   checkIn.RoomID,
		UserID:   checkIn.UserID,
		Activity: checkIn.Activity,
		Start:    checkIn.Start.UTC().Format(time.RFC3339Nano),
		End:      checkIn.End.UTC().Format(time.RFC3339Nano),
	}
}
