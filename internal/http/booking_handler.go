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

type bookingService interface {
	CreateBooking(ctx context.Context, params application.CreateBookingParams) (persistence.Booking, error)
	DeleteBooking(ctx context.Context, principal application.Principal, bookingID string) error
}

type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		h.log(r.Context(), "Create", "error_kind", "unauthorized").ErrorContext(r.Context(), "missing caller identity")
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingIdentity)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "invalid booking timestamps", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "room_id", input.RoomID)

	booking, err := h.service.CreateBooking(r.Context(), application.CreateBookingParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{Booking: toBookingDTO(booking)})
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing booking id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "booking_id", bookingID)
	if err := h.service.DeleteBooking(r.Context(), principal, bookingID); err != nil {
		logger.ErrorContext(r.Context(), "booking delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type bookingRequest struct {
	RoomID string `json:"room_id"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Label  string `json:"label"`
}

func (r bookingRequest) toInput() (application.BookingInput, error) {
	start, err := parseTimestamp(r.Start)
	if err != nil {
		return application.BookingInput{}, errors.New("start must be an RFC 3339 timestamp")
	}
	end, err := parseTimestamp(r.End)
	if err != nil {
		return application.BookingInput{}, errors.New("end must be an RFC 3339 timestamp")
	}
	return application.BookingInput{
		RoomID: strings.TrimSpace(r.RoomID),
		Start:  start,
		End:    end,
		Label:  strings.TrimSpace(r.Label),
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(value))
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type bookingDTO struct {
	ID            string `json:"id"`
	RoomID        string `json:"room_id"`
	Start         string `json:"start"`
	End           string `json:"end"`
	RequesterID   string `json:"requester_id"`
	RequesterRole string `json:"requester_role"`
	Label         string `json:"label,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func toBookingDTO(booking persistence.Booking) bookingDTO {
	return bookingDTO{
		ID:            booking.ID,
		RoomID:        booking.RoomID,
		Start:         booking.Start.UTC().Format(time.RFC3339Nano),
		End:           booking.End.UTC().Format(time.RFC3339Nano),
		RequesterID:   booking.RequesterID,
		RequesterRole: booking.RequesterRole,
		Label:         booking.Label,
		CreatedAt:     booking.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
