package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/14-dg/roomfinder/internal/application"
	"github.com/14-dg/roomfinder/internal/persistence"
)

type roomService interface {
	CreateRoom(ctx context.Context, params application.CreateRoomParams) (persistence.Room, error)
	UpdateRoom(ctx context.Context, params application.UpdateRoomParams) (persistence.Room, error)
	DeleteRoom(ctx context.Context, principal application.Principal, roomID string) error
	ListRooms(ctx context.Context) ([]persistence.Room, error)
	SetRoomLock(ctx context.Context, principal application.Principal, roomID string, locked bool) error
}

type statusReader interface {
	CachedStatus(roomID string) (application.RoomStatus, bool)
}

type RoomHandler struct {
	service   roomService
	statuses  statusReader
	responder responder
	logger    *slog.Logger
}

func NewRoomHandler(service roomService, statuses statusReader, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, statuses: statuses, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	room, err := h.service.CreateRoom(r.Context(), application.CreateRoomParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_id", room.ID).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "room_id", roomID)

	room, err := h.service.UpdateRoom(r.Context(), application.UpdateRoomParams{
		Principal: principal,
		RoomID:    roomID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "room_id", roomID)
	if err := h.service.DeleteRoom(r.Context(), principal, roomID); err != nil {
		logger.ErrorContext(r.Context(), "room delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// List returns the full room catalog. Each entry carries the availability
// most recently published to the status board; rooms that have not been
// refreshed yet appear without a status block.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "room list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	entries := make([]roomListEntry, 0, len(rooms))
	for _, room := range rooms {
		entry := roomListEntry{Room: toRoomDTO(room)}
		if h.statuses != nil {
			if status, ok := h.statuses.CachedStatus(room.ID); ok {
				dto := toStatusDTO(status)
				entry.Status = &dto
			}
		}
		entries = append(entries, entry)
	}

	logger.With("result_count", len(entries)).InfoContext(r.Context(), "rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: entries})
}

func (h *RoomHandler) SetLock(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), "SetLock", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for lock update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req lockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetLock", "principal_id", principal.UserID, "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode lock request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetLock", "principal_id", principal.UserID, "room_id", roomID, "locked", req.Locked)
	if err := h.service.SetRoomLock(r.Context(), principal, roomID, req.Locked); err != nil {
		logger.ErrorContext(r.Context(), "room lock update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room lock updated")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type roomRequest struct {
	Name          string  `json:"name"`
	Floor         int     `json:"floor"`
	Capacity      int     `json:"capacity"`
	HasProjector  bool    `json:"has_projector"`
	HasWhiteboard bool    `json:"has_whiteboard"`
	HasComputers  bool    `json:"has_computers"`
	SlotPattern   *string `json:"slot_pattern"`
}

func (r roomRequest) toInput() application.RoomInput {
	var pattern *string
	if r.SlotPattern != nil {
		trimmed := strings.TrimSpace(*r.SlotPattern)
		pattern = &trimmed
	}
	return application.RoomInput{
		Name:          strings.TrimSpace(r.Name),
		Floor:         r.Floor,
		Capacity:      r.Capacity,
		HasProjector:  r.HasProjector,
		HasWhiteboard: r.HasWhiteboard,
		HasComputers:  r.HasComputers,
		SlotPattern:   pattern,
	}
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type listRoomsResponse struct {
	Rooms []roomListEntry `json:"rooms"`
}

type roomListEntry struct {
	Room   roomDTO    `json:"room"`
	Status *statusDTO `json:"status,omitempty"`
}

type roomDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Floor         int     `json:"floor"`
	Capacity      int     `json:"capacity"`
	HasProjector  bool    `json:"has_projector"`
	HasWhiteboard bool    `json:"has_whiteboard"`
	HasComputers  bool    `json:"has_computers"`
	Locked        bool    `json:"locked"`
	SlotPattern   *string `json:"slot_pattern,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func toRoomDTO(room persistence.Room) roomDTO {
	return roomDTO{
		ID:            room.ID,
		Name:          room.Name,
		Floor:         room.Floor,
		Capacity:      room.Capacity,
		HasProjector:  room.HasProjector,
		HasWhiteboard: room.HasWhiteboard,
		HasComputers:  room.HasComputers,
		Locked:        room.Locked,
		SlotPattern:   room.SlotPattern,
		CreatedAt:     room.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     room.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
