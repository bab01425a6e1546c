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

type lectureService interface {
	CreateLecture(ctx context.Context, params application.CreateLectureParams) (persistence.Lecture, error)
	ListLectures(ctx context.Context, filter persistence.LectureFilter) ([]persistence.Lecture, error)
	DeleteLecture(ctx context.Context, principal application.Principal, lectureID string) error
}

type LectureHandler struct {
	service   lectureService
	responder responder
	logger    *slog.Logger
}

func NewLectureHandler(service lectureService, logger *slog.Logger) *LectureHandler {
	base := defaultLogger(logger)
	return &LectureHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *LectureHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "LectureHandler", operation, attrs...)
}

func (h *LectureHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req lectureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode lecture request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "invalid lecture dates", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "room_id", input.RoomID)

	lecture, err := h.service.CreateLecture(r.Context(), application.CreateLectureParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "lecture creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("lecture_id", lecture.ID).InfoContext(r.Context(), "lecture created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, lectureResponse{Lecture: toLectureDTO(lecture)})
}

func (h *LectureHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filter := persistence.LectureFilter{RoomID: strings.TrimSpace(r.URL.Query().Get("room_id"))}
	logger := h.log(r.Context(), "List", "room_id", filter.RoomID)

	lectures, err := h.service.ListLectures(r.Context(), filter)
	if err != nil {
		logger.ErrorContext(r.Context(), "lecture list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(lectures)).InfoContext(r.Context(), "lectures listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listLecturesResponse{Lectures: toLectureDTOs(lectures)})
}

func (h *LectureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	lectureID, ok := LectureIDFromContext(r.Context())
	if !ok || strings.TrimSpace(lectureID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing lecture id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidLectureID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "lecture_id", lectureID)
	if err := h.service.DeleteLecture(r.Context(), principal, lectureID); err != nil {
		logger.ErrorContext(r.Context(), "lecture delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "lecture deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type lectureRequest struct {
	Subject   string `json:"subject"`
	Lecturer  string `json:"lecturer"`
	RoomID    string `json:"room_id"`
	Weekday   string `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r lectureRequest) toInput() (application.LectureInput, error) {
	startDate, err := time.Parse(time.DateOnly, strings.TrimSpace(r.StartDate))
	if err != nil {
		return application.LectureInput{}, errors.New("start_date must be a YYYY-MM-DD date")
	}
	endDate, err := time.Parse(time.DateOnly, strings.TrimSpace(r.EndDate))
	if err != nil {
		return application.LectureInput{}, errors.New("end_date must be a YYYY-MM-DD date")
	}
	return application.LectureInput{
		Subject:   strings.TrimSpace(r.Subject),
		Lecturer:  strings.TrimSpace(r.Lecturer),
		RoomID:    strings.TrimSpace(r.RoomID),
		Weekday:   strings.TrimSpace(r.Weekday),
		StartTime: strings.TrimSpace(r.StartTime),
		EndTime:   strings.TrimSpace(r.EndTime),
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

type lectureResponse struct {
	Lecture lectureDTO `json:"lecture"`
}

type listLecturesResponse struct {
	Lectures []lectureDTO `json:"lectures"`
}

type lectureDTO struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Lecturer  string `json:"lecturer"`
	RoomID    string `json:"room_id"`
	Weekday   string `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toLectureDTO(lecture persistence.Lecture) lectureDTO {
	return lectureDTO{
		ID:        lecture.ID,
		Subject:   lecture.Subject,
		Lecturer:  lecture.Lecturer,
		RoomID:    lecture.RoomID,
		Weekday:   strings.ToLower(lecture.Weekday.String()),
		StartTime: lecture.StartTime.String(),
		EndTime:   lecture.EndTime.String(),
		StartDate: lecture.StartDate.Format(time.DateOnly),
		EndDate:   lecture.EndDate.Format(time.DateOnly),
		CreatedAt: lecture.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: lecture.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toLectureDTOs(lectures []persistence.Lecture) []lectureDTO {
	if len(lectures) == 0 {
		return nil
	}
	out := make([]lectureDTO, 0, len(lectures))
	for _, lecture := range lectures {
		out = append(out, toLectureDTO(lecture))
	}
	return out
}
