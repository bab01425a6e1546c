package http

import (
	"context"

	"github.com/14-dg/roomfinder/internal/application"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	roomIDContextKey    contextKey = "room_id"
	bookingIDContextKey contextKey = "booking_id"
	lectureIDContextKey contextKey = "lecture_id"
	checkInIDContextKey contextKey = "checkin_id"
)

// ContextWithPrincipal returns a derived context containing the caller identity.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the caller identity from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, roomID string) context.Context {
	return context.WithValue(ctx, roomIDContextKey, roomID)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomIDContextKey).(string)
	return id, ok
}

// ContextWithBookingID injects the booking identifier resolved from the request path.
func ContextWithBookingID(ctx context.Context, bookingID string) context.Context {
	return context.WithValue(ctx, bookingIDContextKey, bookingID)
}

// BookingIDFromContext extracts a booking identifier previously associated with the context.
func BookingIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(bookingIDContextKey).(string)
	return id, ok
}

// ContextWithLectureID injects the lecture identifier resolved from the request path.
func ContextWithLectureID(ctx context.Context, lectureID string) context.Context {
	return context.WithValue(ctx, lectureIDContextKey, lectureID)
}

// LectureIDFromContext extracts a lecture identifier previously associated with the context.
func LectureIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(lectureIDContextKey).(string)
	return id, ok
}

// ContextWithCheckInID injects the check-in identifier resolved from the request path.
func ContextWithCheckInID(ctx context.Context, checkInID string) context.Context {
	return context.WithValue(ctx, checkInIDContextKey, checkInID)
}

// CheckInIDFromContext extracts a check-in identifier previously associated with the context.
func CheckInIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(checkInIDContextKey).(string)
	return id, ok
}
