// Package http provides HTTP handlers and middleware for the room finder API.
//
// The router exposes the following endpoints:
//   - GET /rooms: lists all rooms together with their most recently computed
//     availability. POST /rooms, PUT /rooms/{id}, DELETE /rooms/{id} manage
//     the room catalog and require admin privileges.
//   - GET /rooms/{id}: resolves the live status of one room, including the
//     current occupant, occupancy level, loudest activity, lock state, and the
//     active slot of the room's pattern.
//   - GET /rooms/{id}/schedule: returns the weekly booking grid for the room.
//     An optional `days` query parameter (comma separated weekday names or
//     numbers) restricts the grid to the requested days.
//   - PUT /rooms/{id}/lock: sets or clears the room lock. Staff only.
//   - POST /rooms/{id}/checkins, DELETE /rooms/{id}/checkins/{checkinID}:
//     record and remove presence check-ins.
//   - POST /bookings, DELETE /bookings/{id}: staff controlled ad-hoc room
//     reservations.
//   - GET /lectures, POST /lectures, DELETE /lectures/{id}: administrator
//     controlled timetable entry.
//   - GET /slots/current: reports the campus-wide slot active right now.
//
// Authentication happens upstream; the identity middleware trusts the
// X-User-ID and X-User-Role headers set by the gateway. Request/response DTOs
// live alongside their respective handlers so tests and documentation share
// the same ground truth.
package http
