package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/14-dg/roomfinder/internal/persistence"
)

type roomRepoStub struct {
	created    []persistence.Room
	updated    []persistence.Room
	deleted    []string
	lockCalls  map[string]bool
	room       persistence.Room
	rooms      []persistence.Room
	createErr  error
	updateErr  error
	getErr     error
	listErr    error
	deleteErr  error
	setLockErr error
}

func (s *roomRepoStub) CreateRoom(ctx context.Context, room persistence.Room) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, room)
	return nil
}

func (s *roomRepoStub) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, room)
	return nil
}

func (s *roomRepoStub) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if s.getErr != nil {
		return persistence.Room{}, s.getErr
	}
	return s.room, nil
}

func (s *roomRepoStub) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.rooms, nil
}

func (s *roomRepoStub) DeleteRoom(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *roomRepoStub) SetRoomLock(ctx context.Context, id string, locked bool) error {
	if s.setLockErr != nil {
		return s.setLockErr
	}
	if s.lockCalls == nil {
		s.lockCalls = make(map[string]bool)
	}
	s.lockCalls[id] = locked
	return nil
}

func TestRoomService_CreateRoom(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	admin := Principal{UserID: "admin-1", IsStaff: true, IsAdmin: true}

	t.Run("persists a room for administrators", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{}
		svc := NewRoomService(repo, func() string { return "room-1" }, func() time.Time { return now })

		pattern := "08:00-10:00,10:15-12:15"
		room, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: admin,
			Input: RoomInput{
				Name:         "  Seminar A  ",
				Floor:        2,
				Capacity:     30,
				HasProjector: true,
				SlotPattern:  &pattern,
			},
		})
		if err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}

		if room.ID != "room-1" {
			t.Fatalf("expected generated id, got %q", room.ID)
		}
		if room.Name != "Seminar A" {
			t.Fatalf("expected trimmed name, got %q", room.Name)
		}
		if room.SlotPattern == nil || *room.SlotPattern != pattern {
			t.Fatalf("expected the custom pattern to be stored, got %v", room.SlotPattern)
		}
		if !room.CreatedAt.Equal(now) || !room.UpdatedAt.Equal(now) {
			t.Fatalf("expected timestamps %v, got %v/%v", now, room.CreatedAt, room.UpdatedAt)
		}
		if len(repo.created) != 1 {
			t.Fatalf("expected one persisted room, got %d", len(repo.created))
		}
	})

	t.Run("rejects non-administrators", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{}
		svc := NewRoomService(repo, nil, nil)

		_, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: Principal{UserID: "staff-1", IsStaff: true},
			Input:     RoomInput{Name: "Seminar A", Capacity: 30},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if len(repo.created) != 0 {
			t.Fatal("expected no persisted room")
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()

		svc := NewRoomService(&roomRepoStub{}, nil, nil)

		badPattern := "10:00-08:00"
		_, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: admin,
			Input:     RoomInput{Name: "  ", Capacity: 0, SlotPattern: &badPattern},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		for _, field := range []string{"name", "capacity", "slotPattern"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected a %s field error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("drops a blank pattern", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{}
		svc := NewRoomService(repo, func() string { return "room-1" }, func() time.Time { return now })

		blank := "   "
		room, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: admin,
			Input:     RoomInput{Name: "Seminar A", Capacity: 30, SlotPattern: &blank},
		})
		if err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}
		if room.SlotPattern != nil {
			t.Fatalf("expected no pattern, got %q", *room.SlotPattern)
		}
	})

	t.Run("maps duplicate ids to already exists", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{createErr: persistence.ErrDuplicate}
		svc := NewRoomService(repo, func() string { return "room-1" }, func() time.Time { return now })

		_, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: admin,
			Input:     RoomInput{Name: "Seminar A", Capacity: 30},
		})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestRoomService_UpdateRoom(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	admin := Principal{UserID: "admin-1", IsAdmin: true}
	existing := persistence.Room{
		ID:        "room-1",
		Name:      "Seminar A",
		Capacity:  30,
		CreatedAt: now.Add(-24 * time.Hour),
		UpdatedAt: now.Add(-24 * time.Hour),
	}

	t.Run("applies the new fields over the stored room", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{room: existing}
		svc := NewRoomService(repo, nil, func() time.Time { return now })

		room, err := svc.UpdateRoom(context.Background(), UpdateRoomParams{
			Principal: admin,
			RoomID:    "room-1",
			Input:     RoomInput{Name: "Seminar B", Floor: 3, Capacity: 25, HasComputers: true},
		})
		if err != nil {
			t.Fatalf("UpdateRoom failed: %v", err)
		}
		if room.Name != "Seminar B" || room.Floor != 3 || !room.HasComputers {
			t.Fatalf("unexpected updated room %+v", room)
		}
		if !room.CreatedAt.Equal(existing.CreatedAt) {
			t.Fatalf("expected CreatedAt to be preserved, got %v", room.CreatedAt)
		}
		if !room.UpdatedAt.Equal(now) {
			t.Fatalf("expected UpdatedAt %v, got %v", now, room.UpdatedAt)
		}
	})

	t.Run("maps a missing room to not found", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{getErr: persistence.ErrNotFound}
		svc := NewRoomService(repo, nil, nil)

		_, err := svc.UpdateRoom(context.Background(), UpdateRoomParams{
			Principal: admin,
			RoomID:    "missing",
			Input:     RoomInput{Name: "Seminar B", Capacity: 25},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects non-administrators", func(t *testing.T) {
		t.Parallel()

		svc := NewRoomService(&roomRepoStub{room: existing}, nil, nil)

		_, err := svc.UpdateRoom(context.Background(), UpdateRoomParams{
			Principal: Principal{UserID: "staff-1", IsStaff: true},
			RoomID:    "room-1",
			Input:     RoomInput{Name: "Seminar B", Capacity: 25},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestRoomService_ListRooms(t *testing.T) {
	t.Parallel()

	repo := &roomRepoStub{rooms: []persistence.Room{
		{ID: "room-3", Name: "zlab", Floor: 1},
		{ID: "room-1", Name: "Aula", Floor: 2},
		{ID: "room-2", Name: "Basement", Floor: 1},
	}}
	svc := NewRoomService(repo, nil, nil)

	rooms, err := svc.ListRooms(context.Background())
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}

	got := make([]string, 0, len(rooms))
	for _, room := range rooms {
		got = append(got, room.ID)
	}
	want := []string{"room-2", "room-3", "room-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected floor then name ordering %v, got %v", want, got)
		}
	}
}

func TestRoomService_SetRoomLock(t *testing.T) {
	t.Parallel()

	t.Run("lets staff flip the lock", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{}
		svc := NewRoomService(repo, nil, nil)

		err := svc.SetRoomLock(context.Background(), Principal{UserID: "staff-1", IsStaff: true}, "room-1", true)
		if err != nil {
			t.Fatalf("SetRoomLock failed: %v", err)
		}
		if locked, ok := repo.lockCalls["room-1"]; !ok || !locked {
			t.Fatalf("expected room-1 locked, got %v", repo.lockCalls)
		}
	})

	t.Run("rejects students", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{}
		svc := NewRoomService(repo, nil, nil)

		err := svc.SetRoomLock(context.Background(), Principal{UserID: "student-1"}, "room-1", true)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if len(repo.lockCalls) != 0 {
			t.Fatal("expected no lock call")
		}
	})

	t.Run("maps a missing room to not found", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{setLockErr: persistence.ErrNotFound}
		svc := NewRoomService(repo, nil, nil)

		err := svc.SetRoomLock(context.Background(), Principal{UserID: "admin-1", IsAdmin: true}, "missing", false)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRoomService_DeleteRoom(t *testing.T) {
	t.Parallel()

	t.Run("removes a room for administrators", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{}
		svc := NewRoomService(repo, nil, nil)

		err := svc.DeleteRoom(context.Background(), Principal{UserID: "admin-1", IsAdmin: true}, "room-1")
		if err != nil {
			t.Fatalf("DeleteRoom failed: %v", err)
		}
		if len(repo.deleted) != 1 || repo.deleted[0] != "room-1" {
			t.Fatalf("expected room-1 deleted, got %v", repo.deleted)
		}
	})

	t.Run("rejects staff members", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{}
		svc := NewRoomService(repo, nil, nil)

		err := svc.DeleteRoom(context.Background(), Principal{UserID: "staff-1", IsStaff: true}, "room-1")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestRoomService_OnChange(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	admin := Principal{UserID: "admin-1", IsStaff: true, IsAdmin: true}

	t.Run("fires after every successful mutation", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{room: persistence.Room{ID: "room-1", Name: "Seminar A", Capacity: 20}}
		svc := NewRoomService(repo, func() string { return "room-1" }, func() time.Time { return now })
		changed := 0
		svc.OnChange(func() { changed++ })

		if _, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: admin,
			Input:     RoomInput{Name: "Seminar A", Capacity: 20},
		}); err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}
		if _, err := svc.UpdateRoom(context.Background(), UpdateRoomParams{
			Principal: admin,
			RoomID:    "room-1",
			Input:     RoomInput{Name: "Seminar B", Capacity: 25},
		}); err != nil {
			t.Fatalf("UpdateRoom failed: %v", err)
		}
		if err := svc.SetRoomLock(context.Background(), admin, "room-1", true); err != nil {
			t.Fatalf("SetRoomLock failed: %v", err)
		}
		if err := svc.DeleteRoom(context.Background(), admin, "room-1"); err != nil {
			t.Fatalf("DeleteRoom failed: %v", err)
		}

		if changed != 4 {
			t.Fatalf("expected 4 change notifications, got %d", changed)
		}
	})

	t.Run("stays silent on failed mutations", func(t *testing.T) {
		t.Parallel()

		repo := &roomRepoStub{setLockErr: persistence.ErrNotFound}
		svc := NewRoomService(repo, nil, nil)
		changed := 0
		svc.OnChange(func() { changed++ })

		if _, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: Principal{UserID: "staff-1", IsStaff: true},
			Input:     RoomInput{Name: "Seminar A", Capacity: 20},
		}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if err := svc.SetRoomLock(context.Background(), admin, "missing", true); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		if changed != 0 {
			t.Fatalf("expected no change notifications, got %d", changed)
		}
	})
}
