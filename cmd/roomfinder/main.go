package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/14-dg/roomfinder/internal/application"
	"github.com/14-dg/roomfinder/internal/config"
	httptransport "github.com/14-dg/roomfinder/internal/http"
	"github.com/14-dg/roomfinder/internal/persistence/memory"
	"github.com/14-dg/roomfinder/internal/persistence/sqlite"
	"github.com/14-dg/roomfinder/internal/recurrence"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var (
		roomRepo interface {
			application.RoomRepository
			application.CheckinCounter
		}
		lectureRepo application.LectureRepository
		bookingRepo interface {
			application.BookingRepository
			application.BookingStore
		}
		checkInRepo interface {
			application.CheckInRepository
			application.CheckInStore
		}
	)

	// The DSN value "memory" selects the in-process store; anything else is
	// handed to the sqlite driver.
	if cfg.SQLiteDSN == "memory" {
		store := memory.Open()
		roomRepo, lectureRepo, bookingRepo, checkInRepo = store, store, store, store
		logger.Info("using in-memory storage, records will not survive a restart")
	} else {
		db, err := sqlite.Open(cfg.SQLiteDSN)
		if err != nil {
			logger.Error("failed to open storage", "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := db.Close(); cerr != nil {
				logger.Error("failed to close storage", "error", cerr)
			}
		}()

		if err := db.Migrate(context.Background()); err != nil {
			logger.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}

		roomRepo = sqlite.NewRoomRepository(db)
		lectureRepo = sqlite.NewLectureRepository(db)
		bookingRepo = sqlite.NewBookingRepository(db)
		checkInRepo = sqlite.NewCheckInRepository(db)
	}

	idGenerator := uuid.NewString
	now := time.Now

	matcher := recurrence.NewMatcher(cfg.Location)

	statusService := application.NewStatusServiceWithLogger(roomRepo, lectureRepo, bookingRepo, checkInRepo, matcher, cfg.SlotPattern, logger)
	roomService := application.NewRoomServiceWithLogger(roomRepo, idGenerator, now, logger)
	bookingService := application.NewBookingServiceWithLogger(bookingRepo, roomRepo, idGenerator, now, logger)
	checkInService := application.NewCheckInServiceWithLogger(checkInRepo, roomRepo, roomRepo, idGenerator, now, logger)
	lectureService := application.NewLectureServiceWithLogger(lectureRepo, roomRepo, idGenerator, now, logger)

	refresher := application.NewRefresher(statusService, cfg.RefreshInterval, now, logger)
	roomService.OnChange(refresher.Invalidate)
	bookingService.OnChange(refresher.Invalidate)
	checkInService.OnChange(refresher.Invalidate)
	lectureService.OnChange(refresher.Invalidate)
	go refresher.Run(ctx)

	roomHandler := httptransport.NewRoomHandler(roomService, statusService, logger)
	statusHandler := httptransport.NewStatusHandler(statusService, now, logger)
	bookingHandler := httptransport.NewBookingHandler(bookingService, logger)
	checkInHandler := httptransport.NewCheckInHandler(checkInService, logger)
	lectureHandler := httptransport.NewLectureHandler(lectureService, logger)

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:    roomHandler,
		Statuses: statusHandler,
		Bookings: bookingHandler,
		CheckIns: checkInHandler,
		Lectures: lectureHandler,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.IdentityFromHeaders(),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("room finder API listening", "addr", server.Addr, "timezone", cfg.Location.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
