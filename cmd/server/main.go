package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/coworking-room-reservation/internal/booking"
	"github.com/iliyamo/coworking-room-reservation/internal/config"
	"github.com/iliyamo/coworking-room-reservation/internal/database"
	"github.com/iliyamo/coworking-room-reservation/internal/handler"
	"github.com/iliyamo/coworking-room-reservation/internal/middleware"
	"github.com/iliyamo/coworking-room-reservation/internal/model"
	"github.com/iliyamo/coworking-room-reservation/internal/queue"
	"github.com/iliyamo/coworking-room-reservation/internal/repository"
	"github.com/iliyamo/coworking-room-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	// Repositories
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	// Booking policy comes from config as wall-clock strings.
	openMin, err := booking.ParseClock(cfg.OpenTime)
	if err != nil {
		log.Fatalf("invalid BOOKING_OPEN_TIME: %v", err)
	}
	closeMin, err := booking.ParseClock(cfg.CloseTime)
	if err != nil {
		log.Fatalf("invalid BOOKING_CLOSE_TIME: %v", err)
	}
	svc := booking.NewService(roomRepo, reservationRepo, booking.Policy{
		OpenMin:        openMin,
		CloseMin:       closeMin,
		ManualApproval: cfg.ManualApproval,
		SlotMinutes:    cfg.SlotMinutes,
	})

	if cfg.Env == "dev" {
		seedRooms(roomRepo)
	}

	// Handlers
	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	browseH := handler.NewRoomBrowseHandler(roomRepo, svc)
	reservationH := handler.NewReservationHandler(svc, roomRepo, reservationRepo)
	adminRoomH := handler.NewAdminRoomHandler(roomRepo)
	adminResH := handler.NewAdminReservationHandler(svc, roomRepo, reservationRepo)

	e := echo.New()
	e.HideBanner = true

	// Rate limiting applies to every route; the response cache wraps the
	// public catalog only (authenticated responses must never be shared).
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, browseH, cacheMW)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterUser(e, reservationH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminRoomH, adminResH, cfg.JWTSecret)

	// Background consumer: appends confirmed reservations to logs/booking.log.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedRooms inserts the initial room catalog on an empty dev database so
// the API is browsable right after first boot.
func seedRooms(rooms *repository.RoomRepo) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := rooms.Count(ctx)
	if err != nil {
		log.Printf("seed: count rooms failed: %v", err)
		return
	}
	if n > 0 {
		return
	}

	str := func(s string) *string { return &s }
	seed := []model.Room{
		{Name: "Innovation Hub", Location: "Agadir", Capacity: 8, Enabled: true,
			ImageURL:  str("https://images.unsplash.com/photo-1497366216548-37526070297c?w=800&q=80"),
			Amenities: []string{"Projector", "Whiteboard", "Video Conference"}},
		{Name: "Executive Suite", Location: "Agadir", Capacity: 12, Enabled: false,
			ImageURL:  str("https://images.unsplash.com/photo-1497366811353-6870744d04b2?w=800&q=80"),
			Amenities: []string{"TV Screen", "Premium Chairs", "Coffee Machine"}},
		{Name: "Collaboration Space", Location: "Marrakech", Capacity: 6, Enabled: true,
			ImageURL:  str("https://images.unsplash.com/photo-1524758631624-e2822e304c36?w=800&q=80"),
			Amenities: []string{"Whiteboard", "Video Conference", "Standing Desk"}},
		{Name: "Creative Studio", Location: "Marrakech", Capacity: 10, Enabled: true,
			ImageURL:  str("https://images.unsplash.com/photo-1497366754035-f200968a6e72?w=800&q=80"),
			Amenities: []string{"Smart TV", "Drawing Board", "Bean Bags"}},
		{Name: "Boardroom Prime", Location: "Casablanca", Capacity: 16, Enabled: false,
			ImageURL:  str("https://images.unsplash.com/photo-1486406146926-c627a92ad1ab?w=800&q=80"),
			Amenities: []string{"Conference Phone", "Dual Monitors", "Executive Chairs"}},
	}
	for i := range seed {
		if err := rooms.Create(ctx, &seed[i]); err != nil {
			log.Printf("seed: create room %q failed: %v", seed[i].Name, err)
			return
		}
	}
	log.Printf("seed: inserted %d rooms", len(seed))
}
