package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"parkfinder/internal/addressindex"
	"parkfinder/internal/api"
	"parkfinder/internal/api/handlers"
	"parkfinder/internal/config"
	"parkfinder/internal/domain/entities"
	"parkfinder/internal/geo"
	"parkfinder/internal/notify"
	"parkfinder/internal/provider"
	"parkfinder/internal/repository/memory"
	"parkfinder/internal/services"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()
	setupLogging()

	cfg := config.Load()

	// Repositories and indexes
	parkingRepo := memory.NewParkingRepository()
	userRepo := memory.NewUserRepository()
	parkingIndex := geo.NewParkingIndex(cfg.Geo.GeohashPrecision)
	addresses := addressindex.New()
	seedData(parkingRepo, addresses)

	source, err := provider.NewLocalSource(parkingRepo, parkingIndex, cfg.Geo.SearchRadiusKm)
	if err != nil {
		logrus.WithError(err).Fatal("failed to build candidate source")
	}

	// Services
	accountService := services.NewAccountService(userRepo)
	notificationService := services.NewNotificationService(notify.NewFeed(cfg.Feed.Capacity))
	tripService := services.NewTripService(cfg, source, parkingRepo, notificationService)
	defer tripService.Shutdown()

	if cfg.Simulator.Enabled {
		simulator := provider.NewOccupancySimulator(parkingRepo, cfg.Simulator.Interval, cfg.Simulator.MaxDelta)
		simulator.Start()
		defer simulator.Stop()
	}

	// Handlers and router
	router := api.NewRouter(
		accountService,
		handlers.NewAccountHandler(accountService),
		handlers.NewSearchHandler(addresses),
		handlers.NewParkingHandler(tripService, accountService, parkingRepo),
		handlers.NewTripHandler(tripService),
		handlers.NewNotificationHandler(notificationService),
	)

	engine := gin.Default()
	router.Setup(engine)

	logrus.WithField("port", cfg.Server.Port).Info("starting parkfinder server")
	if err := engine.Run(cfg.Server.Port); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func setupLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info")); err == nil {
		logrus.SetLevel(level)
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// seedData loads the downtown Pittsburgh demo inventory and the known
// addresses for prefix search.
func seedData(parkingRepo *memory.ParkingRepository, addresses *addressindex.Index) {
	ctx := context.Background()

	options := []entities.ParkingOption{
		{
			Name:           "Garage A",
			Address:        "123 Forbes Ave",
			Type:           "garage",
			Location:       entities.NewLocation(40.4405, -79.9959),
			PricePerHour:   3.0,
			TotalSpots:     100,
			AvailableSpots: 45,
			PaymentMethods: []string{"credit_card", "mobile_app"},
		},
		{
			Name:           "Garage B",
			Address:        "456 Fifth Ave",
			Type:           "garage",
			Location:       entities.NewLocation(40.4415, -79.9930),
			PricePerHour:   2.0,
			TotalSpots:     150,
			AvailableSpots: 80,
			PaymentMethods: []string{"credit_card", "cash"},
		},
		{
			Name:           "Garage C",
			Address:        "789 Penn Ave",
			Type:           "garage",
			Location:       entities.NewLocation(40.4420, -79.9965),
			PricePerHour:   1.5,
			TotalSpots:     75,
			AvailableSpots: 20,
			PaymentMethods: []string{"credit_card", "mobile_app", "cash"},
		},
		{
			Name:           "Street Parking Zone",
			Address:        "Oakland District",
			Type:           "street",
			Location:       entities.NewLocation(40.4430, -79.9940),
			PricePerHour:   2.5,
			TotalSpots:     30,
			AvailableSpots: 8,
			PaymentMethods: []string{"mobile_app", "meter"},
		},
	}
	for _, opt := range options {
		if err := parkingRepo.Upsert(ctx, opt); err != nil {
			logrus.WithError(err).WithField("option", opt.Name).Fatal("seed failed")
		}
	}

	known := []struct {
		text     string
		lat, lng float64
	}{
		{"Market Square", 40.4392, -80.0003},
		{"Carnegie Mellon University", 40.4433, -79.9436},
		{"Carnegie Museum of Art", 40.4434, -79.9490},
		{"PPG Paints Arena", 40.4395, -79.9896},
		{"Point State Park", 40.4416, -80.0079},
	}
	for _, a := range known {
		if err := addresses.Insert(a.text, a.lat, a.lng); err != nil {
			logrus.WithError(err).WithField("address", a.text).Fatal("address seed failed")
		}
	}
	for _, opt := range options {
		if err := addresses.Insert(opt.Address, opt.Location.Latitude, opt.Location.Longitude); err != nil {
			logrus.WithError(err).WithField("address", opt.Address).Fatal("address seed failed")
		}
	}

	logrus.WithFields(logrus.Fields{
		"options":   len(options),
		"addresses": addresses.Len(),
	}).Info("seed data loaded")
}
