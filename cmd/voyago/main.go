package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.mongodb.org/mongo-driver/mongo"

	"voyago/internal/blobstore"
	bookingservice "voyago/internal/bookings/service"
	bookingvalidator "voyago/internal/bookings/validator"
	reviewservice "voyago/internal/reviews/service"
	reviewvalidator "voyago/internal/reviews/validator"
	"voyago/internal/store"
	tripservice "voyago/internal/trips/service"
	tripvalidator "voyago/internal/trips/validator"
	userservice "voyago/internal/users/service"
	uservalidator "voyago/internal/users/validator"
	"voyago/pkg/auth"
	"voyago/pkg/config"
	"voyago/pkg/events"
)

const ServiceName = "voyago"

// services is the composition root: every domain service wired over one
// shared document store. The transport layer on top is a separate concern.
type services struct {
	users    userservice.UserService
	trips    tripservice.TripService
	bookings bookingservice.BookingService
	reviews  reviewservice.ReviewService
}

func main() {
	cfg := config.Load(ServiceName)
	ctx := context.Background()

	cfg.Log.Info("Starting voyago")

	client, err := blobstore.Connect(ctx, cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			cfg.Log.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	publisher := newPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	if _, err := initServices(cfg, client, publisher); err != nil {
		cfg.Log.Fatal("Failed to initialize services", "error", err)
	}
	cfg.Log.Info("voyago initialized", "database", cfg.MongoDatabaseName)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	cfg.Log.Info("Shutting down", "signal", sig.String())
}

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Warn("No Kafka brokers configured, domain events will be dropped")
		return events.NopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEventsTopic, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka publisher", "error", err)
	}
	cfg.Log.Info("Kafka publisher initialized", "topic", cfg.KafkaEventsTopic, "brokers", cfg.KafkaBrokers)
	return publisher
}

func initServices(cfg *config.Config, client *mongo.Client, publisher events.Publisher) (*services, error) {
	backend := blobstore.NewMongoBackend(
		client.Database(cfg.MongoDatabaseName),
		cfg.ReadTimeout,
		cfg.WriteTimeout,
	)
	documents := store.New(backend, cfg.Log, store.Options{
		Collections: store.DefaultCollections(),
		ListLimit:   cfg.ListLimit,
	})

	signer, err := auth.NewJWTSigner(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return nil, err
	}
	hasher := auth.NewHasher(cfg.BcryptCost)

	trips := tripservice.NewTripService(documents, tripvalidator.NewTripValidator(cfg.Log), publisher, cfg)
	svc := &services{
		users:    userservice.NewUserService(documents, uservalidator.NewUserValidator(cfg.Log), hasher, signer, cfg),
		trips:    trips,
		bookings: bookingservice.NewBookingService(documents, bookingvalidator.NewBookingValidator(cfg.Log), publisher, cfg),
		reviews:  reviewservice.NewReviewService(documents, trips, reviewvalidator.NewReviewValidator(cfg.Log), cfg),
	}

	cfg.Log.Info("Domain services initialized")
	return svc, nil
}
