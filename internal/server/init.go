package server

import (
	"context"
	"log"
	"net/http"

	"cloud.google.com/go/storage"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"carnet-api/internal/config"
	"carnet-api/internal/handlers"
	"carnet-api/internal/middleware"
	"carnet-api/internal/router"
	"carnet-api/internal/services"
	"carnet-api/internal/storage/gcs"
)

// Services holds all initialized services for the application.
type Services struct {
	Posts       *services.PostService
	Subscribers *services.SubscriberService
	Uploads     *services.UploadService
	Notify      *services.NotificationService
	Geocoder    *services.GeocodingService
}

// InitServices initializes all application services based on configuration.
// Returns the initialized services or an error if initialization fails.
func InitServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	// Configure Google credentials; with neither JSON nor a file the
	// client falls back to Application Default Credentials.
	var opts []option.ClientOption
	if cfg.GoogleCredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.GoogleCredentialsJSON)))
	} else if cfg.GoogleCredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsPath))
	}

	storageClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	blobs := gcs.New(storageClient, cfg.BucketName)
	docs := services.NewDocumentStore(blobs)

	var mailer services.Mailer
	if cfg.SMTPConfigured() {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		log.Println("SMTP credentials not configured, notifications disabled")
	}

	subscribers := services.NewSubscriberService(docs, cfg.SubscribersObject)

	return &Services{
		Posts:       services.NewPostService(docs, cfg.PostsObject),
		Subscribers: subscribers,
		Uploads:     services.NewUploadService(blobs, cfg.SignedUploadTTL),
		Notify:      services.NewNotificationService(subscribers, mailer),
		Geocoder:    services.NewGeocodingService(),
	}, nil
}

// CreateHandler creates an HTTP handler with all middleware applied.
func CreateHandler(svcs *Services, cfg *config.Config) http.Handler {
	h := handlers.New(svcs.Posts, svcs.Subscribers, svcs.Uploads, svcs.Notify, svcs.Geocoder)

	mux := router.Setup(h)

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	wrappedHandler := middleware.RequestID(mux)
	wrappedHandler = limiter.Limit(wrappedHandler)
	wrappedHandler = middleware.Logger(wrappedHandler)
	wrappedHandler = middleware.CORS(wrappedHandler, cfg.AllowedOrigins)

	return wrappedHandler
}
