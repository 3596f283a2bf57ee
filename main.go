package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/readnest/backend/config"
	"github.com/readnest/backend/handlers"
	"github.com/readnest/backend/middleware"
	"github.com/readnest/backend/service"
	"github.com/readnest/backend/store"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName, logger)
	if err != nil {
		logger.Fatal("mongodb", zap.Error(err))
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			logger.Error("mongodb disconnect", zap.Error(err))
		}
	}()
	if err := db.EnsureIndexes(ctx); err != nil {
		logger.Fatal("mongodb indexes", zap.Error(err))
	}

	var s3Service *service.S3Service
	if cfg.S3Bucket != "" {
		s3Service, err = service.NewS3Service(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			logger.Fatal("s3", zap.Error(err))
		}
	} else {
		logger.Warn("AWS_S3_BUCKET not set; image uploads disabled")
	}

	var mailer *service.Mailer
	if cfg.SMTPHost != "" {
		mailer = service.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, logger)
	} else {
		logger.Warn("SMTP_HOST not set; password reset mail disabled")
	}

	authHandler := &handlers.AuthHandler{
		DB:         db,
		JWTSecret:  cfg.JWTSecret,
		Mailer:     mailer,
		AppBaseURL: cfg.AppBaseURL,
		Logger:     logger,
	}
	usersHandler := &handlers.UsersHandler{DB: db}
	socialHandler := &handlers.SocialHandler{DB: db}
	booksHandler := &handlers.BooksHandler{DB: db}
	shelfHandler := &handlers.BookshelfHandler{DB: db}
	groupsHandler := &handlers.GroupsHandler{DB: db}
	uploadHandler := &handlers.UploadHandler{
		S3:       s3Service,
		MaxBytes: cfg.MaxUploadMB * 1024 * 1024,
	}

	r := chi.NewRouter()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"readnest API is running"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", handlers.Routes(cfg.JWTSecret, authHandler, usersHandler,
		socialHandler, booksHandler, shelfHandler, groupsHandler, uploadHandler))

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
