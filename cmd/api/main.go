package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GioMjds/Printify-Mobile/internal/config"
	"github.com/GioMjds/Printify-Mobile/internal/infrastructure/dynamo"
	jwtinfra "github.com/GioMjds/Printify-Mobile/internal/infrastructure/jwt"
	"github.com/GioMjds/Printify-Mobile/internal/infrastructure/otp"
	s3infra "github.com/GioMjds/Printify-Mobile/internal/infrastructure/s3"
	"github.com/GioMjds/Printify-Mobile/internal/infrastructure/smtp"
	transporthttp "github.com/GioMjds/Printify-Mobile/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Every issued token depends on the signing secret; refuse to start
	// without one.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// S3 store.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// In-memory OTP store; codes do not survive a restart.
	otpStore := otp.NewMemoryStore()
	defer otpStore.Close()

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		UploadRepo:  dynamo.NewUploadRepo(dynamoClient, cfg.DynamoTables.Uploads),
		S3Store:     s3Store,
		Mailer:      mailer,
		OTPStore:    otpStore,
		JWTProvider: jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
