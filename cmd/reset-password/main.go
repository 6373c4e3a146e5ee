package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-retail-ws/internal/repository"
	"go-retail-ws/internal/security"
	"go-retail-ws/pkg/database"
	"go-retail-ws/pkg/logger"
)

func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "new password")
	flag.Parse()

	// 1. Load Env
	envErr := godotenv.Load()
	log, err := logger.New(logger.ConfigFromEnv())
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	if envErr != nil {
		log.Warn(".env file not found, relying on system env")
	}

	// 2. Check input
	if !security.ValidateEmail(*email) {
		log.Error("a valid -email is required")
		os.Exit(2)
	}
	if !security.ValidatePassword(*password) {
		log.Error("password too weak", zap.Int("min_length", security.PasswordMinLength))
		os.Exit(2)
	}

	// 3. Setup Database
	db, err := database.ConnectDB(database.ConfigFromEnv())
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	// 4. Update
	accounts := repository.NewAccountRepo(db)
	if err := accounts.UpdatePassword(context.Background(), *email, *password); err != nil {
		log.Fatal("password reset failed", zap.String("email", *email), zap.Error(err))
	}
	log.Info("password reset", zap.String("email", *email))
}
