// cmd/admin/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/domain/user"
	"github.com/your-org/apparel-storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/apparel-storefront/internal/pkg/auth"
	"github.com/your-org/apparel-storefront/internal/pkg/logger"
)

const usage = `Usage:
  admin hash <password>                       print a bcrypt hash for a password
  admin create -email <email> -password <pw>  create an admin user unless the email exists`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.Logging)

	switch os.Args[1] {
	case "hash":
		if len(os.Args) != 3 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		hashPassword(cfg, log, os.Args[2])
	case "create":
		createAdmin(cfg, log, os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func hashPassword(cfg *config.Config, log *logrus.Logger, password string) {
	passwords := auth.NewPasswordManager(cfg)

	hash, err := passwords.HashPassword(password)
	if err != nil {
		log.WithError(err).Fatal("Failed to hash password")
	}
	if err := passwords.VerifyPassword(password, hash); err != nil {
		log.WithError(err).Fatal("Hash verification failed")
	}

	fmt.Println(hash)
}

func createAdmin(cfg *config.Config, log *logrus.Logger, args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", cfg.Seed.AdminName, "display name")
	email := fs.String("email", "", "login email")
	password := fs.String("password", "", "login password")
	_ = fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.GetDB().AutoMigrate(&user.User{}); err != nil {
		log.WithError(err).Fatal("Failed to migrate users table")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := user.NewService(user.NewGormRepository(db.GetDB()), cfg, log)
	u, created, err := users.EnsureAdmin(ctx, *name, *email, *password)
	if err != nil {
		log.WithError(err).Fatal("Failed to create admin")
	}

	if !created {
		log.WithField("email", u.Email).Warn("An account with this email already exists")
		return
	}
	log.WithFields(logrus.Fields{"id": u.ID, "email": u.Email}).Info("Admin created")
}
