// mbadmin runs operator tasks against the microblog's store: migrating it, and
// creating users from the command line.
//
//	mbadmin migrate
//	mbadmin create-user -email a@x.com -username alice -password pw [-superuser]
//
// The store is picked with the same environment as the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/sethvargo/go-envconfig"

	v1 "github.com/jdholdren/microblog/api/v1"
	"github.com/jdholdren/microblog/internal/auth"
	"github.com/jdholdren/microblog/internal/clock"
	"github.com/jdholdren/microblog/internal/database"
	"github.com/jdholdren/microblog/internal/logger"
)

type config struct {
	Store         string `env:"STORE, default=sqlite"`
	Database      string `env:"DATABASE, default=microblog.db"`
	PostgresDSN   string `env:"POSTGRES_DSN"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE, default=microblog"`

	SecretKey        string `env:"SECRET_KEY, required"`
	SigningAlgorithm string `env:"SIGNING_ALGORITHM, default=HS256"`
	BcryptCost       int    `env:"BCRYPT_COST, default=10"`

	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`
}

const usage = `usage: mbadmin <command> [flags]

commands:
  migrate       bring the store's schema up to date
  create-user   register a user
`

func main() {
	ctx := context.Background()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}
	slog.SetDefault(logger.New(cfg.LoggerFormat))

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "migrate":
		err = migrate(ctx, cfg)
	case "create-user":
		err = createUser(ctx, cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error("error running command", "error", err)
		os.Exit(1)
	}
}

func open(ctx context.Context, cfg config) (*database.DB, error) {
	return database.Open(ctx, database.Config{
		Kind:          database.Kind(cfg.Store),
		SQLitePath:    cfg.Database,
		PostgresDSN:   cfg.PostgresDSN,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	})
}

// Opening the store migrates it.
func migrate(ctx context.Context, cfg config) error {
	db, err := open(ctx, cfg)
	if err != nil {
		return err
	}

	return db.Close(ctx)
}

func createUser(ctx context.Context, cfg config, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	var (
		email     = fs.String("email", "", "email address of the user")
		username  = fs.String("username", "", "username of the user")
		password  = fs.String("password", "", "password of the user")
		superuser = fs.Bool("superuser", false, "whether the user can skip fresh-login checks")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := v1.CreateUserRequest{Email: *email, Username: *username, Password: *password}
	if err := req.Validate(); err != nil {
		return err
	}

	db, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	svc, err := auth.NewService(auth.Config{
		SecretKey:  []byte(cfg.SecretKey),
		Algorithm:  cfg.SigningAlgorithm,
		BcryptCost: cfg.BcryptCost,
	}, db.Repo, clock.Real{})
	if err != nil {
		return fmt.Errorf("error configuring accounts: %s", err)
	}

	usr, err := svc.Register(ctx, auth.RegisterArgs{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Superuser: *superuser,
	})
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}

	fmt.Printf("created user %s (%s)\n", usr.Username, usr.ID)
	return nil
}
