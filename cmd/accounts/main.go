// Command accounts provisions operator accounts.
//
// Usage:
//
//	accounts create --username=admin --password=secret
//	accounts delete --username=admin
//
// Configuration is read the same way as the server (LIVECUE_CONFIG and ENV)
// unless --config names a file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/pflag"

	"github.com/heartmarshall/livecue-backend/internal/adapter/postgres"
	accountrepo "github.com/heartmarshall/livecue-backend/internal/adapter/postgres/account"
	auditrepo "github.com/heartmarshall/livecue-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/livecue-backend/internal/app"
	"github.com/heartmarshall/livecue-backend/internal/config"
	"github.com/heartmarshall/livecue-backend/internal/domain"
	"github.com/heartmarshall/livecue-backend/internal/service/audit"
	"github.com/heartmarshall/livecue-backend/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return errors.New("missing command")
	}
	command := args[0]

	var username, password, configPath string
	var cost int
	flagSet := pflag.NewFlagSet("accounts "+command, pflag.ContinueOnError)
	flagSet.StringVarP(&username, "username", "u", "", "account username")
	flagSet.StringVarP(&password, "password", "p", "", "account password (create only)")
	flagSet.IntVar(&cost, "bcrypt-cost", 0, "bcrypt cost (0 = library default)")
	flagSet.StringVarP(&configPath, "config", "c", "", "YAML config file")
	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if username == "" {
		return errors.New("--username is required")
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	p := &provisioner{
		accounts: accountrepo.New(pool),
		audit:    audit.NewService(logger, auditrepo.New(pool), clockwork.NewRealClock()),
	}

	switch command {
	case "create":
		if password == "" {
			return errors.New("--password is required")
		}
		acc, err := p.create(ctx, username, password, cost)
		if err != nil {
			return err
		}
		fmt.Printf("Account %q created with id %d.\n", acc.Username, acc.ID)
	case "delete":
		if err := p.delete(ctx, username); err != nil {
			return err
		}
		fmt.Printf("Account %q deleted.\n", username)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

type accountStore interface {
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	Create(ctx context.Context, username, passwordHash string) (domain.Account, error)
	Delete(ctx context.Context, id domain.AccountID) error
}

type auditRecorder interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}

type provisioner struct {
	accounts accountStore
	audit    auditRecorder
}

func (p *provisioner) create(ctx context.Context, username, password string, cost int) (domain.Account, error) {
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return domain.Account{}, err
	}
	acc, err := p.accounts.Create(ctx, username, hash)
	if err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}
	p.audit.Record(ctx, domain.AuditEntry{
		Account: acc.ID,
		Action:  domain.AuditActionUserCreate,
		Details: fmt.Sprintf("account %q created", username),
	})
	return acc, nil
}

func (p *provisioner) delete(ctx context.Context, username string) error {
	acc, err := p.accounts.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	if err := p.accounts.Delete(ctx, acc.ID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	p.audit.Record(ctx, domain.AuditEntry{
		Account: acc.ID,
		Action:  domain.AuditActionUserDelete,
		Details: fmt.Sprintf("account %q deleted", username),
	})
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: accounts create|delete --username=NAME [--password=PASS] [--config=FILE]")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
