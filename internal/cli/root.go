// Package cli команды утилиты ledgerctl: баланс и выгрузка без бота.
package cli

import (
	"fmt"
	"time"

	"ponto-bot/internal/config"
	"ponto-bot/internal/models"
	"ponto-bot/internal/repository"
	"ponto-bot/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Env то, что нужно командам: база, конфиг и часы
type Env struct {
	Store    *repository.Store
	Location *time.Location
	Logger   *logrus.Logger
	Now      func() time.Time
}

// Loader открывает окружение; close освобождает базу
type Loader func() (env *Env, close func(), err error)

// NewRootCommand корневая команда с подкомандами balance и export
func NewRootCommand(load Loader) *cobra.Command {
	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Banco de horas do bot de ponto pela linha de comando",
		Long: `ledgerctl lê o mesmo banco SQLite do bot (DATABASE_URL) e
calcula o banco de horas sem passar pelo Telegram.`,
		SilenceUsage: true,
	}

	root.AddCommand(newBalanceCommand(load))
	root.AddCommand(newExportCommand(load))
	return root
}

// DefaultLoader читает .env/окружение и открывает базу бота
func DefaultLoader() (*Env, func(), error) {
	cfg, err := config.LoadStore()
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.NewLogger()

	db, err := repository.OpenSQLite(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, err
	}
	store, err := repository.NewStore(db, logger)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("Error closing database")
		}
	}
	return &Env{Store: store, Location: cfg.Location, Logger: logger, Now: time.Now}, closeFn, nil
}

func (e *Env) balanceService() *service.BalanceService {
	return service.NewBalanceService(e.Store.Events, e.Store.Users, e.Logger)
}

func (e *Env) now() time.Time {
	return e.Now().In(e.Location)
}

// users один сотрудник по chat ID или все, если chatID == 0
func (e *Env) users(chatID int64) ([]*models.User, error) {
	if chatID == 0 {
		return e.Store.Users.GetAll()
	}

	user, err := e.Store.Users.GetByChatID(chatID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("chat %d: %w", chatID, repository.ErrUserNotFound)
	}
	return []*models.User{user}, nil
}
