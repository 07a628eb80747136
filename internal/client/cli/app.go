// Package cli is the interactive console client: a REPL over the board
// service, with the sync controller keeping state fresh in the
// background.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/ourunion/unionhub/internal/client/board"
	"github.com/ourunion/unionhub/internal/client/cache"
	"github.com/ourunion/unionhub/internal/client/config"
	"github.com/ourunion/unionhub/internal/client/remote"
	"github.com/ourunion/unionhub/internal/client/sync"
	"github.com/ourunion/unionhub/internal/logging"
	core "github.com/ourunion/unionhub/internal/models"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	controller *sync.Controller
	board      *board.Service
	db         *sql.DB
	reader     *bufio.Reader

	// last listings shown to the user, for index-based commands
	lastPosts   []core.Post
	lastTrash   []core.Post
	lastMembers []core.Member
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stderr)

	cacheStore, db, err := cache.Open(context.Background(), cfg.CacheDSN)
	if err != nil {
		return nil, err
	}

	rc := remote.New(cfg.ServerURL, logger)
	controller := sync.NewController(rc, cacheStore, rc, logger, cfg.PollInterval, cfg.InitTimeout)
	svc := board.NewService(controller, rc, rc, cacheStore, logger)

	return &App{
		config:     cfg,
		logger:     logger,
		controller: controller,
		board:      svc,
		db:         db,
		reader:     bufio.NewReader(os.Stdin),
	}, nil
}

// Run initializes state, starts background reconciliation, and hands
// control to the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	a.controller.Initialize(ctx)
	if err := a.board.RestoreSession(ctx); err != nil {
		a.logger.Warn(ctx, "could not restore session", "error", err.Error())
	}

	go a.controller.Run(ctx)

	a.runREPL(ctx, bufio.NewScanner(os.Stdin))
}
