package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/intake/pkg/database"
	"github.com/JaimeStill/intake/pkg/lifecycle"
	"github.com/JaimeStill/intake/pkg/repository"
)

type postgres struct {
	db       database.System
	table    string
	putSQL   string
	getSQL   string
	checkSQL string
	logger   *slog.Logger
}

// NewPostgres creates a store that keeps each item as a JSONB document in
// cfg.Table, keyed by the cfg.KeyAttribute column.
func NewPostgres(cfg *Config, db database.System, logger *slog.Logger) (System, error) {
	if !identifier.MatchString(cfg.Table) || !identifier.MatchString(cfg.KeyAttribute) {
		return nil, fmt.Errorf("invalid table %q or key attribute %q", cfg.Table, cfg.KeyAttribute)
	}

	return &postgres{
		db:    db,
		table: cfg.Table,
		putSQL: fmt.Sprintf(
			`INSERT INTO %[1]s (%[2]s, item) VALUES ($1, $2)
			ON CONFLICT (%[2]s) DO UPDATE SET item = EXCLUDED.item`,
			cfg.Table, cfg.KeyAttribute,
		),
		getSQL:   fmt.Sprintf(`SELECT item FROM %s WHERE %s = $1`, cfg.Table, cfg.KeyAttribute),
		checkSQL: fmt.Sprintf(`SELECT item FROM %s LIMIT 1`, cfg.Table),
		logger:   logger.With("system", "kvstore", "provider", ProviderPostgres),
	}, nil
}

func (p *postgres) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting metadata store")

	lc.OnStartup(func() {
		if err := p.Ping(lc.Context()); err != nil {
			p.logger.Error("metadata table check failed", "table", p.table, "error", err)
			return
		}
		p.logger.Info("metadata table ready", "table", p.table)
	})

	return nil
}

func (p *postgres) Put(ctx context.Context, key string, item any) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}

	if err := repository.ExecExpectOne(ctx, p.db.Connection(), p.putSQL, key, data); err != nil {
		return fmt.Errorf("put item %s: %w", key, err)
	}

	return nil
}

func (p *postgres) Get(ctx context.Context, key string, out any) error {
	data, err := repository.QueryOne(ctx, p.db.Connection(), p.getSQL, []any{key}, scanItem)
	if err != nil {
		if err = repository.MapError(err, ErrNotFound); errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("get item %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal item %s: %w", key, err)
	}

	return nil
}

func (p *postgres) Ping(ctx context.Context) error {
	if err := p.db.Ping(ctx); err != nil {
		return err
	}

	_, err := repository.QueryOne(ctx, p.db.Connection(), p.checkSQL, nil, scanItem)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check table %s: %w", p.table, err)
	}
	return nil
}

func scanItem(s repository.Scanner) ([]byte, error) {
	var data []byte
	err := s.Scan(&data)
	return data, err
}
