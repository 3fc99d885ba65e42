package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/internal/logger"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/util/scoreline"
)

// snapshotRow is the single row describing the stored fit.
type snapshotRow struct {
	ID       int     `column:"id" dbtype:"INTEGER" primary:"true"`
	MuHome   float64 `column:"mu_home" dbtype:"REAL NOT NULL"`
	MuAway   float64 `column:"mu_away" dbtype:"REAL NOT NULL"`
	Matches  int     `column:"matches" dbtype:"INTEGER NOT NULL"`
	FittedAt string  `column:"fitted_at" dbtype:"TEXT NOT NULL"`
}

func (snapshotRow) TableName() string { return "strength_snapshot" }

type teamRow struct {
	Team        string  `column:"team" dbtype:"TEXT" primary:"true"`
	HomeAttack  float64 `column:"home_attack" dbtype:"REAL NOT NULL"`
	HomeDefense float64 `column:"home_defense" dbtype:"REAL NOT NULL"`
	AwayAttack  float64 `column:"away_attack" dbtype:"REAL NOT NULL"`
	AwayDefense float64 `column:"away_defense" dbtype:"REAL NOT NULL"`
}

func (teamRow) TableName() string { return "team_strength" }

const snapshotID = 1

// SQLite keeps the latest strength table in a sqlite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and makes sure the tables exist.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection so an in-memory database is not split across the pool
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	for _, obj := range []Persistable{snapshotRow{}, teamRow{}} {
		if err := createTable(ctx, db, obj); err != nil {
			db.Close()
			return nil, err
		}
	}
	logger.Info("Strength database ready", path)
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context) (*scoreline.StrengthTable, error) {
	var snap snapshotRow
	query, dests := selectQuery(&snap, "id = ?")
	err := s.db.QueryRowContext(ctx, query, snapshotID).Scan(dests...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scoreline.ErrNoStrengths
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read strength snapshot: %w", err)
	}

	teams, err := findAll[teamRow](ctx, s.db, "team")
	if err != nil {
		return nil, err
	}

	fittedAt, err := time.Parse(time.RFC3339Nano, snap.FittedAt)
	if err != nil {
		return nil, fmt.Errorf("bad fitted_at %q: %w", snap.FittedAt, err)
	}
	table := &scoreline.StrengthTable{
		Teams:    make(map[string]scoreline.TeamStrength, len(teams)),
		Means:    scoreline.LeagueMeans{MuHome: snap.MuHome, MuAway: snap.MuAway},
		Matches:  snap.Matches,
		FittedAt: fittedAt,
	}
	for _, t := range teams {
		table.Teams[t.Team] = scoreline.TeamStrength{
			HomeAttack:  t.HomeAttack,
			HomeDefense: t.HomeDefense,
			AwayAttack:  t.AwayAttack,
			AwayDefense: t.AwayDefense,
		}
	}
	return table, nil
}

// Put replaces the stored table in one transaction.
func (s *SQLite) Put(ctx context.Context, table *scoreline.StrengthTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, obj := range []Persistable{teamRow{}, snapshotRow{}} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+obj.TableName()); err != nil {
			return fmt.Errorf("failed to clear %s: %w", obj.TableName(), err)
		}
	}

	snap := snapshotRow{
		ID:       snapshotID,
		MuHome:   table.Means.MuHome,
		MuAway:   table.Means.MuAway,
		Matches:  table.Matches,
		FittedAt: table.FittedAt.UTC().Format(time.RFC3339Nano),
	}
	if err := insert(ctx, tx, snap); err != nil {
		return err
	}
	for _, name := range table.TeamNames() {
		ts := table.Teams[name]
		row := teamRow{
			Team:        name,
			HomeAttack:  ts.HomeAttack,
			HomeDefense: ts.HomeDefense,
			AwayAttack:  ts.AwayAttack,
			AwayDefense: ts.AwayDefense,
		}
		if err := insert(ctx, tx, row); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	logger.Debug("Stored strength table", len(table.Teams))
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
