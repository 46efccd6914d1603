package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bryan-cox/jotledger/internal/model"

	_ "modernc.org/sqlite"
)

// Interval kinds stored in the sets table.
const (
	kindInProgress = "InProgress"
	kindComplete   = "Complete"
)

// SQLiteStore keeps the history in a SQLite database. Sets are stored by
// position; a save rewrites every row inside one transaction.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database at path and initializes the
// schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w from '%s': open db: %w", ErrReadHistory, path, err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w from '%s': migrate: %w", ErrReadHistory, path, err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sets (
		position   INTEGER PRIMARY KEY,
		kind       TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date   TEXT
	);

	CREATE TABLE IF NOT EXISTS jots (
		set_position INTEGER NOT NULL REFERENCES sets(position) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		value        TEXT NOT NULL,
		state        TEXT NOT NULL,
		PRIMARY KEY (set_position, position)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads every set and jot. An empty database gets a fresh history.
func (s *SQLiteStore) Load(today model.Date) (*model.JotHistory, error) {
	sets, err := s.readSets()
	if errors.Is(err, ErrMalformedHistory) {
		return nil, fmt.Errorf("'%s': %w", s.path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w from '%s': %w", ErrReadHistory, s.path, err)
	}
	if len(sets) == 0 {
		h := model.NewHistory(today)
		if err := s.Save(h); err != nil {
			return nil, err
		}
		slog.Info("created new history database", "path", s.path)
		return h, nil
	}

	h, err := model.FromSets(sets)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %w", ErrMalformedHistory, s.path, err)
	}
	slog.Debug("loaded history", "path", s.path, "sets", h.Len())
	return h, nil
}

func (s *SQLiteStore) readSets() ([]model.JotSet, error) {
	rows, err := s.db.Query(`SELECT position, kind, start_date, end_date FROM sets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query sets: %w", err)
	}
	defer rows.Close()

	var sets []model.JotSet
	positions := make(map[int64]int)
	for rows.Next() {
		var (
			pos         int64
			kind, start string
			end         sql.NullString
		)
		if err := rows.Scan(&pos, &kind, &start, &end); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		iv, err := scanInterval(kind, start, end)
		if err != nil {
			return nil, fmt.Errorf("%w: set %d: %w", ErrMalformedHistory, pos, err)
		}
		positions[pos] = len(sets)
		sets = append(sets, model.JotSet{Jots: []model.Jot{}, Interval: iv})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sets: %w", err)
	}

	jotRows, err := s.db.Query(`SELECT set_position, value, state FROM jots ORDER BY set_position, position`)
	if err != nil {
		return nil, fmt.Errorf("query jots: %w", err)
	}
	defer jotRows.Close()

	for jotRows.Next() {
		var (
			setPos       int64
			value, state string
		)
		if err := jotRows.Scan(&setPos, &value, &state); err != nil {
			return nil, fmt.Errorf("scan jot: %w", err)
		}
		idx, ok := positions[setPos]
		if !ok {
			return nil, fmt.Errorf("%w: jot references missing set %d", ErrMalformedHistory, setPos)
		}
		st, err := model.ParseJotState(state)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedHistory, err)
		}
		sets[idx].Jots = append(sets[idx].Jots, model.Jot{Content: value, State: st})
	}
	return sets, jotRows.Err()
}

func scanInterval(kind, start string, end sql.NullString) (model.DateInterval, error) {
	from, err := model.ParseDate(start)
	if err != nil {
		return nil, err
	}
	switch kind {
	case kindInProgress:
		return model.InProgress{Start: from}, nil
	case kindComplete:
		if !end.Valid {
			return nil, fmt.Errorf("complete interval has no end date")
		}
		to, err := model.ParseDate(end.String)
		if err != nil {
			return nil, err
		}
		return model.Complete{Start: from, End: to}, nil
	default:
		return nil, fmt.Errorf("unknown interval kind %q", kind)
	}
}

// Save replaces all stored rows with h in a single transaction.
func (s *SQLiteStore) Save(h *model.JotHistory) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w to '%s': begin: %w", ErrWriteHistory, s.path, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM jots`); err != nil {
		return fmt.Errorf("%w to '%s': clear jots: %w", ErrWriteHistory, s.path, err)
	}
	if _, err := tx.Exec(`DELETE FROM sets`); err != nil {
		return fmt.Errorf("%w to '%s': clear sets: %w", ErrWriteHistory, s.path, err)
	}

	for i, set := range h.Sets() {
		var (
			kind  string
			start model.Date
			end   sql.NullString
		)
		switch iv := set.Interval.(type) {
		case model.InProgress:
			kind, start = kindInProgress, iv.Start
		case model.Complete:
			kind, start = kindComplete, iv.Start
			end = sql.NullString{String: iv.End.String(), Valid: true}
		default:
			return fmt.Errorf("%w: set %d has interval type %T", ErrEncodeHistory, i, set.Interval)
		}
		if _, err := tx.Exec(`INSERT INTO sets (position, kind, start_date, end_date) VALUES (?, ?, ?, ?)`,
			i, kind, start.String(), end); err != nil {
			return fmt.Errorf("%w to '%s': insert set %d: %w", ErrWriteHistory, s.path, i, err)
		}
		for j, jot := range set.Jots {
			if _, err := tx.Exec(`INSERT INTO jots (set_position, position, value, state) VALUES (?, ?, ?, ?)`,
				i, j, jot.Content, string(jot.State)); err != nil {
				return fmt.Errorf("%w to '%s': insert jot %d/%d: %w", ErrWriteHistory, s.path, i, j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w to '%s': commit: %w", ErrWriteHistory, s.path, err)
	}
	slog.Debug("saved history", "path", s.path, "sets", h.Len())
	return nil
}
