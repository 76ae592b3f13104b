package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/user/notecards/internal/config"
	"github.com/user/notecards/internal/content"
)

//go:embed migrations
var migrations embed.FS

const table = "content_items"

var columns = []string{
	"id", "type", "url", "title", "note",
	"thumbnail", "author", "duration", "location", "created_at",
}

// Store is the persistence contract behind the procedure set.
// Lists are ordered newest first; missing ids yield content.ErrNotFound.
type Store interface {
	List(ctx context.Context) ([]content.Item, error)
	ListByType(ctx context.Context, t content.Type) ([]content.Item, error)
	Get(ctx context.Context, id string) (*content.Item, error)
	Create(ctx context.Context, d content.Draft) (*content.Item, error)
	Update(ctx context.Context, id string, p content.Patch) (*content.Item, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// SQLStore keeps content items in SQLite or PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect goose.Dialect
	sb      squirrel.StatementBuilderType
	now     func() time.Time
	newID   func() string
	log     *slog.Logger

	mu       sync.Mutex
	migrated bool
}

// NewStore opens the store selected by cfg.Store.Driver.
func NewStore(cfg *config.Config) (*SQLStore, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return OpenPostgres(cfg.Store.DSN)
	case config.DriverSQLite, "":
		return OpenSQLite(cfg.DBPath())
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// One writer at a time; sqlite serializes anyway.
	db.SetMaxOpenConns(1)

	return newSQLStore(db, goose.DialectSQLite3, squirrel.Question), nil
}

// OpenPostgres prepares a pooled handle for dsn. No connection is made until
// the first query.
func OpenPostgres(dsn string) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return newSQLStore(db, goose.DialectPostgres, squirrel.Dollar), nil
}

func newSQLStore(db *sql.DB, dialect goose.Dialect, ph squirrel.PlaceholderFormat) *SQLStore {
	return &SQLStore{
		db:      db,
		dialect: dialect,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(ph),
		now:     time.Now,
		newID:   uuid.NewString,
		log:     slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets where constraint violations reported by the database are logged.
func (s *SQLStore) WithLogger(l *slog.Logger) *SQLStore {
	s.log = l.With("component", "store")
	return s
}

// driverError maps err for callers and logs the driver detail that mapping drops.
func (s *SQLStore) driverError(ctx context.Context, err error, id string) error {
	mapped := mapError(err, id)
	if errors.Is(mapped, content.ErrValidation) {
		s.log.WarnContext(ctx, "constraint violation",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
	}
	return mapped
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ensureSchema applies pending migrations once. A failed attempt is retried
// on the next call.
func (s *SQLStore) ensureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.migrated {
		return nil
	}

	dir := "migrations/sqlite"
	if s.dialect == goose.DialectPostgres {
		dir = "migrations/postgres"
	}
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(s.dialect, s.db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	s.migrated = true
	return nil
}

func (s *SQLStore) List(ctx context.Context) ([]content.Item, error) {
	return s.list(ctx, s.selectItems())
}

func (s *SQLStore) ListByType(ctx context.Context, t content.Type) ([]content.Item, error) {
	return s.list(ctx, s.selectItems().Where(squirrel.Eq{"type": string(t)}))
}

func (s *SQLStore) Get(ctx context.Context, id string) (*content.Item, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	query, args, err := s.selectItems().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	it, err := scanItem(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, s.driverError(ctx, err, id)
	}
	return &it, nil
}

func (s *SQLStore) Create(ctx context.Context, d content.Draft) (*content.Item, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	// Postgres keeps microseconds; truncate so the returned item equals a re-read.
	it := content.NewItem(s.newID(), d, s.now().UTC().Truncate(time.Microsecond))

	query, args, err := s.sb.Insert(table).
		Columns(columns...).
		Values(it.ID, string(it.Type), it.URL, it.Title, it.Note,
			optionalArg(it.Thumbnail), optionalArg(it.Author),
			optionalArg(it.Duration), optionalArg(it.Location), it.CreatedAt).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, s.driverError(ctx, err, it.ID)
	}
	return &it, nil
}

func (s *SQLStore) Update(ctx context.Context, id string, p content.Patch) (*content.Item, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	set := map[string]any{}
	if p.Type != nil {
		set["type"] = string(*p.Type)
	}
	if p.URL != nil {
		set["url"] = *p.URL
	}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Note != nil {
		set["note"] = *p.Note
	}
	if p.Thumbnail != nil {
		set["thumbnail"] = nullable(*p.Thumbnail)
	}
	if p.Author != nil {
		set["author"] = nullable(*p.Author)
	}
	if p.Duration != nil {
		set["duration"] = nullable(*p.Duration)
	}
	if p.Location != nil {
		set["location"] = nullable(*p.Location)
	}

	query, args, err := s.sb.Update(table).SetMap(set).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, s.driverError(ctx, err, id)
	}
	if err := expectRow(res, id); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes the item for good. Deleting an unknown id is an error, not a no-op.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	query, args, err := s.sb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return s.driverError(ctx, err, id)
	}
	return expectRow(res, id)
}

func (s *SQLStore) selectItems() squirrel.SelectBuilder {
	return s.sb.Select(columns...).From(table).OrderBy("created_at DESC", "seq DESC")
}

func (s *SQLStore) list(ctx context.Context, q squirrel.SelectBuilder) ([]content.Item, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]content.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (content.Item, error) {
	var (
		it                                    content.Item
		typ                                   string
		thumbnail, author, duration, location sql.NullString
	)
	err := row.Scan(&it.ID, &typ, &it.URL, &it.Title, &it.Note,
		&thumbnail, &author, &duration, &location, &it.CreatedAt)
	if err != nil {
		return content.Item{}, err
	}

	it.Type = content.Type(typ)
	it.Thumbnail = fromNull(thumbnail)
	it.Author = fromNull(author)
	it.Duration = fromNull(duration)
	it.Location = fromNull(location)
	it.CreatedAt = it.CreatedAt.UTC()
	return it, nil
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func optionalArg(p *string) any {
	if p == nil {
		return nil
	}
	return nullable(*p)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("content item %s: %w", id, content.ErrNotFound)
	}
	return nil
}
