package db_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/notecards/internal/config"
	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/db"
	"github.com/user/notecards/internal/db/dbtest"
	"github.com/user/notecards/internal/logging"
)

func openSQLite(t *testing.T) *db.SQLStore {
	t.Helper()
	store, err := db.OpenSQLite(filepath.Join(t.TempDir(), "notecards.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	dbtest.RunContract(t, func(t *testing.T) db.Store { return openSQLite(t) })
}

func TestNewStore_SQLiteFromConfig(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir(), Store: config.StoreConfig{Driver: config.DriverSQLite}}

	store, err := db.NewStore(cfg)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	if _, err := store.Create(context.Background(), dbtest.Draft(content.TypeArticle, "Foo")); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}

	// Reopen: the schema must already be there and the row must survive.
	store.Close()
	store, err = db.NewStore(cfg)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer store.Close()

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 item after reopen, got %d", count)
	}
}

func TestNewStore_UnknownDriver(t *testing.T) {
	_, err := db.NewStore(&config.Config{Store: config.StoreConfig{Driver: "mongo"}})
	if err == nil {
		t.Fatal("Expected error for unknown driver")
	}
}

func TestSQLiteStore_UnknownStoredTypeIsReadable(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()

	it, err := store.Create(ctx, dbtest.Draft(content.TypeArticle, "Foo"))
	if err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}

	// A type added by a newer writer must not break older readers.
	if _, err := store.DB().ExecContext(ctx, `UPDATE content_items SET type = 'podcast' WHERE id = ?`, it.ID); err != nil {
		t.Fatalf("Failed to rewrite type: %v", err)
	}

	got, err := store.Get(ctx, it.ID)
	if err != nil {
		t.Fatalf("Failed to read item: %v", err)
	}
	if got.Type != "podcast" {
		t.Errorf("Expected type podcast, got %s", got.Type)
	}
	if got.Type.Known() {
		t.Error("Expected podcast to be an unknown type")
	}
}

func TestSQLiteStore_CheckConstraintMapsToValidation(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()

	it, err := store.Create(ctx, dbtest.Draft(content.TypeArticle, "Foo"))
	if err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}

	_, err = store.DB().ExecContext(ctx, `UPDATE content_items SET title = '' WHERE id = ?`, it.ID)
	if err == nil {
		t.Fatal("Expected check constraint to reject empty title")
	}

	mapped := db.MapError(err, it.ID)
	if !errors.Is(mapped, content.ErrValidation) {
		t.Fatalf("Expected validation error, got %v", mapped)
	}
	var ve *content.ValidationError
	if !errors.As(mapped, &ve) {
		t.Fatalf("Expected *content.ValidationError, got %T", mapped)
	}
	if len(ve.Errors) != 1 || ve.Errors[0].Field != "title" || ve.Errors[0].Message != "invalid value" {
		t.Errorf("Fields = %+v", ve.Errors)
	}
	if strings.Contains(mapped.Error(), "constraint") {
		t.Errorf("Driver text leaked into %q", mapped.Error())
	}
}

func TestSQLiteStore_ConstraintDetailIsLogged(t *testing.T) {
	var buf bytes.Buffer
	store := openSQLite(t).WithLogger(logging.NewWithWriter(config.LogConfig{Level: "warn"}, &buf))
	ctx := context.Background()

	it, err := store.Create(ctx, dbtest.Draft(content.TypeArticle, "Foo"))
	if err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}

	_, err = store.DB().ExecContext(ctx, `UPDATE content_items SET title = '' WHERE id = ?`, it.ID)
	if err == nil {
		t.Fatal("Expected check constraint to reject empty title")
	}

	if mapped := store.DriverError(ctx, err, it.ID); !errors.Is(mapped, content.ErrValidation) {
		t.Fatalf("Expected validation error, got %v", mapped)
	}
	if !strings.Contains(buf.String(), "CHECK constraint failed") {
		t.Errorf("Expected driver detail in log, got %q", buf.String())
	}
}

func TestSQLiteStore_NotNullMapsToValidation(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()

	it, err := store.Create(ctx, dbtest.Draft(content.TypeArticle, "Foo"))
	if err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}

	_, err = store.DB().ExecContext(ctx, `UPDATE content_items SET url = NULL WHERE id = ?`, it.ID)
	if err == nil {
		t.Fatal("Expected not null constraint to reject null url")
	}

	var ve *content.ValidationError
	if !errors.As(db.MapError(err, it.ID), &ve) {
		t.Fatalf("Expected *content.ValidationError from %v", err)
	}
	if ve.Errors[0].Field != "url" {
		t.Errorf("Field = %q, want url", ve.Errors[0].Field)
	}
}

func TestMapError_PassesOtherErrorsThrough(t *testing.T) {
	if err := db.MapError(nil, "x"); err != nil {
		t.Errorf("MapError(nil) = %v", err)
	}
	if err := db.MapError(sql.ErrNoRows, "x"); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("ErrNoRows mapped to %v", err)
	}
	if err := db.MapError(context.DeadlineExceeded, "x"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("deadline mapped to %v", err)
	}
}
