package db

import (
	"context"
	"database/sql"
)

var MapError = mapError

func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Count returns the number of stored items.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return 0, err
	}

	query, args, err := s.sb.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (s *SQLStore) DriverError(ctx context.Context, err error, id string) error {
	return s.driverError(ctx, err, id)
}
