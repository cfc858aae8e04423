package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	_ "modernc.org/sqlite"

	"document-relay/internal/config"
)

var ErrNotFound = errors.New("record not found")

// File is the metadata row of a stored artifact. The file family is not
// stored; it is recomputed from MediaType and OriginalName when needed.
type File struct {
	bun.BaseModel `bun:"table:files,alias:f"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Filename      string    `bun:"filename,notnull,unique"`
	OriginalName  string    `bun:"original_name,notnull"`
	MediaType     string    `bun:"media_type,notnull"`
	Size          int64     `bun:"size,notnull"`
	Checksum      string    `bun:"checksum"`
	Summary       string    `bun:"summary"`
	EditedFrom    string    `bun:"edited_from"`
	UploadDate    time.Time `bun:"upload_date,notnull"`
}

// Blob holds artifact bytes for the database storage backend.
type Blob struct {
	bun.BaseModel `bun:"table:blobs,alias:b"`
	Key           string `bun:"blob_key,pk"`
	Content       []byte `bun:"content,notnull"`
}

// NewDB wraps an opened sql.DB with the bun dialect for driver.
func NewDB(sqldb *sql.DB, driver string, debug bool) *bun.DB {
	var db *bun.DB
	if driver == "sqlite" {
		db = bun.NewDB(sqldb, sqlitedialect.New())
	} else {
		db = bun.NewDB(sqldb, pgdialect.New())
	}
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// ConnectDB opens the sql.DB for the configured driver.
func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case "postgres":
		opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DSN)}
		if cfg.Password != "" {
			opts = append(opts, pgdriver.WithPassword(cfg.Password))
		}
		return sql.OpenDB(pgdriver.NewConnector(opts...)), nil
	case "pq":
		sqldb, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		return sqldb, nil
	case "sqlite":
		sqldb, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// A single connection keeps an in-memory database alive and
		// serializes writers.
		sqldb.SetMaxOpenConns(1)
		sqldb.SetMaxIdleConns(1)
		sqldb.SetConnMaxLifetime(0)
		return sqldb, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Open connects, verifies the connection and creates the tables.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*bun.DB, error) {
	sqldb, err := ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	db := NewDB(sqldb, cfg.Driver, cfg.Debug)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := InitDB(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func InitDB(ctx context.Context, db *bun.DB) error {
	for _, model := range []interface{}{(*File)(nil), (*Blob)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func DropTables(ctx context.Context, db *bun.DB) error {
	for _, model := range []interface{}{(*File)(nil), (*Blob)(nil)} {
		if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	return nil
}

// Store is the metadata store over bun.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// SaveFile inserts f, replacing any row with the same filename.
func (s *Store) SaveFile(ctx context.Context, f *File) error {
	_, err := s.db.NewInsert().
		Model(f).
		On("CONFLICT (filename) DO UPDATE").
		Set("original_name = EXCLUDED.original_name").
		Set("media_type = EXCLUDED.media_type").
		Set("size = EXCLUDED.size").
		Set("checksum = EXCLUDED.checksum").
		Set("summary = EXCLUDED.summary").
		Set("edited_from = EXCLUDED.edited_from").
		Set("upload_date = EXCLUDED.upload_date").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save file %s: %w", f.Filename, err)
	}
	return nil
}

func (s *Store) FindFile(ctx context.Context, filename string) (*File, error) {
	var f File
	err := s.db.NewSelect().
		Model(&f).
		Where("filename = ?", filename).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find file %s: %w", filename, err)
	}
	return &f, nil
}

func (s *Store) ListFiles(ctx context.Context) ([]File, error) {
	var files []File
	err := s.db.NewSelect().
		Model(&files).
		OrderExpr("upload_date ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

func (s *Store) DeleteFile(ctx context.Context, filename string) error {
	res, err := s.db.NewDelete().
		Model((*File)(nil)).
		Where("filename = ?", filename).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", filename, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func PutBlob(ctx context.Context, db *bun.DB, key string, content []byte) error {
	blob := &Blob{Key: key, Content: content}
	_, err := db.NewInsert().
		Model(blob).
		On("CONFLICT (blob_key) DO UPDATE").
		Set("content = EXCLUDED.content").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to store blob %s: %w", key, err)
	}
	return nil
}

func GetBlob(ctx context.Context, db *bun.DB, key string) ([]byte, error) {
	var blob Blob
	err := db.NewSelect().Model(&blob).Where("blob_key = ?", key).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return blob.Content, nil
}

func DeleteBlob(ctx context.Context, db *bun.DB, key string) error {
	res, err := db.NewDelete().Model((*Blob)(nil)).Where("blob_key = ?", key).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
