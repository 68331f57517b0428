package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// DB wraps the database connection and provides query methods
type DB struct {
	conn *sql.DB
}

// Config contains database connection configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// User row from the users table
type User struct {
	ID             int64
	Username       string
	HashedPassword string
	CreatedAt      int64
}

// Record row from the records table. Blob is the base64 envelope produced by
// the cipher engine; plaintext never reaches the database.
type Record struct {
	ID        int64
	OwnerID   int64
	Label     string
	Blob      string
	Rounds    int
	CreatedAt int64
}

// New creates a new database connection
func New(cfg Config) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// InitSchema creates all database tables
func (db *DB) InitSchema() error {
	schema := `
	-- Users table
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(255) UNIQUE NOT NULL,
		hashed_password VARCHAR(255) NOT NULL,
		created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
	);

	-- Encrypted records table
	CREATE TABLE IF NOT EXISTS records (
		id BIGSERIAL PRIMARY KEY,
		owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		label VARCHAR(255) NOT NULL,
		blob TEXT NOT NULL,
		rounds INT NOT NULL DEFAULT 10,
		created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_records_owner_id ON records(owner_id);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// CreateUser inserts a new user and returns its ID
func (db *DB) CreateUser(username, hashedPassword string) (int64, error) {
	var id int64
	err := db.conn.QueryRow(
		"INSERT INTO users (username, hashed_password) VALUES ($1, $2) RETURNING id",
		username, hashedPassword,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetUserByUsername returns a user by username, or nil if not found
func (db *DB) GetUserByUsername(username string) (*User, error) {
	user := &User{}
	err := db.conn.QueryRow(
		"SELECT id, username, hashed_password, created_at FROM users WHERE username = $1",
		username,
	).Scan(&user.ID, &user.Username, &user.HashedPassword, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID returns a user by ID, or nil if not found
func (db *DB) GetUserByID(userID int64) (*User, error) {
	user := &User{}
	err := db.conn.QueryRow(
		"SELECT id, username, hashed_password, created_at FROM users WHERE id = $1",
		userID,
	).Scan(&user.ID, &user.Username, &user.HashedPassword, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateRecord stores an encrypted blob for a user and returns the record ID
func (db *DB) CreateRecord(ownerID int64, label, blob string, rounds int) (int64, error) {
	var id int64
	err := db.conn.QueryRow(
		"INSERT INTO records (owner_id, label, blob, rounds) VALUES ($1, $2, $3, $4) RETURNING id",
		ownerID, label, blob, rounds,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetRecord returns a record by ID, or nil if not found
func (db *DB) GetRecord(recordID int64) (*Record, error) {
	record := &Record{}
	err := db.conn.QueryRow(
		"SELECT id, owner_id, label, blob, rounds, created_at FROM records WHERE id = $1",
		recordID,
	).Scan(&record.ID, &record.OwnerID, &record.Label, &record.Blob, &record.Rounds, &record.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListRecords returns all records owned by a user, newest first
func (db *DB) ListRecords(ownerID int64) ([]*Record, error) {
	rows, err := db.conn.Query(
		"SELECT id, owner_id, label, blob, rounds, created_at FROM records WHERE owner_id = $1 ORDER BY created_at DESC, id DESC",
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record := &Record{}
		if err := rows.Scan(&record.ID, &record.OwnerID, &record.Label, &record.Blob, &record.Rounds, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteRecord removes a record owned by the given user. It returns the
// number of rows deleted, so callers can distinguish "not found" from "not
// yours" without a second query.
func (db *DB) DeleteRecord(recordID, ownerID int64) (int64, error) {
	res, err := db.conn.Exec(
		"DELETE FROM records WHERE id = $1 AND owner_id = $2",
		recordID, ownerID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
