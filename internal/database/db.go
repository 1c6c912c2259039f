package database

import (
	"clima/internal/metrics"
	"clima/internal/models"
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 500
)

// DB represents the question history database
type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection and initializes the schema
// dsn format: "username:password@tcp(host:port)/dbname?parseTime=true"
func NewDB(dsn string) (*DB, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		asked_at DATETIME(6) NOT NULL,
		question TEXT NOT NULL,
		intent VARCHAR(64) NOT NULL,
		mode VARCHAR(16) NOT NULL,
		answer TEXT NOT NULL,
		error TEXT NOT NULL,
		INDEX idx_questions_asked_at (asked_at),
		INDEX idx_questions_intent (intent)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

func (db *DB) initSchema() error {
	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// StoreQuestion inserts an entry and sets its ID
func (db *DB) StoreQuestion(entry *models.QuestionEntry) error {
	defer db.updateStats()

	if entry.AskedAt.IsZero() {
		entry.AskedAt = time.Now()
	}

	query := `INSERT INTO questions (asked_at, question, intent, mode, answer, error) VALUES (?, ?, ?, ?, ?, ?)`
	queryStart := time.Now()
	res, err := db.conn.Exec(query, entry.AskedAt, entry.Question, entry.Intent, entry.Mode, entry.Answer, entry.Error)
	metrics.RecordDBQuery("INSERT", "questions", time.Since(queryStart), err)
	if err != nil {
		return fmt.Errorf("failed to store question: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// Publish stores the entry directly, for setups without the journal stream
func (db *DB) Publish(ctx context.Context, entry models.QuestionEntry) error {
	return db.StoreQuestion(&entry)
}

// RecentQuestions returns the newest entries first
func (db *DB) RecentQuestions(limit int) ([]models.QuestionEntry, error) {
	limit = ClampLimit(limit)

	query := `SELECT id, asked_at, question, intent, mode, answer, error FROM questions ORDER BY asked_at DESC, id DESC LIMIT ?`
	queryStart := time.Now()
	rows, err := db.conn.Query(query, limit)
	metrics.RecordDBQuery("SELECT", "questions", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var entries []models.QuestionEntry
	for rows.Next() {
		var e models.QuestionEntry
		if err := rows.Scan(&e.ID, &e.AskedAt, &e.Question, &e.Intent, &e.Mode, &e.Answer, &e.Error); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// IntentCounts returns how many stored questions resolved to each intent
func (db *DB) IntentCounts() (map[string]int, error) {
	query := `SELECT intent, COUNT(*) FROM questions GROUP BY intent`
	queryStart := time.Now()
	rows, err := db.conn.Query(query)
	metrics.RecordDBQuery("SELECT", "questions", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to count intents: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var intent string
		var n int
		if err := rows.Scan(&intent, &n); err != nil {
			return nil, fmt.Errorf("failed to scan intent count: %w", err)
		}
		counts[intent] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating intents: %w", err)
	}
	return counts, nil
}

// ClampLimit maps non-positive limits to the default and caps large ones
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}

func (db *DB) updateStats() {
	stats := db.conn.Stats()
	metrics.UpdateDBConnectionStats(stats.OpenConnections, stats.InUse)
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		if err := db.conn.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
			return err
		}
	}
	return nil
}
