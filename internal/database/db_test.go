package database

import (
	"strings"
	"testing"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultHistoryLimit},
		{"negative uses default", -3, DefaultHistoryLimit},
		{"in range", 5, 5},
		{"at cap", MaxHistoryLimit, MaxHistoryLimit},
		{"above cap", MaxHistoryLimit + 1, MaxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampLimit(tt.limit); got != tt.want {
				t.Errorf("ClampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

func TestSchema(t *testing.T) {
	if len(schema) == 0 {
		t.Fatal("schema is empty")
	}
	for _, col := range []string{"asked_at", "question", "intent", "mode", "answer", "error"} {
		if !strings.Contains(schema[0], col) {
			t.Errorf("questions table is missing column %q", col)
		}
	}
}

func TestNewDB_InvalidDSN(t *testing.T) {
	if _, err := NewDB("not a dsn"); err == nil {
		t.Error("NewDB() error = nil for malformed DSN")
	}
}

func TestClose_NilConn(t *testing.T) {
	db := &DB{}
	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
