// Package ingest reads external SQL sources into append-relations. It
// stands in for the out-of-scope ingestion pipeline's input edge: a real
// deployment's transaction manager would drive internal/relation.AppendRelation
// directly, but something has to get rows in during testing and CLI use.
package ingest

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"relcore/internal/relation"
)

// Manager tracks a set of open SQL connections keyed by caller-chosen id.
type Manager struct {
	connections map[string]*Conn
	mu          sync.RWMutex
}

// Conn is one open connection.
type Conn struct {
	ID       string
	Type     string // sqlite, postgres, mysql
	DB       *sql.DB
	DSN      string
	Created  time.Time
	LastUsed time.Time
}

func NewManager() *Manager {
	return &Manager{connections: make(map[string]*Conn)}
}

// Connect opens and pings a new connection, registering it under id.
func (m *Manager) Connect(id, dbType, dsn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.connections[id]; exists {
		return fmt.Errorf("connection %q already exists", id)
	}

	var driverName string
	switch dbType {
	case "sqlite", "sqlite3":
		driverName = "sqlite"
	case "postgres", "postgresql":
		driverName = "postgres"
	case "mysql":
		driverName = "mysql"
	default:
		return fmt.Errorf("unsupported database type: %s", dbType)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	m.connections[id] = &Conn{
		ID:       id,
		Type:     dbType,
		DB:       db,
		DSN:      dsn,
		Created:  time.Now(),
		LastUsed: time.Now(),
	}
	return nil
}

// Query runs a query and folds the result set into a read-relation: one
// heterogeneous append column per result column, populated row-wise via
// AppendObject so each result column tolerates NULLs and mixed driver
// value types without a schema declared up front.
func (m *Manager) Query(mem memory.Allocator, connID, query string, args ...interface{}) (*relation.ReadRelation, error) {
	conn, err := m.getConnection(connID)
	if err != nil {
		return nil, err
	}
	conn.LastUsed = time.Now()

	rows, err := conn.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	ar := relation.NewAppendRelation(relation.HeterogeneousFactory(mem))
	cols := make([]interface {
		AppendObject(interface{}) error
	}, len(columns))
	for i, name := range columns {
		cols[i] = ar.AppendColumn(name)
	}

	values := make([]interface{}, len(columns))
	valuePtrs := make([]interface{}, len(columns))
	for i := range columns {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			ar.Close()
			return nil, err
		}
		for i, val := range values {
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			if err := cols[i].AppendObject(val); err != nil {
				ar.Close()
				return nil, fmt.Errorf("column %q: %w", columns[i], err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		ar.Close()
		return nil, err
	}

	rel, err := ar.Read()
	if err != nil {
		ar.Close()
		return nil, err
	}
	return rel, nil
}

// Close closes one connection.
func (m *Manager) Close(connID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, exists := m.connections[connID]
	if !exists {
		return fmt.Errorf("connection %q not found", connID)
	}
	if err := conn.DB.Close(); err != nil {
		return err
	}
	delete(m.connections, connID)
	return nil
}

// CloseAll closes every open connection, continuing past individual
// failures so a single stuck driver cannot block the rest from closing.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for id, conn := range m.connections {
		if err := conn.DB.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing connection %s: %w", id, err)
		}
	}
	m.connections = make(map[string]*Conn)
	return firstErr
}

func (m *Manager) getConnection(connID string) (*Conn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conn, exists := m.connections[connID]
	if !exists {
		return nil, fmt.Errorf("connection %q not found", connID)
	}
	return conn, nil
}
