package club

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the club.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
