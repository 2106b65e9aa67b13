package inmemdb

import (
	"sync"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

type (
	DB struct {
		mutex  sync.Mutex
		tables map[string]*recordTable
	}

	recordTable struct {
		t     map[string]core.Record
		order []string // insertion order
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{tables: make(map[string]*recordTable)}
}

// table returns the named table, creating it on first use.
func (db *DB) table(name string) *recordTable {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	tbl, ok := db.tables[name]
	if !ok {
		tbl = &recordTable{t: make(map[string]core.Record)}
		db.tables[name] = tbl
	}
	return tbl
}

// Reset drops every table.
func (db *DB) Reset() {
	db.mutex.Lock()
	db.tables = make(map[string]*recordTable)
	db.mutex.Unlock()
}
