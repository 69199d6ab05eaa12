// Package session keeps per-browser state, such as the flashcard deck, in
// scs sessions stored in the application database.
package session

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/kotoba/internal/config"
	"github.com/mrlokans/kotoba/internal/flashcards"
)

// CookieName is the name of the session cookie.
const CookieName = "kotoba_session"

// Manager wraps scs.SessionManager with the cookie policy of the app.
type Manager struct {
	*scs.SessionManager
}

// NewSQLiteManager creates the sessions table when missing and stores
// sessions next to the study data. sqlDB is the handle underneath GORM.
func NewSQLiteManager(sqlDB *sql.DB, cfg config.Session) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}
	return New(sqlite3store.New(sqlDB), cfg), nil
}

// New creates a manager on an arbitrary store. A nil store keeps sessions
// in memory.
func New(store scs.Store, cfg config.Session) *Manager {
	sm := scs.New()
	if store != nil {
		sm.Store = store
	}

	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
	}

	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = true

	return &Manager{SessionManager: sm}
}

// Scope binds the session loaded into ctx to the flashcards.Session
// interface.
func (m *Manager) Scope(ctx context.Context) flashcards.Session {
	return &scope{sm: m.SessionManager, ctx: ctx}
}

type scope struct {
	sm  *scs.SessionManager
	ctx context.Context
}

func (s *scope) Get(key string) any {
	return s.sm.Get(s.ctx, key)
}

func (s *scope) Put(key string, value any) {
	s.sm.Put(s.ctx, key, value)
}

func (s *scope) Remove(key string) {
	s.sm.Remove(s.ctx, key)
}
