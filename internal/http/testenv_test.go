package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2/memstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kotoba/internal/anki"
	"github.com/mrlokans/kotoba/internal/config"
	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/database/tags"
	"github.com/mrlokans/kotoba/internal/flashcards"
	"github.com/mrlokans/kotoba/internal/query"
	"github.com/mrlokans/kotoba/internal/services"
	"github.com/mrlokans/kotoba/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db     *database.Database
	router *gin.Engine
	items  *services.ItemService
	cookie *http.Cookie
}

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.Open(dbPath, database.Options{})
	require.NoError(t, err)

	itemService := services.NewItemService(db, nil)
	tagRepo := tags.NewRepository(db.DB)
	builder := query.NewBuilder(db.DB)

	router := NewRouter(RouterConfig{
		Database:     db,
		Items:        itemService,
		Lister:       builder,
		Categories:   services.NewCategoryService(db, nil),
		Pos:          tagRepo,
		Flashcards:   flashcards.NewManager(builder, tagRepo, nil),
		Sessions:     session.New(memstore.New(), config.Session{}),
		AnkiImporter: anki.NewImporter(db, anki.Options{}),
		Version:      "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return &testEnv{db: db, router: router, items: itemService}, cleanup
}

// do sends a request and keeps the session cookie between calls.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req)
}

func (e *testEnv) send(req *http.Request) *httptest.ResponseRecorder {
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			e.cookie = c
		}
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
