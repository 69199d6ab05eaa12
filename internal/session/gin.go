package session

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kotoba/internal/flashcards"
)

// cookieWriter saves the session the first time the handler writes, since
// the cookie has to go out with the headers.
type cookieWriter struct {
	gin.ResponseWriter
	sessions *scs.SessionManager
	ctx      context.Context
	flushed  bool
	err      error
}

func (w *cookieWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *cookieWriter) WriteHeaderNow() {
	w.flush()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *cookieWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *cookieWriter) WriteString(s string) (int, error) {
	w.flush()
	return w.ResponseWriter.WriteString(s)
}

func (w *cookieWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}

// flush runs at most once per request.
func (w *cookieWriter) flush() {
	if w.flushed {
		return
	}
	w.flushed = true

	switch w.sessions.Status(w.ctx) {
	case scs.Modified:
		token, expiry, err := w.sessions.Commit(w.ctx)
		if err != nil {
			w.err = err
			return
		}
		w.sessions.WriteSessionCookie(w.ctx, w.ResponseWriter, token, expiry)
	case scs.Destroyed:
		w.sessions.WriteSessionCookie(w.ctx, w.ResponseWriter, "", time.Time{})
	}
}

// LoadSave is the gin counterpart of scs LoadAndSave. It must run before
// any handler that touches the session. A failed commit is attached to the
// gin context.
func (m *Manager) LoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(m.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := m.Load(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		w := &cookieWriter{ResponseWriter: c.Writer, sessions: m.SessionManager, ctx: ctx}
		c.Writer = w
		c.Next()

		w.flush()
		if w.err != nil {
			_ = c.Error(w.err)
		}
	}
}

// ForContext returns the session of the current request.
func (m *Manager) ForContext(c *gin.Context) flashcards.Session {
	return m.Scope(c.Request.Context())
}
