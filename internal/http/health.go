package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kotoba/internal/database"
)

// HealthResponse reports connectivity and the size of the notebook.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Stats   *database.Stats   `json:"stats,omitempty"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Status pings the database and counts its rows. An empty POS master list
// means seeding failed, so the notebook cannot tag vocab.
func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  map[string]string{},
	}
	fail := func(check, msg string) {
		resp.Checks[check] = msg
		resp.Status = "unhealthy"
	}

	switch {
	case h.db == nil:
		resp.Checks["database"] = "not configured"
	case h.db.Ping() != nil:
		fail("database", "unreachable")
	default:
		resp.Checks["database"] = "ok"
		stats, err := h.db.Stats()
		if err != nil {
			fail("tables", "error: "+err.Error())
			break
		}
		resp.Stats = &stats
		if stats.PartsOfSpeech == 0 {
			fail("parts_of_speech", "master list is empty")
		} else {
			resp.Checks["parts_of_speech"] = "ok"
		}
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

func (h *HealthController) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
