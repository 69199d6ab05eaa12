package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kotoba/internal/flashcards"
	"github.com/mrlokans/kotoba/internal/logger"
	"github.com/mrlokans/kotoba/internal/query"
)

// SessionProvider returns the session of the current request.
type SessionProvider interface {
	ForContext(c *gin.Context) flashcards.Session
}

type FlashcardsController struct {
	manager  *flashcards.Manager
	sessions SessionProvider
	log      *logger.Logger
}

func NewFlashcardsController(manager *flashcards.Manager, sessions SessionProvider, log *logger.Logger) *FlashcardsController {
	return &FlashcardsController{manager: manager, sessions: sessions, log: log}
}

type configureRequest struct {
	Scope    string `json:"scope" form:"scope"`
	Category string `json:"category" form:"category"`
	Pos      string `json:"pos" form:"pos"`
	Resume   bool   `json:"resume" form:"resume"`
}

// Configure starts a deck from filters
// POST /api/flashcards/configure
func (fc *FlashcardsController) Configure(c *gin.Context) {
	var req configureRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Scope == "" {
		req.Scope = string(query.ScopeAll)
	}

	deck, err := fc.manager.Configure(fc.sessions.ForContext(c), flashcards.Filters{
		Scope:    query.Scope(req.Scope),
		Category: req.Category,
		Pos:      req.Pos,
	}, req.Resume)
	if err != nil {
		respondError(c, fc.log, err, "configure flashcards")
		return
	}
	c.JSON(http.StatusOK, deck)
}

// Batch returns the cards starting at offset
// GET /api/flashcards/batch?offset=
func (fc *FlashcardsController) Batch(c *gin.Context) {
	offset, ok := parseIntQuery(c, "offset", 0)
	if !ok {
		return
	}

	batch, err := fc.manager.FetchBatch(fc.sessions.ForContext(c), offset)
	if err != nil {
		respondError(c, fc.log, err, "fetch flashcards")
		return
	}
	c.JSON(http.StatusOK, batch)
}

// Cursor stores the review position
// POST /api/flashcards/cursor
func (fc *FlashcardsController) Cursor(c *gin.Context) {
	var req struct {
		Index *int `json:"index" form:"index"`
	}
	if err := c.ShouldBind(&req); err != nil || req.Index == nil {
		respondBadRequest(c, "index is required")
		return
	}

	update, err := fc.manager.UpdateCursor(fc.sessions.ForContext(c), *req.Index)
	if err != nil {
		respondError(c, fc.log, err, "update flashcard cursor")
		return
	}
	c.JSON(http.StatusOK, update)
}

// Resume returns the position to continue from
// GET /api/flashcards/resume
func (fc *FlashcardsController) Resume(c *gin.Context) {
	cursor, err := fc.manager.Resume(fc.sessions.ForContext(c))
	if err != nil {
		respondError(c, fc.log, err, "resume flashcards")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cursor": cursor})
}

// Restart rewinds the deck to the first card
// POST /api/flashcards/restart
func (fc *FlashcardsController) Restart(c *gin.Context) {
	if err := fc.manager.Restart(fc.sessions.ForContext(c)); err != nil {
		respondError(c, fc.log, err, "restart flashcards")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cursor": 0})
}

// State reports the configured deck, if any
// GET /api/flashcards/state
func (fc *FlashcardsController) State(c *gin.Context) {
	deck, ok := fc.manager.State(fc.sessions.ForContext(c))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"configured": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"configured": true, "deck": deck})
}

// Reset forgets the deck
// DELETE /api/flashcards
func (fc *FlashcardsController) Reset(c *gin.Context) {
	fc.manager.Reset(fc.sessions.ForContext(c))
	respondSuccess(c, "flashcards reset")
}
