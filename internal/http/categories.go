package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kotoba/internal/logger"
)

type CategoriesController struct {
	store CategoryStore
	pos   PosStore
	log   *logger.Logger
}

func NewCategoriesController(store CategoryStore, pos PosStore, log *logger.Logger) *CategoriesController {
	return &CategoriesController{store: store, pos: pos, log: log}
}

// List returns all category names, or names with item counts
// GET /api/categories?counts=true
func (cc *CategoriesController) List(c *gin.Context) {
	if c.Query("counts") == "true" {
		counts, err := cc.store.ListWithCounts()
		if err != nil {
			respondError(c, cc.log, err, "list categories with counts")
			return
		}
		c.JSON(http.StatusOK, counts)
		return
	}

	names, err := cc.store.List()
	if err != nil {
		respondError(c, cc.log, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, names)
}

// Rename renames a category
// PATCH /api/categories/:name
func (cc *CategoriesController) Rename(c *gin.Context) {
	var req struct {
		Name string `json:"name" form:"name"`
	}
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := cc.store.Rename(c.Param("name"), req.Name); err != nil {
		respondError(c, cc.log, err, "rename category")
		return
	}
	respondSuccess(c, "category renamed")
}

// Delete removes a category from every item
// DELETE /api/categories/:name
func (cc *CategoriesController) Delete(c *gin.Context) {
	if err := cc.store.Delete(c.Param("name")); err != nil {
		respondError(c, cc.log, err, "delete category")
		return
	}
	respondSuccess(c, "category deleted")
}

// PartsOfSpeech returns the POS master list in display order
// GET /api/pos
func (cc *CategoriesController) PartsOfSpeech(c *gin.Context) {
	list, err := cc.pos.ListPartsOfSpeech()
	if err != nil {
		respondError(c, cc.log, err, "list parts of speech")
		return
	}
	c.JSON(http.StatusOK, list)
}
