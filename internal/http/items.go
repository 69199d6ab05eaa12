package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kotoba/internal/logger"
	"github.com/mrlokans/kotoba/internal/query"
	"github.com/mrlokans/kotoba/internal/services"
)

type ItemsController struct {
	store  ItemStore
	lister ItemLister
	log    *logger.Logger
}

func NewItemsController(store ItemStore, lister ItemLister, log *logger.Logger) *ItemsController {
	return &ItemsController{store: store, lister: lister, log: log}
}

// List returns one page of items
// GET /api/items/:type?page=&sort=&dir=&category=&pos=&q=
func (ic *ItemsController) List(c *gin.Context) {
	itemType, ok := parseItemTypeParam(c)
	if !ok {
		return
	}
	page, ok := parseIntQuery(c, "page", 1)
	if !ok {
		return
	}

	result, err := ic.lister.List(query.Filter{
		ItemType: itemType,
		Criteria: query.Criteria{
			Category: c.Query("category"),
			Pos:      c.Query("pos"),
			Search:   c.Query("q"),
		},
		Sort:      query.SortField(c.Query("sort")),
		Direction: query.Direction(c.Query("dir")),
		Page:      page,
	})
	if err != nil {
		respondError(c, ic.log, err, "list items")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one item with its tags
// GET /api/items/:type/:id
func (ic *ItemsController) Get(c *gin.Context) {
	itemType, ok := parseItemTypeParam(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := ic.store.Get(id, itemType)
	if err != nil {
		respondError(c, ic.log, err, "get item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create adds an item
// POST /api/items/:type
func (ic *ItemsController) Create(c *gin.Context) {
	itemType, ok := parseItemTypeParam(c)
	if !ok {
		return
	}

	var input services.ItemInput
	if err := c.ShouldBind(&input); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	item, err := ic.store.Create(itemType, input)
	if err != nil {
		respondError(c, ic.log, err, "create item")
		return
	}
	respondCreated(c, item)
}

// Update replaces an item and its tags
// PUT /api/items/:type/:id
func (ic *ItemsController) Update(c *gin.Context) {
	itemType, ok := parseItemTypeParam(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input services.ItemInput
	if err := c.ShouldBind(&input); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	item, err := ic.store.Update(id, itemType, input)
	if err != nil {
		respondError(c, ic.log, err, "update item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes an item and its tag links
// DELETE /api/items/:type/:id
func (ic *ItemsController) Delete(c *gin.Context) {
	itemType, ok := parseItemTypeParam(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ic.store.Delete(id, itemType); err != nil {
		respondError(c, ic.log, err, "delete item")
		return
	}
	respondSuccess(c, "item deleted")
}
