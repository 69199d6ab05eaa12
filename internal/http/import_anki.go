package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kotoba/internal/config"
	"github.com/mrlokans/kotoba/internal/logger"
)

type AnkiImportController struct {
	importer      AnkiImporter
	maxUploadSize int64
	log           *logger.Logger
}

func NewAnkiImportController(importer AnkiImporter, maxUploadSize int64, log *logger.Logger) *AnkiImportController {
	if maxUploadSize <= 0 {
		maxUploadSize = config.DefaultMaxUploadSize
	}
	return &AnkiImportController{importer: importer, maxUploadSize: maxUploadSize, log: log}
}

type ankiImportResponse struct {
	File          string `json:"file"`
	Category      string `json:"category"`
	Imported      int    `json:"imported"`
	CategoryLinks int    `json:"category_links"`
	PosLinks      int    `json:"pos_links"`
	Inferred      int    `json:"inferred"`
	Skipped       int    `json:"skipped"`
	FailedLine    int    `json:"failed_line,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Import loads one Anki text export. The category is taken from the
// uploaded file name.
// POST /api/import/anki (multipart field "file")
func (ac *AnkiImportController) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ac.maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "export file is too large"})
			return
		}
		respondBadRequest(c, "file is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, ac.log, err, "open uploaded export")
		return
	}
	defer f.Close()

	res := ac.importer.ImportReader(fileHeader.Filename, f)
	body := ankiImportResponse{
		File:          res.File,
		Category:      res.Category,
		Imported:      res.Imported,
		CategoryLinks: res.CategoryLinks,
		PosLinks:      res.PosLinks,
		Inferred:      res.Inferred,
		Skipped:       res.Skipped,
		FailedLine:    res.FailedLine,
	}
	if res.Err != nil {
		body.Error = res.Err.Error()
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
