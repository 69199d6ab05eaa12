package anki

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/database/items"
	"github.com/mrlokans/kotoba/internal/database/tags"
	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/logger"
)

// DefaultCategory is used when a file name has no usable stem.
const DefaultCategory = "Imported Vocab"

// Options tunes an Importer. Zero values select the defaults.
type Options struct {
	Columns   Columns
	Converter Converter
	Inferrer  PosInferrer
	DryRun    bool
	Logger    *logger.Logger
}

// Result summarises the import of one file.
type Result struct {
	File          string        `json:"file"`
	Category      string        `json:"category"`
	Imported      int           `json:"imported"`
	CategoryLinks int           `json:"category_links"`
	PosLinks      int           `json:"pos_links"`
	Inferred      int           `json:"inferred"`
	Skipped       int           `json:"skipped"`
	FailedLine    int           `json:"failed_line,omitempty"`
	DryRun        bool          `json:"dry_run,omitempty"`
	Duration      time.Duration `json:"duration"`
	Err           error         `json:"-"`
}

// Failed reports whether the file was rolled back.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// RowError marks the note that aborted a file.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Importer loads Anki exports into the vocab table. Each file is written in
// a single transaction: a failing note rolls back everything imported from
// that file.
type Importer struct {
	db        *gorm.DB
	columns   Columns
	pos       *PosNormalizer
	converter Converter
	inferrer  PosInferrer
	dryRun    bool
	log       *logger.Logger
}

func NewImporter(db *database.Database, opts Options) *Importer {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	columns := opts.Columns
	if columns == (Columns{}) {
		columns = DefaultColumns
	}
	converter := opts.Converter
	if converter == nil {
		converter = Passthrough{}
	}
	return &Importer{
		db:        db.DB,
		columns:   columns,
		pos:       NewPosNormalizer(db.Catalog, log),
		converter: converter,
		inferrer:  opts.Inferrer,
		dryRun:    opts.DryRun,
		log:       log,
	}
}

// ImportFiles imports every path in order. A failed file is logged and the
// remaining files are still imported.
func (im *Importer) ImportFiles(paths []string) []*Result {
	runID := uuid.NewString()
	log := im.log.With("run_id", runID)
	log.Info("anki import started", "files", len(paths), "dry_run", im.dryRun)

	results := make([]*Result, 0, len(paths))
	failed := 0
	for _, path := range paths {
		res := im.importFile(path, log)
		if res.Failed() {
			failed++
		}
		results = append(results, res)
	}

	log.Info("anki import finished", "files", len(paths), "failed", failed)
	return results
}

// ImportFile imports a single export from disk.
func (im *Importer) ImportFile(path string) *Result {
	return im.importFile(path, im.log.With("run_id", uuid.NewString()))
}

func (im *Importer) importFile(path string, log *logger.Logger) *Result {
	f, err := os.Open(path)
	if err != nil {
		res := &Result{File: path, Category: CategoryName(path), Err: fmt.Errorf("failed to open export: %w", err)}
		log.Error("anki import failed", "file", path, "error", res.Err)
		return res
	}
	defer f.Close()
	return im.importReader(path, f, log)
}

// ImportReader imports an export held in memory, such as an upload. name is
// used to derive the category.
func (im *Importer) ImportReader(name string, r io.Reader) *Result {
	return im.importReader(name, r, im.log.With("run_id", uuid.NewString()))
}

func (im *Importer) importReader(name string, r io.Reader, log *logger.Logger) *Result {
	start := time.Now()
	res := &Result{File: name, Category: CategoryName(name), DryRun: im.dryRun}
	log = log.With("file", name, "category", res.Category)

	var err error
	if im.dryRun {
		err = im.run(res, r, nil)
	} else {
		err = im.db.Transaction(func(tx *gorm.DB) error {
			return im.run(res, r, tx)
		})
	}
	res.Duration = time.Since(start)

	if err != nil {
		res.Err = err
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			res.FailedLine = rowErr.Line
		}
		log.Error("anki import rolled back", "line", res.FailedLine, "error", err)
		res.Imported, res.CategoryLinks, res.PosLinks, res.Inferred = 0, 0, 0, 0
		return res
	}

	log.Info("anki file imported",
		"imported", res.Imported,
		"category_links", res.CategoryLinks,
		"pos_links", res.PosLinks,
		"inferred", res.Inferred,
		"skipped", res.Skipped,
		"dry_run", im.dryRun,
		"duration", res.Duration,
	)
	return res
}

// run reads every note and writes it through tx. A nil tx only parses.
func (im *Importer) run(res *Result, r io.Reader, tx *gorm.DB) error {
	var (
		itemRepo   *items.Repository
		tagRepo    *tags.Repository
		categoryID uint
		posIDs     = map[string]uint{}
	)
	if tx != nil {
		itemRepo = items.NewRepository(tx)
		tagRepo = tags.NewRepository(tx)
		id, err := tagRepo.GetOrCreateCategory(res.Category)
		if err != nil {
			return fmt.Errorf("failed to create category %q: %w", res.Category, err)
		}
		categoryID = id
	}

	reader := NewReader(r, im.columns)
	defer func() { res.Skipped += reader.Skipped }()

	for {
		note, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if note.Term == "" || note.Explanation == "" {
			res.Skipped++
			continue
		}

		fields, posNames, inferred := im.prepare(note)
		if inferred {
			res.Inferred++
		}
		if tx == nil {
			res.Imported++
			res.CategoryLinks++
			res.PosLinks += len(posNames)
			continue
		}

		if err := im.store(itemRepo, tagRepo, categoryID, posIDs, fields, posNames, res); err != nil {
			return &RowError{Line: note.Line, Err: err}
		}
	}
}

func (im *Importer) prepare(note *Note) (entities.ItemFields, []string, bool) {
	fields := entities.ItemFields{
		Term:        CleanTerm(note.Term, note.Reading),
		Explanation: im.converter.Convert(note.Explanation),
		Example:     CleanExample(note.Example),
	}

	posNames := im.pos.Normalize(note.Pos)
	inferred := false
	if len(posNames) == 0 && im.inferrer != nil {
		if guess := im.inferrer.Infer(fields.Term); len(guess) > 0 {
			posNames = im.pos.catalog.Expand(guess)
			inferred = true
		}
	}
	if len(posNames) == 0 {
		posNames = []string{im.pos.catalog.Fallback}
	}
	return fields, posNames, inferred
}

func (im *Importer) store(itemRepo *items.Repository, tagRepo *tags.Repository, categoryID uint,
	posIDs map[string]uint, fields entities.ItemFields, posNames []string, res *Result) error {
	id, err := itemRepo.Create(entities.ItemTypeVocab, fields)
	if err != nil {
		return err
	}
	res.Imported++

	if err := tagRepo.LinkCategory(id, entities.ItemTypeVocab, categoryID); err != nil {
		return fmt.Errorf("failed to link category: %w", err)
	}
	res.CategoryLinks++

	for _, name := range posNames {
		posID, ok := posIDs[name]
		if !ok {
			posID, err = tagRepo.GetOrCreatePos(name)
			if err != nil {
				return fmt.Errorf("failed to resolve part of speech %q: %w", name, err)
			}
			posIDs[name] = posID
		}
		if err := tagRepo.LinkPos(id, posID); err != nil {
			return fmt.Errorf("failed to link part of speech %q: %w", name, err)
		}
		res.PosLinks++
	}
	return nil
}

// CategoryName derives the category from the file name stem.
func CategoryName(path string) string {
	base := filepath.Base(strings.ReplaceAll(path, "\\", "/"))
	stem := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" || stem == "." || stem == "/" {
		return DefaultCategory
	}
	return stem
}
