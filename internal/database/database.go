package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/logger"
	"github.com/mrlokans/kotoba/internal/pos"
)

type Database struct {
	DB      *gorm.DB
	Catalog *pos.Catalog
}

// Options tunes Open. Zero values fall back to the defaults.
type Options struct {
	// Catalog seeds the POS master list. Defaults to pos.Default().
	Catalog  *pos.Catalog
	LogLevel gormlogger.LogLevel
	Logger   *logger.Logger
}

// Models lists every table the notebook migrates, in dependency order.
func Models() []any {
	return []any{
		&entities.VocabItem{},
		&entities.GrammarItem{},
		&entities.Category{},
		&entities.PartOfSpeech{},
		&entities.ItemCategoryLink{},
		&entities.ItemPosLink{},
	}
}

func NewDatabase(dbPath string) (*Database, error) {
	return Open(dbPath, Options{LogLevel: gormlogger.Warn})
}

// Open connects to the SQLite file at dbPath with foreign keys enforced,
// migrates the schema and seeds the POS master list.
func Open(dbPath string, opts Options) (*Database, error) {
	if opts.Catalog == nil {
		opts.Catalog = pos.Default()
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = gormlogger.Silent
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db, Catalog: opts.Catalog}

	created, err := database.seedPartsOfSpeech()
	if err != nil {
		return nil, fmt.Errorf("failed to seed parts of speech: %w", err)
	}

	opts.Logger.Info("database initialized", "path", dbPath, "pos_seeded", created)

	return database, nil
}

func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is alive.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Stats holds row counts of the notebook tables.
type Stats struct {
	Vocab         int64 `json:"vocab"`
	Grammar       int64 `json:"grammar"`
	Categories    int64 `json:"categories"`
	PartsOfSpeech int64 `json:"parts_of_speech"`
}

// Stats counts the rows of the item, category and POS master tables.
func (d *Database) Stats() (Stats, error) {
	var st Stats
	counts := []struct {
		model any
		dst   *int64
	}{
		{&entities.VocabItem{}, &st.Vocab},
		{&entities.GrammarItem{}, &st.Grammar},
		{&entities.Category{}, &st.Categories},
		{&entities.PartOfSpeech{}, &st.PartsOfSpeech},
	}
	for _, c := range counts {
		if err := d.DB.Model(c.model).Count(c.dst).Error; err != nil {
			return st, fmt.Errorf("failed to count rows: %w", err)
		}
	}
	return st, nil
}

// seedPartsOfSpeech inserts catalog entries missing from the master table.
// Existing rows, including ones appended by imports, are left untouched.
func (d *Database) seedPartsOfSpeech() (int, error) {
	created := 0
	for i, entry := range d.Catalog.Entries {
		var existing entities.PartOfSpeech
		err := d.DB.Where("name = ?", entry.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}
		row := entities.PartOfSpeech{Name: entry.Name, Label: entry.Label, SortOrder: i}
		if err := d.DB.Create(&row).Error; err != nil {
			return created, fmt.Errorf("failed to create part of speech %s: %w", entry.Name, err)
		}
		created++
	}
	return created, nil
}
