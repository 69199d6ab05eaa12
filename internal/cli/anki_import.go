package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/kotoba/internal/anki"
	"github.com/mrlokans/kotoba/internal/config"
	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/logger"
)

// AnkiImportCommand imports Anki "Notes in Plain Text" exports as vocab.
type AnkiImportCommand struct {
	Files        []string
	DatabasePath string
	InferPos     bool
	NoConvert    bool
	DryRun       bool
	Verbose      bool
}

func NewAnkiImportCommand() *AnkiImportCommand {
	return &AnkiImportCommand{}
}

func (cmd *AnkiImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("anki-import", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.InferPos, "infer-pos", false, "Guess the part of speech with a morphological analyser when the POS column is empty")
	fs.BoolVar(&cmd.NoConvert, "no-convert", false, "Keep explanations in simplified script")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse and normalise without writing to the database")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s anki-import [options] <export.txt> [more.txt ...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import vocabulary from Anki 'Notes in Plain Text' exports.\n\n")
		fmt.Fprintf(os.Stderr, "Each file becomes a category named after the file. A file is imported\n")
		fmt.Fprintf(os.Stderr, "completely or not at all; a failing file does not stop the others.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s anki-import NEW-JLPT__NEW-N5.txt NEW-JLPT__NEW-N4.txt\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Preview what would be imported:\n")
		fmt.Fprintf(os.Stderr, "  %s anki-import -dry-run -verbose N5.txt\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Files = fs.Args()
	if len(cmd.Files) == 0 {
		return fmt.Errorf("at least one export file is required")
	}
	return nil
}

func (cmd *AnkiImportCommand) Run() error {
	mode := "prod"
	if cmd.Verbose {
		mode = "dev"
	}
	log, err := logger.New(mode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	fmt.Println("Anki Import")
	fmt.Println("===========")
	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	fmt.Printf("Database: %s\n", absDBPath)

	db, err := database.Open(absDBPath, database.Options{Logger: log})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	opts := anki.Options{DryRun: cmd.DryRun, Logger: log}
	if !cmd.NoConvert {
		opts.Converter = anki.NewTraditionalConverter(log)
	}
	if cmd.InferPos {
		inferrer, err := anki.NewKagomeInferrer()
		if err != nil {
			return fmt.Errorf("failed to load morphological dictionary: %w", err)
		}
		opts.Inferrer = inferrer
	}

	results := anki.NewImporter(db, opts).ImportFiles(cmd.Files)

	fmt.Println("\n=== Import Summary ===")
	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
			if res.FailedLine > 0 {
				fmt.Printf("  [FAILED] %s (line %d): %v\n", res.File, res.FailedLine, res.Err)
			} else {
				fmt.Printf("  [FAILED] %s: %v\n", res.File, res.Err)
			}
			continue
		}
		fmt.Printf("  [OK] %s -> %q: %d items, %d POS links, %d skipped",
			res.File, res.Category, res.Imported, res.PosLinks, res.Skipped)
		if res.Inferred > 0 {
			fmt.Printf(", %d POS inferred", res.Inferred)
		}
		fmt.Println()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	fmt.Println("\nImport complete!")
	return nil
}
