// Package main shelves a completed processing run: marks it shelved, records
// end date and duration, and copies the params file to the central metadata
// archive for reference.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/laurenkolinger/bag-metashape-export/internal/events"
	"github.com/laurenkolinger/bag-metashape-export/internal/run"
	"github.com/laurenkolinger/bag-metashape-export/internal/version"
)

func main() {
	var (
		disposition string
		notes       string
		noArchive   bool
		modulePath  string
	)
	flag.StringVar(&disposition, "disposition", run.DispositionKeep, "What to do with the run: keep, archive or delete")
	flag.StringVar(&disposition, "d", run.DispositionKeep, "What to do with the run (alias for -disposition)")
	flag.StringVar(&notes, "notes", "", "Final notes about the run")
	flag.StringVar(&notes, "n", "", "Final notes about the run (alias for -notes)")
	flag.BoolVar(&noArchive, "no-archive", false, "Don't copy params to central archive")
	flag.StringVar(&modulePath, "module-path", "", "Path to module root (auto-detected if run from within module)")
	flag.StringVar(&modulePath, "m", "", "Path to module root (alias for -module-path)")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <run_name>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Archive a completed processing run.\n\n")
		fmt.Fprintf(os.Stderr, "Dispositions:\n")
		fmt.Fprintf(os.Stderr, "  keep    - Keep run in inprocess/ for now (default)\n")
		fmt.Fprintf(os.Stderr, "  archive - Move outputs to processed/, keep params for reference\n")
		fmt.Fprintf(os.Stderr, "  delete  - Mark for deletion (manual cleanup required)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s jan2026_flat_fieldtrip -disposition keep -notes \"All 12 transects processed\"\n", os.Args[0])
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: run name is required")
		flag.Usage()
		os.Exit(1)
	}
	runName := flag.Arg(0)

	if modulePath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Failed to resolve working directory: %v", err)
		}
		modulePath, err = run.FindModuleRoot(cwd)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: Could not auto-detect module path.")
			fmt.Fprintln(os.Stderr, "Run from within a module directory or specify -module-path")
			os.Exit(1)
		}
	}

	archiveRoot := ""
	if !noArchive {
		archiveRoot = os.Getenv(events.RootEnv)
		if archiveRoot == "" {
			log.Printf("Warning: %s not set, skipping central params archive", events.RootEnv)
		}
	}

	res, err := run.Shelve(run.ShelveOptions{
		RunName:     runName,
		ModulePath:  modulePath,
		Disposition: disposition,
		Notes:       notes,
		ArchiveRoot: archiveRoot,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, _ := events.FromEnv()
	defer logger.Close()
	note := fmt.Sprintf("Shelved run '%s' in module '%s' (disposition: %s)",
		runName, filepath.Base(modulePath), res.Disposition)
	if res.HasDuration {
		note += fmt.Sprintf(" - ran for %d days", res.DurationDays)
	}
	if notes != "" {
		note += " - " + notes
	}
	if err := logger.Note(note); err != nil {
		log.Printf("Warning: event logging unavailable: %v", err)
	}

	fmt.Printf("Shelved run: %s\n", runName)
	fmt.Printf("  Disposition: %s\n", res.Disposition)
	if res.HasDuration {
		fmt.Printf("  Duration: %d days\n", res.DurationDays)
	}
	if res.ArchiveLocation != "" {
		fmt.Printf("  Params archived to: %s\n", res.ArchiveLocation)
	}

	fmt.Println()
	switch res.Disposition {
	case run.DispositionKeep:
		fmt.Println("Run files remain in inprocess/ - manually move or delete when ready")
	case run.DispositionArchive:
		fmt.Println("Remember to manually move outputs to processed/ directory")
	case run.DispositionDelete:
		fmt.Println("Run marked for deletion - manually remove when ready")
	}
}
