// Package main creates a new processing run folder with auto-populated
// metadata: the module's params template filled in with git version info,
// timestamps and user context, plus the standard outputs/ and logs/
// subdirectories.
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
		purpose    string
		study      string
		data       string
		modulePath string
	)
	flag.StringVar(&purpose, "purpose", "", "Brief description of the run's purpose")
	flag.StringVar(&purpose, "p", "", "Brief description of the run's purpose (alias for -purpose)")
	flag.StringVar(&study, "study", "", "Associated study (e.g., S1_historical, S2_3D_structure)")
	flag.StringVar(&study, "s", "", "Associated study (alias for -study)")
	flag.StringVar(&data, "data", "", "Description of the data being processed")
	flag.StringVar(&data, "d", "", "Description of the data being processed (alias for -data)")
	flag.StringVar(&modulePath, "module-path", "", "Path to module root (auto-detected if run from within module)")
	flag.StringVar(&modulePath, "m", "", "Path to module root (alias for -module-path)")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <run_name>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Initialize a new processing run with auto-populated metadata.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s jan2026_flat_fieldtrip -purpose \"Process 12 transects from FLAT\"\n", os.Args[0])
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

	runDir, err := run.Init(run.InitOptions{
		RunName:         runName,
		ModulePath:      modulePath,
		Purpose:         purpose,
		Study:           study,
		DataDescription: data,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Best-effort note in the operational event log.
	logger, _ := events.FromEnv()
	defer logger.Close()
	note := fmt.Sprintf("Initialized run '%s' in module '%s'", runName, filepath.Base(modulePath))
	if purpose != "" {
		note += " - " + purpose
	}
	if err := logger.Note(note); err != nil {
		log.Printf("Warning: event logging unavailable: %v", err)
	}

	fmt.Printf("Created run: %s\n", runDir)
	fmt.Println("  - analysis_params.yaml (edit processing parameters)")
	fmt.Println("  - outputs/ (for processing results)")
	fmt.Println("  - logs/ (for run-specific logs)")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Edit analysis_params.yaml to set your processing parameters")
	fmt.Println("  2. Run your processing scripts")
	fmt.Println("  3. When done, use shelve-run to archive the run")
}
