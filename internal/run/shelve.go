package run

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/laurenkolinger/bag-metashape-export/internal/security"
	"github.com/laurenkolinger/bag-metashape-export/internal/timeutil"
)

// Dispositions a shelved run can carry. The tools only record the decision;
// moving or deleting run data stays a manual step.
const (
	DispositionKeep    = "keep"
	DispositionArchive = "archive"
	DispositionDelete  = "delete"
)

// ShelveOptions describes how to shelve a run.
type ShelveOptions struct {
	RunName    string
	ModulePath string

	// Disposition is one of keep, archive or delete. Empty means keep.
	Disposition string

	// Notes are recorded as the run's final notes.
	Notes string

	// ArchiveRoot is the central metadata root to copy the params file
	// under. Empty disables central archiving.
	ArchiveRoot string

	// Clock defaults to the real clock.
	Clock timeutil.Clock
}

// ShelveResult reports what shelving did.
type ShelveResult struct {
	RunName     string
	Disposition string

	// DurationDays is valid only when HasDuration is true; runs whose params
	// lack a parseable start_date have no known duration.
	DurationDays int
	HasDuration  bool

	// ArchiveLocation is where the params copy landed, or "" when central
	// archiving was disabled.
	ArchiveLocation string
}

// Shelve marks a run as finished: sets its status and end date, records the
// disposition and final notes, and optionally copies the params file to the
// central metadata archive. Shelving an already-shelved run is an error.
func Shelve(opts ShelveOptions) (ShelveResult, error) {
	var res ShelveResult

	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	if opts.Disposition == "" {
		opts.Disposition = DispositionKeep
	}
	switch opts.Disposition {
	case DispositionKeep, DispositionArchive, DispositionDelete:
	default:
		return res, fmt.Errorf("invalid disposition %q (want keep, archive or delete)", opts.Disposition)
	}

	runDir := filepath.Join(opts.ModulePath, "inprocess", opts.RunName)
	paramsFile := filepath.Join(runDir, ParamsFileName)

	if !isDir(runDir) {
		return res, fmt.Errorf("run folder not found: %s", runDir)
	}
	if _, err := os.Stat(paramsFile); err != nil {
		return res, fmt.Errorf("%s not found in run: %s", ParamsFileName, runDir)
	}

	params, err := LoadParams(paramsFile)
	if err != nil {
		return res, err
	}
	if params.GetString("run", "status") == "shelved" {
		return res, fmt.Errorf("run %q is already shelved", opts.RunName)
	}

	now := opts.Clock.Now()

	res.RunName = opts.RunName
	res.Disposition = opts.Disposition

	params.Section("run").SetString("status", "shelved")

	temporal := params.Section("temporal")
	temporal.SetString("end_date", now.Format("2006-01-02"))
	if start, err := time.Parse("2006-01-02", params.GetString("temporal", "start_date")); err == nil {
		res.DurationDays = int(now.Sub(start).Hours() / 24)
		res.HasDuration = true
		temporal.SetInt("duration_days", res.DurationDays)
	} else {
		temporal.SetNull("duration_days")
	}

	shelving := params.Section("shelving")
	shelving.SetString("shelved_at", now.Format(time.RFC3339))
	shelving.SetString("shelved_by", currentUser())
	shelving.SetString("disposition", opts.Disposition)
	shelving.SetString("final_notes", opts.Notes)

	if opts.ArchiveRoot != "" {
		location, err := archiveParams(opts.ArchiveRoot, params, now)
		if err != nil {
			return res, err
		}
		shelving.SetString("archive_location", location)
		res.ArchiveLocation = location
	}

	if err := params.Save(paramsFile); err != nil {
		return res, err
	}
	return res, nil
}

// archiveParams copies the params document to
// <root>/_METADATA/logs/runs/shelved/<module>/<run>_<yyyymmdd>_params.yaml,
// suffixing a counter rather than ever overwriting an earlier archive.
func archiveParams(root string, params *Params, now time.Time) (string, error) {
	// Archive names come out of a hand-editable YAML file, so scrub them.
	moduleName := security.SanitizeFilename(params.GetString("run", "module_name"))
	runName := security.SanitizeFilename(params.GetString("run", "name"))

	dir := filepath.Join(root, "_METADATA", "logs", "runs", "shelved", moduleName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive directory: %w", err)
	}

	stamp := now.Format("20060102")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_params.yaml", runName, stamp))
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%s_%d_params.yaml", runName, stamp, counter))
	}

	if err := params.Save(path); err != nil {
		return "", fmt.Errorf("archive params: %w", err)
	}
	return path, nil
}
