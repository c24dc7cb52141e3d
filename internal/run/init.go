package run

import (
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/laurenkolinger/bag-metashape-export/internal/security"
	"github.com/laurenkolinger/bag-metashape-export/internal/timeutil"
)

// TemplateName is the params template every module ships in its inprocess/
// directory.
const TemplateName = "_analysis_params_template.yaml"

// ParamsFileName is the per-run params file created from the template.
const ParamsFileName = "analysis_params.yaml"

// InitOptions describes a run to create.
type InitOptions struct {
	// RunName names the folder under inprocess/, e.g. "jan2026_flat_fieldtrip".
	RunName string

	// ModulePath is the module root (the parent of inprocess/ and
	// github_repo/).
	ModulePath string

	// Purpose, Study and DataDescription fill the context section when
	// non-empty.
	Purpose         string
	Study           string
	DataDescription string

	// Clock defaults to the real clock.
	Clock timeutil.Clock

	// GitInfo collects repository state; it defaults to CollectGitInfo and
	// exists so tests can substitute a fixed value.
	GitInfo func(repoPath string) (GitInfo, error)
}

// Init creates a new run folder under the module's inprocess/ directory,
// populates analysis_params.yaml from the module template, and returns the
// run folder path. An existing run folder of the same name is never touched.
func Init(opts InitOptions) (string, error) {
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	if opts.GitInfo == nil {
		opts.GitInfo = CollectGitInfo
	}
	if err := security.ValidateRunName(opts.RunName); err != nil {
		return "", err
	}

	inprocessDir := filepath.Join(opts.ModulePath, "inprocess")
	repoDir := filepath.Join(opts.ModulePath, "github_repo")
	templateFile := filepath.Join(inprocessDir, TemplateName)

	if !isDir(inprocessDir) {
		return "", fmt.Errorf("inprocess directory not found: %s", inprocessDir)
	}
	if !isDir(repoDir) {
		return "", fmt.Errorf("github_repo directory not found: %s", repoDir)
	}
	if _, err := os.Stat(templateFile); err != nil {
		return "", fmt.Errorf("template file not found: %s", templateFile)
	}

	runDir := filepath.Join(inprocessDir, opts.RunName)
	if _, err := os.Stat(runDir); err == nil {
		return "", fmt.Errorf("run folder already exists: %s", runDir)
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("create run folder: %w", err)
	}

	params, err := LoadParams(templateFile)
	if err != nil {
		return "", err
	}

	gitInfo, err := opts.GitInfo(repoDir)
	if err != nil {
		// The run is still usable without version info.
		log.Printf("Warning: could not get git info: %v", err)
		gitInfo = GitInfo{}
	}

	now := opts.Clock.Now()

	runSec := params.Section("run")
	runSec.SetString("name", opts.RunName)
	runSec.SetString("module_name", filepath.Base(opts.ModulePath))
	runSec.SetString("created_at", now.Format(time.RFC3339))
	runSec.SetString("created_by", currentUser())
	runSec.SetString("status", "active")

	params.SetVersion(gitInfo)

	params.Section("temporal").SetString("start_date", now.Format("2006-01-02"))

	ctx := params.Section("context")
	if opts.Purpose != "" {
		ctx.SetString("purpose", opts.Purpose)
	}
	if opts.Study != "" {
		ctx.SetString("study", opts.Study)
	}
	if opts.DataDescription != "" {
		ctx.SetString("data_description", opts.DataDescription)
	}

	if err := params.Save(filepath.Join(runDir, ParamsFileName)); err != nil {
		return "", err
	}

	for _, sub := range []string{"outputs", "logs"} {
		if err := os.Mkdir(filepath.Join(runDir, sub), 0o755); err != nil {
			return "", fmt.Errorf("create %s directory: %w", sub, err)
		}
	}

	return runDir, nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
