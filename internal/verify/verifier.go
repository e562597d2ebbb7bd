// Package verify checks catalog file records against the library on disk.
// It only reads; the catalog is never modified.
package verify

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/franz/music-catalog/internal/store"
	"github.com/franz/music-catalog/internal/util"
	"github.com/schollz/progressbar/v3"
	"github.com/sourcegraph/conc/pool"
)

// Status is the outcome of checking one file record
type Status string

const (
	StatusOK         Status = "ok"
	StatusMissing    Status = "missing"
	StatusNotRegular Status = "not_regular"
	StatusError      Status = "error"
)

// FileResult is the check result for one file record
type FileResult struct {
	File   *store.File
	Status Status
	Size   int64
	Err    error
}

// Result summarizes a verification run
type Result struct {
	Checked   int
	OK        int
	TotalSize int64
	Problems  []FileResult // everything not StatusOK, ordered by file ID
}

// Config holds verifier configuration
type Config struct {
	LibraryRoot  string
	Concurrency  int
	Retry        *util.RetryConfig
	ShowProgress bool
}

// Verifier checks that catalog files exist under a library root
type Verifier struct {
	root         string
	concurrency  int
	retry        *util.RetryConfig
	showProgress bool
}

// New creates a Verifier
func New(cfg *Config) *Verifier {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.Retry == nil {
		cfg.Retry = util.DefaultRetryConfig()
	}

	return &Verifier{
		root:         cfg.LibraryRoot,
		concurrency:  cfg.Concurrency,
		retry:        cfg.Retry,
		showProgress: cfg.ShowProgress,
	}
}

// Run stats every file under the library root
func (v *Verifier) Run(ctx context.Context, files []*store.File) (*Result, error) {
	if v.root == "" {
		return nil, errors.New("library root is not configured")
	}
	info, err := os.Stat(v.root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "verify", Path: v.root, Err: errors.New("not a directory")}
	}

	var bar *progressbar.ProgressBar
	if v.showProgress && util.StderrIsTerminal() && !util.IsQuiet() {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Verifying"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files"),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	p := pool.NewWithResults[FileResult]().WithMaxGoroutines(v.concurrency)
	for _, f := range files {
		p.Go(func() FileResult {
			r := v.check(ctx, f)
			if bar != nil {
				bar.Add(1)
			}
			return r
		})
	}
	results := p.Wait()

	if bar != nil {
		bar.Finish()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Checked: len(results)}
	for _, r := range results {
		if r.Status == StatusOK {
			res.OK++
			res.TotalSize += r.Size
			continue
		}
		res.Problems = append(res.Problems, r)
	}
	sort.Slice(res.Problems, func(i, j int) bool {
		return res.Problems[i].File.ID < res.Problems[j].File.ID
	})

	return res, nil
}

func (v *Verifier) check(ctx context.Context, f *store.File) FileResult {
	if err := ctx.Err(); err != nil {
		return FileResult{File: f, Status: StatusError, Err: err}
	}

	path := filepath.Join(v.root, filepath.FromSlash(f.RelativePath))
	info, err := util.RetryableStat(ctx, path, v.retry)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		util.DebugLog("Missing: %s", f.RelativePath)
		return FileResult{File: f, Status: StatusMissing}
	case err != nil:
		return FileResult{File: f, Status: StatusError, Err: err}
	case !info.Mode().IsRegular():
		return FileResult{File: f, Status: StatusNotRegular}
	}

	return FileResult{File: f, Status: StatusOK, Size: info.Size()}
}
