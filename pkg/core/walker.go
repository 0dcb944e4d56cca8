package core

import (
	"context"
	"go/ast"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"
)

// Walker loads a project and turns every analyzable file into a FileContext
type Walker struct {
	projectRoot string
	config      *Config
	loader      *Loader

	// Worker pool
	workers    int
	fileQueue  chan fileJob
	resultChan chan *FileContext
	errorChan  chan error
	wg         sync.WaitGroup

	// Statistics
	stats WalkerStats
	mu    sync.Mutex
}

// WalkerStats contains statistics about the walk
type WalkerStats struct {
	Packages     int
	TotalFiles   int
	ParsedFiles  int
	SkippedFiles int
	ErrorFiles   int
	TypeErrors   int
}

type fileJob struct {
	path string
	file *ast.File
	pkg  *packages.Package
	load *LoadResult
}

// NewWalker creates a new project walker
func NewWalker(projectRoot string, config *Config) *Walker {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	if abs, err := filepath.Abs(projectRoot); err == nil {
		projectRoot = abs
	}

	return &Walker{
		projectRoot: projectRoot,
		config:      config,
		loader:      NewLoader(config.Settings.Tests),
		workers:     workers,
		fileQueue:   make(chan fileJob, 100),
		resultChan:  make(chan *FileContext, 100),
		errorChan:   make(chan error, 100),
	}
}

// WithWorkers sets the number of worker goroutines
func (w *Walker) WithWorkers(n int) *Walker {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Walk loads the project and streams FileContexts through a channel.
// Both channels are closed when the walk finishes.
func (w *Walker) Walk(ctx context.Context, patterns ...string) (<-chan *FileContext, <-chan error) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.worker()
	}

	go func() {
		defer close(w.fileQueue)

		load, err := w.loader.Load(ctx, w.projectRoot, patterns...)
		if err != nil {
			w.errorChan <- err
			return
		}

		w.mu.Lock()
		w.stats.Packages = len(load.Packages)
		w.stats.TypeErrors = len(load.TypeErrors)
		w.mu.Unlock()
		for _, typeErr := range load.TypeErrors {
			w.errorChan <- typeErr
		}

		w.queueFiles(ctx, load)
	}()

	go func() {
		w.wg.Wait()
		close(w.resultChan)
		close(w.errorChan)
	}()

	return w.resultChan, w.errorChan
}

// WalkSync walks the project and returns all contexts
func (w *Walker) WalkSync(ctx context.Context, patterns ...string) ([]*FileContext, []error) {
	var contexts []*FileContext
	var errs []error

	results, errChan := w.Walk(ctx, patterns...)

	done := make(chan struct{})
	go func() {
		for err := range errChan {
			errs = append(errs, err)
		}
		close(done)
	}()

	for fc := range results {
		contexts = append(contexts, fc)
	}

	<-done

	return contexts, errs
}

// queueFiles hands every file of the loaded packages to the workers once.
// With tests enabled go/packages returns non-test files twice, the first
// copy wins.
func (w *Walker) queueFiles(ctx context.Context, load *LoadResult) {
	seen := make(map[string]bool)

	for _, pkg := range load.Packages {
		for _, file := range pkg.Syntax {
			path := load.FileSet.File(file.Pos()).Name()
			if seen[path] {
				continue
			}
			seen[path] = true

			if w.skipFile(path) {
				continue
			}

			w.mu.Lock()
			w.stats.TotalFiles++
			w.mu.Unlock()

			select {
			case w.fileQueue <- fileJob{path: path, file: file, pkg: pkg, load: load}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *Walker) skipFile(path string) bool {
	relPath, err := filepath.Rel(w.projectRoot, path)
	if err != nil {
		relPath = path
	}
	relPath = filepath.ToSlash(relPath)

	// cgo output and files outside the project are not ours to report on
	outside := relPath == ".." || strings.HasPrefix(relPath, "../")
	if outside || w.config.ShouldExclude(relPath) || (!w.config.Settings.Tests && isTestPath(path)) {
		w.mu.Lock()
		w.stats.SkippedFiles++
		w.mu.Unlock()
		return true
	}
	return false
}

// worker processes files from the queue
func (w *Walker) worker() {
	defer w.wg.Done()

	for job := range w.fileQueue {
		fc, err := w.processFile(job)
		if err != nil {
			w.mu.Lock()
			w.stats.ErrorFiles++
			w.mu.Unlock()
			w.errorChan <- err
			continue
		}

		w.mu.Lock()
		w.stats.ParsedFiles++
		w.mu.Unlock()
		w.resultChan <- fc
	}
}

// processFile reads the file content and attaches the package's type info
func (w *Walker) processFile(job fileJob) (*FileContext, error) {
	content, err := os.ReadFile(job.path)
	if err != nil {
		return nil, err
	}

	fc := NewFileContext(job.path, w.projectRoot, content, w.config)

	fc.SetSyntax(job.load.FileSet, job.file, job.pkg.Types, job.pkg.TypesInfo)

	return fc, nil
}

// Stats returns the current walker statistics
func (w *Walker) Stats() WalkerStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func isTestPath(path string) bool {
	return strings.HasSuffix(path, "_test.go")
}
