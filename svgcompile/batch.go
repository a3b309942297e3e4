package svgcompile

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
)

// FileError is the failure of one file of a batch.
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string { return e.File + ": " + e.Err.Error() }

func (e *FileError) Unwrap() error { return e.Err }

// BatchError lists every failing file of a batch, in input order.
type BatchError struct {
	Files []*FileError
}

func (e *BatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d file(s) failed to compile", len(e.Files))
	for _, f := range e.Files {
		b.WriteString("\n\t")
		b.WriteString(f.Error())
	}
	return b.String()
}

func (e *BatchError) Unwrap() []error {
	out := make([]error, len(e.Files))
	for i, f := range e.Files {
		out[i] = f
	}
	return out
}

type task struct {
	index int
	file  string
}

func compileWorker(tasks <-chan task, assets []*Asset, errs []error, opts Options, wg *sync.WaitGroup) {
	defer wg.Done()
	for t := range tasks {
		assets[t.index], errs[t.index] = CompileFile(t.file, opts)
	}
}

// CompileFiles compiles files concurrently. The assets are returned in
// input order. If some files fail, the successful assets are still
// returned (with nil entries for the failures), alongside a *BatchError.
func CompileFiles(files []string, opts Options) ([]*Asset, error) {
	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = min(numWorkers, len(files))

	assets := make([]*Asset, len(files))
	errs := make([]error, len(files))

	tasks := make(chan task, 20)
	var wg sync.WaitGroup
	for n := 0; n < numWorkers; n++ {
		wg.Add(1)
		go compileWorker(tasks, assets, errs, opts, &wg)
	}
	for i, file := range files {
		tasks <- task{i, file}
	}
	close(tasks)
	wg.Wait()

	var batchErr BatchError
	for i, err := range errs {
		if err != nil {
			batchErr.Files = append(batchErr.Files, &FileError{File: files[i], Err: err})
		}
	}
	if len(batchErr.Files) != 0 {
		Logger().Warn("batch compilation", "failures", len(batchErr.Files), "files", len(files))
		return assets, &batchErr
	}
	return assets, nil
}
