package citygml

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// LoadOptions controls parallel loading behavior and error handling.
type LoadOptions struct {
	// Parallel enables concurrent document loading.
	Parallel bool

	// Workers specifies the number of parallel loader goroutines.
	// If 0, defaults to runtime.NumCPU().
	// Only used when Parallel is true.
	Workers int

	// SkipErrors causes loading to continue when individual documents fail.
	// Failed documents are skipped and their errors collected. When false,
	// the first error stops loading and is returned alone.
	SkipErrors bool

	// Progress is called after each document is processed, successfully or
	// not, with the number processed so far and the total.
	Progress func(loaded, total int)

	// ErrorLog receives one line per failed document.
	ErrorLog io.Writer

	// ParseOptions is applied to every document.
	ParseOptions ParseOptions
}

// DefaultLoadOptions returns load options with sensible defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Parallel:     true,
		Workers:      runtime.NumCPU(),
		SkipErrors:   true,
		ParseOptions: DefaultParseOptions(),
	}
}

// LoadModelsParallel parses many documents with a worker pool. Models are
// returned in the order of paths, without the documents that failed.
//
// Example:
//
//	models, errs := citygml.LoadModelsParallel(paths, citygml.NewParser(), citygml.LoadOptions{
//	    Parallel:   true,
//	    SkipErrors: true,
//	    Progress: func(loaded, total int) {
//	        fmt.Printf("\rLoading: %d/%d", loaded, total)
//	    },
//	})
func LoadModelsParallel(paths []string, parser Parser, opts LoadOptions) ([]*CityModel, []error) {
	if len(paths) == 0 {
		return []*CityModel{}, nil
	}
	if !opts.Parallel {
		return loadModelsSerial(paths, parser, opts)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	type loadResult struct {
		index int
		model *CityModel
		err   error
	}

	jobs := make(chan int, len(paths))
	results := make(chan loadResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				m, err := parser.ParseWithOptions(paths[index], opts.ParseOptions)
				results <- loadResult{index: index, model: m, err: err}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	byIndex := make(map[int]*CityModel)
	var errs []error
	loaded := 0
	for result := range results {
		loaded++
		if opts.Progress != nil {
			opts.Progress(loaded, len(paths))
		}

		if result.err != nil {
			err := errors.Wrap(result.err, paths[result.index])
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error loading document: %v\n", err)
			}
			if !opts.SkipErrors {
				// Remaining workers drain into the buffered channel.
				return nil, []error{err}
			}
			errs = append(errs, err)
			continue
		}
		byIndex[result.index] = result.model
	}

	models := make([]*CityModel, 0, len(byIndex))
	for i := range paths {
		if m, ok := byIndex[i]; ok {
			models = append(models, m)
		}
	}
	return models, errs
}

// loadModelsSerial loads documents one at a time (Parallel=false).
func loadModelsSerial(paths []string, parser Parser, opts LoadOptions) ([]*CityModel, []error) {
	models := make([]*CityModel, 0, len(paths))
	var errs []error

	for i, path := range paths {
		m, err := parser.ParseWithOptions(path, opts.ParseOptions)
		if opts.Progress != nil {
			opts.Progress(i+1, len(paths))
		}
		if err != nil {
			err = errors.Wrap(err, path)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error loading document: %v\n", err)
			}
			if !opts.SkipErrors {
				return nil, []error{err}
			}
			errs = append(errs, err)
			continue
		}
		models = append(models, m)
	}
	return models, errs
}

// documentExtensions are the file extensions FindDocuments collects.
var documentExtensions = map[string]bool{".gml": true, ".xml": true, ".citygml": true}

// FindDocuments returns the CityGML documents below root in lexical order.
// Code list dictionaries (files under a "codelists" directory) are left out.
func FindDocuments(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.EqualFold(d.Name(), "codelists") {
				return filepath.SkipDir
			}
			return nil
		}
		if documentExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk directory")
	}
	sort.Strings(paths)
	return paths, nil
}
