package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/trunov/imgconvert/internal/entities"
)

// ArchiveName is the file name offered for the finished archive.
const ArchiveName = "converted_images.zip"

var (
	// ErrNoFiles is returned before any request when the selection is empty.
	ErrNoFiles = errors.New("no files selected")
	// ErrNothingConverted is returned when every file failed.
	ErrNothingConverted = errors.New("no file was converted")
)

type Converter interface {
	Convert(ctx context.Context, req entities.ConversionRequest) (entities.ConversionResult, error)
}

// File is one selected source image.
type File struct {
	Name string
	Data []byte
}

// Progress is emitted after every attempted file.
type Progress struct {
	File      string
	Attempted int
	Succeeded int
	Total     int
	Percent   float64
	Err       error
}

// FileResult is the per-file outcome, in selection order.
type FileResult struct {
	Name  string
	Entry string // archive entry name, empty on failure
	Size  int
	Err   error
}

func (r FileResult) OK() bool { return r.Err == nil }

// Report is the outcome of a batch. LastError and Success are single slots:
// only the most recent failure message survives.
type Report struct {
	Total     int
	Attempted int
	Succeeded int
	Progress  float64
	Archive   []byte
	LastError string
	Success   string
	Results   []FileResult
}

// Job converts a selection of files into one archive.
type Job struct {
	conv       Converter
	format     entities.Format
	files      []File
	quality    *int
	workers    int
	onProgress func(Progress)
}

type Option func(*Job)

// WithQuality sets the quality sent with every request.
func WithQuality(q int) Option {
	return func(j *Job) {
		j.quality = &q
	}
}

// WithWorkers allows up to n requests in flight. The default is 1, strictly
// sequential in selection order.
func WithWorkers(n int) Option {
	return func(j *Job) {
		if n > 0 {
			j.workers = n
		}
	}
}

func WithProgress(fn func(Progress)) Option {
	return func(j *Job) {
		j.onProgress = fn
	}
}

func NewJob(conv Converter, format entities.Format, files []File, opts ...Option) *Job {
	j := &Job{
		conv:    conv,
		format:  format,
		files:   files,
		workers: 1,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// ErrorMessage is the user-facing text for a failed file.
func ErrorMessage(name string) string {
	return fmt.Sprintf("Error converting %s. Please try again.", name)
}

// SuccessMessage is the user-facing summary of a batch with successes.
func SuccessMessage(succeeded, total int) string {
	return fmt.Sprintf("Successfully converted %d out of %d images.", succeeded, total)
}

// Run converts every file, never stopping on a per-file failure. It returns
// ErrNoFiles for an empty selection, ErrNothingConverted when all files
// failed, and ctx.Err() when cancelled; in the last two cases the report
// carries no archive.
func (j *Job) Run(ctx context.Context) (Report, error) {
	total := len(j.files)
	if total == 0 {
		return Report{}, ErrNoFiles
	}

	rep := Report{Total: total, Results: make([]FileResult, total)}
	outputs := make([][]byte, total)
	for i, f := range j.files {
		rep.Results[i] = FileResult{Name: f.Name, Err: context.Canceled}
	}

	var mu sync.Mutex
	record := func(i int, res entities.ConversionResult, err error) {
		mu.Lock()
		defer mu.Unlock()

		name := j.files[i].Name
		rep.Attempted++
		if err == nil && res.Err != nil {
			err = res.Err
		}
		if err != nil {
			rep.Results[i] = FileResult{Name: name, Err: err}
			rep.LastError = ErrorMessage(name)
		} else {
			rep.Results[i] = FileResult{Name: name, Size: len(res.Data)}
			outputs[i] = res.Data
			rep.Succeeded++
		}
		rep.Progress = float64(rep.Attempted) / float64(total) * 100

		if j.onProgress != nil {
			j.onProgress(Progress{
				File:      name,
				Attempted: rep.Attempted,
				Succeeded: rep.Succeeded,
				Total:     total,
				Percent:   rep.Progress,
				Err:       err,
			})
		}
	}

	work := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(j.workers, total); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				if ctx.Err() != nil {
					continue
				}
				res, err := j.conv.Convert(ctx, j.request(i))
				record(i, res, err)
			}
		}()
	}

dispatch:
	for i := range j.files {
		select {
		case <-ctx.Done():
			break dispatch
		case work <- i:
		}
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return rep, err
	}
	if rep.Succeeded == 0 {
		return rep, ErrNothingConverted
	}

	archive, err := buildArchive(j.files, outputs, j.format, rep.Results)
	if err != nil {
		return rep, fmt.Errorf("build archive: %w", err)
	}
	rep.Archive = archive
	rep.Success = SuccessMessage(rep.Succeeded, total)

	return rep, nil
}

func (j *Job) request(i int) entities.ConversionRequest {
	return entities.ConversionRequest{
		Source:     j.files[i].Data,
		SourceName: j.files[i].Name,
		Format:     j.format,
		Quality:    j.quality,
	}
}

// EntryName maps a source name to its archive entry: the base name up to the
// first dot, plus the target extension.
func EntryName(name string, format entities.Format) string {
	stem, _, _ := strings.Cut(filepath.Base(filepath.ToSlash(name)), ".")
	if stem == "" || stem == "/" {
		stem = "image"
	}
	return stem + "." + format.String()
}
