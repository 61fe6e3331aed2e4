package document

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/arjunmahishi/repoctx/cache"
	"github.com/arjunmahishi/repoctx/extract"
	"github.com/arjunmahishi/repoctx/scanner"
	"github.com/arjunmahishi/repoctx/types"
)

var errInvalidUTF8 = errors.New("content is not valid UTF-8")

type fileResult struct {
	summary types.FileSummary
	err     *FileError
}

// runWorkers summarizes files with a bounded pool. Results arrive in
// completion order.
func (b *Builder) runWorkers(ctx context.Context, files []types.FileJob) ([]types.FileSummary, []FileError) {
	if len(files) == 0 {
		return []types.FileSummary{}, nil
	}

	results := make(chan fileResult, 128)
	jobQueue := make(chan types.FileJob, 128)
	var wg sync.WaitGroup

	workerCount := b.opts.Jobs
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(files) {
		workerCount = len(files)
	}

	worker := func() {
		defer wg.Done()
		for job := range jobQueue {
			if ctx.Err() != nil {
				continue
			}
			summary, err := b.summarize(job)
			if err != nil {
				b.logger.Warn("skip file", "path", job.DisplayPath, "phase", err.Phase, "error", err.Err)
			}
			results <- fileResult{summary: summary, err: err}
		}
	}

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go worker()
	}

	go func() {
		defer close(jobQueue)
		for _, f := range files {
			select {
			case jobQueue <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summaries := make([]types.FileSummary, 0, len(files))
	var errs []FileError
	done := 0
	for r := range results {
		done++
		if r.err != nil {
			errs = append(errs, *r.err)
		} else {
			summaries = append(summaries, r.summary)
		}
		if b.opts.Progress != nil {
			b.opts.Progress(done, len(files))
		}
	}

	return summaries, errs
}

// summarize classifies one file and, for readable text, counts it and
// extracts its code context.
func (b *Builder) summarize(job types.FileJob) (types.FileSummary, *FileError) {
	s := types.FileSummary{
		Path:    job.DisplayPath,
		Type:    scanner.Classify(job.DisplayPath),
		Size:    job.Size,
		Skipped: job.Skipped,
	}
	if job.Skipped {
		return s, nil
	}

	fail := func(phase string, err error) (types.FileSummary, *FileError) {
		return s, &FileError{Path: job.DisplayPath, Phase: phase, Err: err}
	}

	info, err := os.Stat(job.AbsPath)
	if err != nil {
		return fail("stat", err)
	}
	s.Size = info.Size()

	key := cache.NewKey(job.AbsPath, info.Size(), info.ModTime())
	if b.opts.Cache != nil {
		if cached, ok := b.opts.Cache.Get(key); ok {
			cached.Path = job.DisplayPath
			return cached, nil
		}
	}

	text, err := scanner.IsLikelyText(job.AbsPath)
	if err != nil {
		return fail("read", err)
	}
	if !text {
		s.Binary = true
		b.remember(key, s)
		return s, nil
	}

	data, err := os.ReadFile(job.AbsPath)
	if err != nil {
		return fail("read", err)
	}
	if !utf8.Valid(data) {
		return fail("decode", errInvalidUTF8)
	}
	content := string(data)

	s.Lines = countLines(content)
	switch s.Type {
	case types.Documentation:
		s.Words = len(strings.Fields(content))
	case types.SourceCode:
		s.Context = extract.Extract(job.DisplayPath, content)
	}

	b.remember(key, s)
	return s, nil
}

func (b *Builder) remember(key cache.Key, s types.FileSummary) {
	if b.opts.Cache != nil {
		b.opts.Cache.Put(key, s)
	}
}

// countLines counts lines the way an editor shows them: a trailing
// newline does not start a new line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
