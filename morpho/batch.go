package morpho

import (
	"runtime"
	"sync"

	"github.com/unalang/una/charclass"
	"github.com/unalang/una/config"
)

// BatchItem is one text submitted to AnalyzeBatch. Results are
// returned in input order, aligned by position with the items slice.
type BatchItem struct {
	Text []charclass.CodeUnit
}

// BatchResult is one AnalyzeBatch outcome, index-aligned with the input
// slice.
type BatchResult struct {
	Morphemes []Morpheme
	Processed int
	Err       error
}

// OpenFunc produces one Handle per worker goroutine. A Handle is not
// safe for concurrent use (spec §5: "one Handle is one independent
// analyzer state"), so AnalyzeBatch opens an independent Handle per
// worker against the same underlying resource files, rather than
// sharing a single Handle across goroutines.
type OpenFunc func() (*Handle, error)

// AnalyzeBatch runs analyze_morpho over many texts concurrently, using
// a chunk dispatcher and a fixed worker pool. Each worker owns its own
// Handle (opened via open) for the lifetime of the call and closes it
// on exit; opts is applied uniformly to every text.
func AnalyzeBatch(items []BatchItem, opts config.Options, open OpenFunc) ([]BatchResult, error) {
	results := make([]BatchResult, len(items))
	if len(items) == 0 {
		return results, nil
	}

	const chunkSize = 64
	numWorkers := runtime.NumCPU()
	if numWorkers > len(items) {
		numWorkers = len(items)
	}

	type chunk struct {
		start int
		items []BatchItem
	}
	chunksCh := make(chan chunk, numWorkers)

	var wg sync.WaitGroup
	var openErrOnce sync.Once
	var openErr error

	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()

			h, err := open()
			if err != nil {
				openErrOnce.Do(func() { openErr = err })
				return
			}
			defer h.Close()

			for c := range chunksCh {
				for i, it := range c.items {
					morphemes, processed, err := h.AnalyzeMorpho(it.Text, nil, opts)
					results[c.start+i] = BatchResult{Morphemes: morphemes, Processed: processed, Err: err}
				}
			}
		}()
	}

	go func() {
		for i := 0; i < len(items); i += chunkSize {
			end := i + chunkSize
			if end > len(items) {
				end = len(items)
			}
			chunksCh <- chunk{start: i, items: items[i:end]}
		}
		close(chunksCh)
	}()

	wg.Wait()
	return results, openErr
}
