package genbank

import (
	"runtime"
	"sync"
)

// WorkItem is the raw text of one record and its position in the stream.
type WorkItem struct {
	Seq   int
	Range RecordRange
	Text  string
}

// WorkResult is a parsed record, or the error that stopped its parse.
type WorkResult struct {
	Seq    int
	Range  RecordRange
	Record *Record
	Err    error
}

// ParallelParse runs ParseRecord over items on a pool of workers and closes
// the returned channel once every item is parsed. Records come back in
// completion order; OrderedCollect restores stream order. A non-positive
// workers count means one worker per CPU.
func ParallelParse(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				rec, err := ParseRecord(item.Text, item.Range.Accession, item.Seq)
				results <- WorkResult{Seq: item.Seq, Range: item.Range, Record: rec, Err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// OrderedCollect hands parsed records to commit in stream order, holding
// back records that finish ahead of an earlier one. Identifier allocation
// and assembly happen inside commit, so they never see records out of order.
// When commit fails the remaining results are discarded and its error is
// returned.
func OrderedCollect(results <-chan WorkResult, commit func(WorkResult) error) error {
	early := make(map[int]WorkResult)
	next := 0

	for r := range results {
		early[r.Seq] = r
		for {
			ready, ok := early[next]
			if !ok {
				break
			}
			delete(early, next)
			next++
			if err := commit(ready); err != nil {
				for range results {
				}
				return err
			}
		}
	}
	return nil
}
