package loader

import (
	"golang.org/x/sync/errgroup"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
)

// LoadRowsConcurrently is a concurrent version of LoadRows(), good for handling
// tables with huge row counts. Rows are split into batches parsed by a bounded
// pool of workers; batches are stitched back in input order, so the RecordSet
// and any reported errors match LoadRows exactly.
func (l *Loader) LoadRowsConcurrently(side domain.Side, source string, header []string, rows [][]string) (domain.RecordSet, error) {
	cols, err := l.mapColumns(side, source, header)
	if err != nil {
		return domain.RecordSet{}, err
	}

	batchSize := l.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	workers := l.NumWorkers
	if workers <= 0 {
		workers = defaultNumWorkers
	}

	numBatches := (len(rows) + batchSize - 1) / batchSize
	results := make([]batchResult, numBatches)

	var g errgroup.Group
	g.SetLimit(workers)

	for i := 0; i < numBatches; i++ {
		start := i * batchSize
		end := min(start+batchSize, len(rows))

		g.Go(func() error {
			results[i] = parseBatch(cols, rows[start:end], start)
			return nil
		})
	}

	// Workers never fail; row problems travel in batchResult.errs
	_ = g.Wait()

	merged := batchResult{
		records: make([]domain.TransactionRecord, 0, len(rows)),
		rowNums: make([]int, 0, len(rows)),
	}
	for _, res := range results {
		merged.records = append(merged.records, res.records...)
		merged.rowNums = append(merged.rowNums, res.rowNums...)
		merged.errs = append(merged.errs, res.errs...)
	}

	return l.finish(side, source, merged)
}
