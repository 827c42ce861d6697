package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
	"github.com/tirasundara/atm-reconciliation/pkg/fileutil"
)

const (
	defaultNumWorkers = 4    // Default to 4 workers
	defaultBatchSize  = 1000 // Default to 1000 rows per batch
)

var _ domain.RecordLoader = (*Loader)(nil)

// Loader normalizes raw tabular input into a canonical RecordSet
type Loader struct {
	DuplicatePolicy domain.DuplicatePolicy
	NumWorkers      int
	BatchSize       int
}

// Option configures a Loader
type Option func(*Loader)

// WithDuplicatePolicy sets what happens when a reference repeats within one side
func WithDuplicatePolicy(p domain.DuplicatePolicy) Option {
	return func(l *Loader) {
		l.DuplicatePolicy = p
	}
}

// WithWorkers sets the worker count used for large inputs
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.NumWorkers = n
		}
	}
}

// WithBatchSize sets the number of rows per worker batch
func WithBatchSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.BatchSize = n
		}
	}
}

// New creates a Loader
func New(opts ...Option) *Loader {
	l := &Loader{
		DuplicatePolicy: domain.DuplicateFirst,
		NumWorkers:      defaultNumWorkers,
		BatchSize:       defaultBatchSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load decodes raw CSV or XLSX bytes and normalizes them. Inputs larger than
// one batch are parsed concurrently; the result is the same either way.
func (l *Loader) Load(side domain.Side, source string, raw []byte) (domain.RecordSet, error) {
	header, rows, err := fileutil.ReadTable(raw)
	if errors.Is(err, fileutil.ErrEmptyTable) {
		return domain.RecordSet{}, &domain.LoaderError{
			Kind:   domain.KindMissingColumns,
			Side:   side,
			Source: source,
			Column: strings.Join(domain.RequiredColumns, ", "),
			Err:    err,
		}
	}
	if err != nil {
		return domain.RecordSet{}, domain.NewLoaderError(domain.KindMalformedTable, side, source, err)
	}

	if len(rows) > l.BatchSize && l.NumWorkers > 1 {
		return l.LoadRowsConcurrently(side, source, header, rows)
	}
	return l.LoadRows(side, source, header, rows)
}

// LoadRows normalizes already-decoded rows. Columns other than the canonical
// four are discarded. Any failure aborts the whole load.
func (l *Loader) LoadRows(side domain.Side, source string, header []string, rows [][]string) (domain.RecordSet, error) {
	cols, err := l.mapColumns(side, source, header)
	if err != nil {
		return domain.RecordSet{}, err
	}

	batch := parseBatch(cols, rows, 0)
	return l.finish(side, source, batch)
}

func (l *Loader) mapColumns(side domain.Side, source string, header []string) (columnMap, error) {
	cols, missing := createHeaderMap(header)
	if len(missing) > 0 {
		return columnMap{}, &domain.LoaderError{
			Kind:   domain.KindMissingColumns,
			Side:   side,
			Source: source,
			Column: strings.Join(missing, ", "),
			Err:    missingColumnsError(missing),
		}
	}
	return cols, nil
}

func (l *Loader) finish(side domain.Side, source string, batch batchResult) (domain.RecordSet, error) {
	if err := combine(side, source, batch.errs); err != nil {
		return domain.RecordSet{}, err
	}

	if l.DuplicatePolicy == domain.DuplicateReject {
		if err := combine(side, source, findDuplicates(batch.records, batch.rowNums)); err != nil {
			return domain.RecordSet{}, err
		}
	}

	records := batch.records
	if records == nil {
		records = []domain.TransactionRecord{}
	}

	return domain.NewRecordSet(side, source, records), nil
}

// batchResult holds the records parsed from a run of rows. rowNums[i] is the
// data row records[i] came from.
type batchResult struct {
	records []domain.TransactionRecord
	rowNums []int
	errs    []*domain.LoaderError
}

// parseBatch converts rows into records. offset is the number of data rows
// preceding this batch, so reported row numbers stay 1-based over the table.
// Blank rows produce no record but still count.
func parseBatch(cols columnMap, rows [][]string, offset int) batchResult {
	records := make([]domain.TransactionRecord, 0, len(rows))
	rowNums := make([]int, 0, len(rows))
	var errs []*domain.LoaderError

	for i, row := range rows {
		rowNum := offset + i + 1

		if fileutil.IsBlankRow(row) {
			continue
		}

		// Skip if row doesn't have enough fields
		if len(row) <= cols.maxIndex {
			errs = append(errs, &domain.LoaderError{
				Kind: domain.KindMissingColumns,
				Row:  rowNum,
				Err:  fmt.Errorf("row has %d field(s), header needs %d", len(row), cols.maxIndex+1),
			})
			continue
		}

		debit, err := parseAmount(row[cols.debit])
		if err != nil {
			errs = append(errs, &domain.LoaderError{
				Kind:   domain.KindMalformedAmount,
				Row:    rowNum,
				Column: domain.ColumnDebit,
				Err:    err,
			})
		}

		credit, err := parseAmount(row[cols.credit])
		if err != nil {
			errs = append(errs, &domain.LoaderError{
				Kind:   domain.KindMalformedAmount,
				Row:    rowNum,
				Column: domain.ColumnCredit,
				Err:    err,
			})
		}

		records = append(records, domain.TransactionRecord{
			Reference: strings.TrimSpace(row[cols.reference]),
			Debit:     debit,
			Credit:    credit,
			Currency:  strings.TrimSpace(row[cols.currency]),
		})
		rowNums = append(rowNums, rowNum)
	}

	return batchResult{records: records, rowNums: rowNums, errs: errs}
}

// parseAmount treats an empty cell as zero. Amounts are non-negative.
func parseAmount(cell string) (decimal.Decimal, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%q is negative", s)
	}

	return amount, nil
}

func findDuplicates(records []domain.TransactionRecord, rowNums []int) []*domain.LoaderError {
	firstRow := make(map[string]int, len(records))
	var errs []*domain.LoaderError

	for i, rec := range records {
		if first, seen := firstRow[rec.Reference]; seen {
			errs = append(errs, &domain.LoaderError{
				Kind:   domain.KindDuplicateReference,
				Row:    rowNums[i],
				Column: domain.ColumnReference,
				Err:    fmt.Errorf("reference %q already seen at row %d", rec.Reference, first),
			})
			continue
		}
		firstRow[rec.Reference] = rowNums[i]
	}

	return errs
}

// combine folds row errors into one LoaderError. A single error is returned
// as is; several are aggregated under the kind of the first one.
func combine(side domain.Side, source string, errs []*domain.LoaderError) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		e := errs[0]
		e.Side = side
		e.Source = source
		return e
	}

	var merr *multierror.Error
	for _, e := range errs {
		merr = multierror.Append(merr, e)
	}

	return &domain.LoaderError{
		Kind:   errs[0].Kind,
		Side:   side,
		Source: source,
		Err:    merr,
	}
}
