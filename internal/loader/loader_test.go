package loader_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
	"github.com/tirasundara/atm-reconciliation/internal/loader"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	raw, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return raw
}

func TestLoader_Load(t *testing.T) {
	l := loader.New()

	rs, err := l.Load(domain.ATM, "atm_transactions.csv", readFixture(t, "atm_transactions.csv"))
	require.NoError(t, err)

	assert.Equal(t, domain.ATM, rs.Side)
	assert.Equal(t, "atm_transactions.csv", rs.Source)
	require.Equal(t, 3, rs.Len())

	first := rs.Records[0]
	assert.Equal(t, "1001", first.Reference)
	assert.True(t, first.Debit.Equal(decimal.NewFromInt(100000)))
	assert.True(t, first.Credit.IsZero())
	assert.Equal(t, "TZS", first.Currency)

	// Empty credit is zero, not missing
	assert.True(t, rs.Records[1].Credit.IsZero())

	assert.Equal(t, "25000.5", rs.Records[2].Debit.String())
}

func TestLoader_Load_ReorderedColumnsAndSemicolons(t *testing.T) {
	rs, err := loader.New().Load(domain.CBS, "cbs_transactions.csv", readFixture(t, "cbs_transactions.csv"))
	require.NoError(t, err)

	assert.Equal(t, []string{"1001", "1002", "1005"}, rs.References())
	assert.True(t, rs.Records[0].Debit.Equal(decimal.NewFromInt(100000)))
	assert.True(t, rs.Records[1].Debit.Equal(decimal.NewFromInt(45000)))
	assert.Equal(t, "TZS", rs.Records[2].Currency)
}

func TestLoader_Load_MissingColumns(t *testing.T) {
	_, err := loader.New().Load(domain.ATM, "missing_columns.csv", readFixture(t, "missing_columns.csv"))
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrMissingColumns)

	var le *domain.LoaderError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, domain.ATM, le.Side)
	// Column names are case-sensitive
	assert.Equal(t, "REFERENCE, DEBIT, CREDIT, CURRENCY", le.Column)
}

func TestLoader_Load_EmptyInput(t *testing.T) {
	_, err := loader.New().Load(domain.CBS, "empty.csv", nil)

	assert.ErrorIs(t, err, domain.ErrMissingColumns)
}

func TestLoader_Load_MalformedTable(t *testing.T) {
	raw := []byte("REFERENCE,DEBIT,CREDIT,CURRENCY\n\"1001,100,0,TZS\n")

	_, err := loader.New().Load(domain.ATM, "broken.csv", raw)

	assert.ErrorIs(t, err, domain.ErrMalformedTable)
}

func TestLoader_Load_MalformedAmounts(t *testing.T) {
	_, err := loader.New().Load(domain.CBS, "malformed_amounts.csv", readFixture(t, "malformed_amounts.csv"))
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrMalformedAmount)

	var le *domain.LoaderError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, domain.CBS, le.Side)
	assert.Equal(t, "malformed_amounts.csv", le.Source)

	// Both bad cells are reported, in row order
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 2)

	var first, second *domain.LoaderError
	require.True(t, errors.As(merr.Errors[0], &first))
	require.True(t, errors.As(merr.Errors[1], &second))

	assert.Equal(t, 2, first.Row)
	assert.Equal(t, domain.ColumnDebit, first.Column)
	assert.Equal(t, 3, second.Row)
	assert.Equal(t, domain.ColumnCredit, second.Column)
}

func TestLoader_LoadRows_SingleMalformedAmount(t *testing.T) {
	header := []string{"REFERENCE", "DEBIT", "CREDIT", "CURRENCY"}
	rows := [][]string{
		{"1001", "10", "0", "TZS"},
		{"1002", "ten", "0", "TZS"},
	}

	_, err := loader.New().LoadRows(domain.ATM, "manual", header, rows)
	require.Error(t, err)

	var le *domain.LoaderError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, domain.KindMalformedAmount, le.Kind)
	assert.Equal(t, domain.ATM, le.Side)
	assert.Equal(t, 2, le.Row)
	assert.Equal(t, domain.ColumnDebit, le.Column)
	assert.Contains(t, le.Error(), `"ten" is not a number`)
}

func TestLoader_LoadRows_ShortRow(t *testing.T) {
	header := []string{"REFERENCE", "DEBIT", "CREDIT", "CURRENCY"}
	rows := [][]string{
		{"1001", "10"},
	}

	_, err := loader.New().LoadRows(domain.ATM, "manual", header, rows)

	assert.ErrorIs(t, err, domain.ErrMissingColumns)
}

func TestLoader_LoadRows_Empty(t *testing.T) {
	rs, err := loader.New().LoadRows(domain.ATM, "manual", domain.RequiredColumns, nil)
	require.NoError(t, err)

	assert.NotNil(t, rs.Records)
	assert.Equal(t, 0, rs.Len())
}

func TestLoader_DuplicatePolicy(t *testing.T) {
	raw := readFixture(t, "duplicate_references.csv")

	t.Run("first keeps every row", func(t *testing.T) {
		rs, err := loader.New().Load(domain.ATM, "dups.csv", raw)
		require.NoError(t, err)

		assert.Equal(t, 3, rs.Len())
		assert.Equal(t, []string{"1001"}, rs.Duplicates())
	})

	t.Run("reject fails the load", func(t *testing.T) {
		l := loader.New(loader.WithDuplicatePolicy(domain.DuplicateReject))

		_, err := l.Load(domain.ATM, "dups.csv", raw)
		require.Error(t, err)

		assert.ErrorIs(t, err, domain.ErrDuplicateReference)

		var le *domain.LoaderError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, 3, le.Row)
		assert.Contains(t, le.Error(), `reference "1001" already seen at row 1`)
	})
}

func TestLoader_LoadRowsConcurrently(t *testing.T) {
	header := []string{"CURRENCY", "REFERENCE", "CREDIT", "DEBIT"}

	var rows [][]string
	for i := 0; i < 2503; i++ {
		rows = append(rows, []string{"TZS", fmt.Sprintf("REF-%05d", i), "0", fmt.Sprintf("%d.25", i)})
	}

	l := loader.New(loader.WithWorkers(3), loader.WithBatchSize(100))

	sequential, err := l.LoadRows(domain.CBS, "big.csv", header, rows)
	require.NoError(t, err)

	concurrent, err := l.LoadRowsConcurrently(domain.CBS, "big.csv", header, rows)
	require.NoError(t, err)

	assert.Equal(t, sequential, concurrent)
	assert.Equal(t, "REF-02502", concurrent.Records[2502].Reference)
}

func TestLoader_LoadRowsConcurrently_ErrorRows(t *testing.T) {
	header := domain.RequiredColumns

	var rows [][]string
	for i := 0; i < 50; i++ {
		rows = append(rows, []string{fmt.Sprintf("REF-%d", i), "1", "0", "TZS"})
	}
	rows[7][1] = "x"
	rows[42][2] = "-1"

	l := loader.New(loader.WithWorkers(4), loader.WithBatchSize(5))

	_, err := l.LoadRowsConcurrently(domain.ATM, "big.csv", header, rows)
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 2)

	var first, second *domain.LoaderError
	require.True(t, errors.As(merr.Errors[0], &first))
	require.True(t, errors.As(merr.Errors[1], &second))
	assert.Equal(t, 8, first.Row)
	assert.Equal(t, 43, second.Row)
}

// buildWorkbook writes each row at its sheet row number (1-based); missing
// numbers stay blank in the sheet
func buildWorkbook(t *testing.T, rows map[int][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for n, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, n)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoader_Load_XLSXEmptyTrailingCells(t *testing.T) {
	tests := []struct {
		name   string
		header []interface{}
		row    []interface{}
		want   domain.TransactionRecord
	}{
		{
			name:   "empty trailing credit",
			header: []interface{}{"REFERENCE", "DEBIT", "CURRENCY", "CREDIT"},
			row:    []interface{}{"1001", "100000", "TZS"},
			want: domain.TransactionRecord{
				Reference: "1001",
				Debit:     decimal.NewFromInt(100000),
				Credit:    decimal.Zero,
				Currency:  "TZS",
			},
		},
		{
			name:   "empty trailing credit and currency",
			header: []interface{}{"REFERENCE", "DEBIT", "CREDIT", "CURRENCY"},
			row:    []interface{}{"1002", "50000"},
			want: domain.TransactionRecord{
				Reference: "1002",
				Debit:     decimal.NewFromInt(50000),
				Credit:    decimal.Zero,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := buildWorkbook(t, map[int][]interface{}{1: tt.header, 2: tt.row})

			rs, err := loader.New().Load(domain.ATM, "atm.xlsx", raw)
			require.NoError(t, err)

			require.Equal(t, 1, rs.Len())
			got := rs.Records[0]
			assert.Equal(t, tt.want.Reference, got.Reference)
			assert.True(t, tt.want.Debit.Equal(got.Debit), "debit %s", got.Debit)
			assert.True(t, tt.want.Credit.Equal(got.Credit), "credit %s", got.Credit)
			assert.Equal(t, tt.want.Currency, got.Currency)
		})
	}
}

func TestLoader_Load_XLSXRowNumbersCountBlankRows(t *testing.T) {
	header := []interface{}{"REFERENCE", "DEBIT", "CREDIT", "CURRENCY"}

	t.Run("malformed amount", func(t *testing.T) {
		raw := buildWorkbook(t, map[int][]interface{}{
			1: header,
			2: {"1001", "100", "0", "TZS"},
			4: {"1002", "abc", "0", "TZS"},
		})

		_, err := loader.New().Load(domain.CBS, "cbs.xlsx", raw)
		require.Error(t, err)

		var le *domain.LoaderError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, domain.KindMalformedAmount, le.Kind)
		assert.Equal(t, 3, le.Row)
		assert.Equal(t, domain.ColumnDebit, le.Column)
	})

	t.Run("duplicate reference", func(t *testing.T) {
		raw := buildWorkbook(t, map[int][]interface{}{
			1: header,
			3: {"1001", "100", "0", "TZS"},
			5: {"1001", "100", "0", "TZS"},
		})

		_, err := loader.New(loader.WithDuplicatePolicy(domain.DuplicateReject)).Load(domain.CBS, "cbs.xlsx", raw)
		require.Error(t, err)

		var le *domain.LoaderError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, domain.KindDuplicateReference, le.Kind)
		assert.Equal(t, 4, le.Row)
		assert.Contains(t, le.Error(), "already seen at row 2")
	})

	t.Run("blank rows produce no records", func(t *testing.T) {
		raw := buildWorkbook(t, map[int][]interface{}{
			1: header,
			2: {"1001", "100", "0", "TZS"},
			5: {"1002", "200", "0", "TZS"},
		})

		rs, err := loader.New().Load(domain.ATM, "atm.xlsx", raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"1001", "1002"}, rs.References())
	})
}
