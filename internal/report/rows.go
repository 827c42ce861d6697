package report

import (
	"github.com/tirasundara/atm-reconciliation/internal/domain"
)

// reportHeader is shared by the CSV, table and XLSX outputs
var reportHeader = []string{
	"Reference", "Discrepancy",
	"ATM Debit", "ATM Credit", "ATM Currency",
	"CBS Debit", "CBS Credit", "CBS Currency",
}

// reportRow is the flattened, string-only view of one discrepancy
type reportRow struct {
	Reference   string `yaml:"reference"`
	Discrepancy string `yaml:"discrepancy"`
	ATMDebit    string `yaml:"atmDebit,omitempty"`
	ATMCredit   string `yaml:"atmCredit,omitempty"`
	ATMCurrency string `yaml:"atmCurrency,omitempty"`
	CBSDebit    string `yaml:"cbsDebit,omitempty"`
	CBSCredit   string `yaml:"cbsCredit,omitempty"`
	CBSCurrency string `yaml:"cbsCurrency,omitempty"`
}

func (r reportRow) cells() []string {
	return []string{
		r.Reference, r.Discrepancy,
		r.ATMDebit, r.ATMCredit, r.ATMCurrency,
		r.CBSDebit, r.CBSCredit, r.CBSCurrency,
	}
}

func toRows(discrepancies []domain.DiscrepancyRecord) []reportRow {
	rows := make([]reportRow, 0, len(discrepancies))

	for _, d := range discrepancies {
		row := reportRow{
			Reference:   d.Reference,
			Discrepancy: string(d.Issue),
		}
		if d.ATM != nil {
			row.ATMDebit = d.ATM.Debit.String()
			row.ATMCredit = d.ATM.Credit.String()
			row.ATMCurrency = d.ATM.Currency
		}
		if d.CBS != nil {
			row.CBSDebit = d.CBS.Debit.String()
			row.CBSCredit = d.CBS.Credit.String()
			row.CBSCurrency = d.CBS.Currency
		}
		rows = append(rows, row)
	}

	return rows
}

// summaryRows lists the per-category counts in display order
func summaryRows(s domain.Summary) [][]string {
	return [][]string{
		{"Total References", itoa(s.TotalReferences)},
		{"Matched", itoa(s.Matched)},
		{string(domain.MissingInCBS), itoa(s.MissingInCBS)},
		{string(domain.MissingInATM), itoa(s.MissingInATM)},
		{string(domain.AmountMismatch), itoa(s.AmountMismatch)},
		{"Discrepancies Found", itoa(s.Discrepancies)},
	}
}
