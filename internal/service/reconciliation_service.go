package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
	"github.com/tirasundara/atm-reconciliation/internal/report"
)

// ReconciliationService orchestrates one reconciliation run. It holds no
// per-run state; every input is passed to Run or Reconcile.
type ReconciliationService struct {
	loader     domain.RecordLoader
	reconciler domain.Reconciler
	logger     zerolog.Logger
	newRunID   func() string
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	loader domain.RecordLoader,
	reconciler domain.Reconciler,
	logger zerolog.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		loader:     loader,
		reconciler: reconciler,
		logger:     logger,
		newRunID:   uuid.NewString,
	}
}

// Run fetches and loads both ledgers, then reconciles them. A failure on
// either side aborts the run before any reconciliation happens.
func (s *ReconciliationService) Run(ctx context.Context, atmSource, cbsSource domain.RecordSource) (domain.ReconciliationResult, error) {
	atm, err := s.load(ctx, domain.ATM, atmSource)
	if err != nil {
		return domain.ReconciliationResult{}, fmt.Errorf("loading ATM log: %w", err)
	}

	cbs, err := s.load(ctx, domain.CBS, cbsSource)
	if err != nil {
		return domain.ReconciliationResult{}, fmt.Errorf("loading CBS ledger: %w", err)
	}

	return s.Reconcile(atm, cbs), nil
}

// Reconcile classifies two already-loaded record sets
func (s *ReconciliationService) Reconcile(atm, cbs domain.RecordSet) domain.ReconciliationResult {
	s.logger.Debug().
		Int("atm_records", atm.Len()).
		Int("cbs_records", cbs.Len()).
		Msg("Matching ATM records with CBS records")

	discrepancies := s.reconciler.Reconcile(atm, cbs)
	summary := report.Summarize(atm, cbs, discrepancies)

	result := domain.ReconciliationResult{
		RunID:         s.newRunID(),
		ATMSource:     atm.Source,
		CBSSource:     cbs.Source,
		ATMRecords:    atm.Len(),
		CBSRecords:    cbs.Len(),
		Summary:       summary,
		Discrepancies: discrepancies,
	}

	event := s.logger.Info()
	if !summary.Reconciled() {
		event = s.logger.Warn()
	}
	event.
		Str("run_id", result.RunID).
		Int("total_references", summary.TotalReferences).
		Int("matched", summary.Matched).
		Int("missing_in_cbs", summary.MissingInCBS).
		Int("missing_in_atm", summary.MissingInATM).
		Int("amount_mismatch", summary.AmountMismatch).
		Msg("Reconciliation finished")

	return result
}

// Validate fetches and loads both sides without reconciling. Unlike Run it
// reports the problems of both sides together.
func (s *ReconciliationService) Validate(ctx context.Context, atmSource, cbsSource domain.RecordSource) (atm, cbs domain.RecordSet, err error) {
	var result *multierror.Error

	atm, atmErr := s.load(ctx, domain.ATM, atmSource)
	if atmErr != nil {
		result = multierror.Append(result, fmt.Errorf("ATM log: %w", atmErr))
	}

	cbs, cbsErr := s.load(ctx, domain.CBS, cbsSource)
	if cbsErr != nil {
		result = multierror.Append(result, fmt.Errorf("CBS ledger: %w", cbsErr))
	}

	return atm, cbs, result.ErrorOrNil()
}

func (s *ReconciliationService) load(ctx context.Context, side domain.Side, src domain.RecordSource) (domain.RecordSet, error) {
	log := s.logger.With().Str("side", string(side)).Str("source", src.Name()).Logger()

	raw, err := src.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Fetching source failed")
		return domain.RecordSet{}, err
	}

	rs, err := s.loader.Load(side, src.Name(), raw)
	if err != nil {
		log.Error().Err(err).Msg("Loading source failed")
		return domain.RecordSet{}, err
	}

	for _, ref := range rs.Duplicates() {
		log.Warn().Str("reference", ref).Msg("Duplicate reference; matching uses its first occurrence")
	}
	for i, rec := range rs.Records {
		if rec.Reference == "" {
			log.Warn().Int("record", i+1).Msg("Empty reference")
		}
	}

	log.Info().Int("records", rs.Len()).Int("references", len(rs.References())).Msg("Loaded ledger")

	return rs, nil
}
