package services

import (
	"context"
	"sync"

	"deal-hunter/config"
	"deal-hunter/models"
	"deal-hunter/utils"
)

// Pipeline turns raw fragments into classified, scored, filtered deals. It
// holds the run's criteria, which must be fully constructed before the first
// fragment is processed and is never mutated afterwards.
type Pipeline struct {
	criteria *config.Criteria
	logger   *utils.Logger
	workers  int
}

// NewPipeline creates a Pipeline processing up to workers fragments
// concurrently.
func NewPipeline(criteria *config.Criteria, logger *utils.Logger, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		criteria: criteria,
		logger:   logger,
		workers:  workers,
	}
}

// Process runs one fragment through build → classify → detect → multiple →
// score. A fragment that cannot produce a deal yields a skipped result with
// a diagnostic reason; nothing here can fail the surrounding batch.
func (p *Pipeline) Process(frag *models.RawFragment) models.FragmentResult {
	deal, err := BuildDeal(frag)
	if err != nil {
		return models.FragmentResult{Skipped: true, Reason: err.Error()}
	}

	deal.Industry = ClassifyIndustry(p.criteria, deal.Title, deal.Description)
	deal.Traits, deal.AvoidTraits = DetectTraits(p.criteria, deal.Description, deal.Title)
	deal.Multiple = ComputeMultiple(deal)
	deal.Score = ScoreDeal(p.criteria, deal)

	return models.FragmentResult{Deal: deal}
}

// ProcessBatch processes fragments independently and returns the deals that
// pass the financial filters, in input order, alongside the per-fragment
// results. Fragments are embarrassingly parallel — nothing a record needs
// depends on another record — so they fan out over a worker pool. The
// context is checked between submissions only; a single fragment's pure
// transformation is never interrupted.
func (p *Pipeline) ProcessBatch(ctx context.Context, frags []*models.RawFragment) ([]*models.Deal, []models.FragmentResult) {
	results := make([]models.FragmentResult, len(frags))
	pool := utils.NewWorkerPool(p.workers, 0)

	var cancelled sync.Once
	for i, frag := range frags {
		select {
		case <-ctx.Done():
			cancelled.Do(func() {
				p.logger.Warn("[pipeline] Batch cancelled after %d of %d fragments", i, len(frags))
			})
			results[i] = models.FragmentResult{Skipped: true, Reason: "batch cancelled"}
			continue
		default:
		}

		idx, f := i, frag
		pool.Submit(func() {
			results[idx] = p.Process(f)
		})
	}
	pool.Wait()

	accepted := make([]*models.Deal, 0, len(frags))
	skipped, rejected := 0, 0
	for _, res := range results {
		switch {
		case res.Skipped:
			skipped++
			p.logger.Debug("[pipeline] Fragment skipped: %s", res.Reason)
		case PassesFilters(p.criteria, res.Deal):
			accepted = append(accepted, res.Deal)
		default:
			rejected++
			p.logger.Debug("[pipeline] Deal rejected by financial filters: %s", res.Deal.Title)
		}
	}

	p.logger.Info("[pipeline] Processed %d fragments — %d accepted, %d filtered out, %d skipped",
		len(frags), len(accepted), rejected, skipped)
	return accepted, results
}
