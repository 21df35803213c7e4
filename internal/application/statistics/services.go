package statistics

import (
	"context"

	"golang.org/x/sync/errgroup"

	domain "github.com/bryanwahyu/fisichecker/internal/domain/statistics"
)

// Service loads the statistics page model.
type Service struct{}

// Report fetches the combined report in one call.
func (s *Service) Report(ctx context.Context, gw domain.Gateway) (*domain.Report, error) {
	return gw.Report(ctx)
}

// Individual fetches every section separately and concurrently. Any
// failure fails the whole load.
func (s *Service) Individual(ctx context.Context, gw domain.Gateway) (*domain.Report, error) {
	var r domain.Report
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		r.Global, err = gw.Global(ctx)
		return err
	})
	g.Go(func() (err error) {
		r.VerdictDistribution, err = gw.Verdicts(ctx)
		return err
	})
	g.Go(func() (err error) {
		r.TopFailingCriteria, err = gw.Criteria(ctx)
		return err
	})
	g.Go(func() (err error) {
		r.LevelStatistics, err = gw.Levels(ctx)
		return err
	})
	g.Go(func() (err error) {
		r.URLRanking, err = gw.Ranking(ctx, domain.RankingLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.Trim()
	return &r, nil
}
