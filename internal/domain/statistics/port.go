package statistics

import "context"

// Gateway is the statistics half of the backend API.
type Gateway interface {
	Report(ctx context.Context) (*Report, error)
	Global(ctx context.Context) (*Global, error)
	Verdicts(ctx context.Context) (*VerdictDistribution, error)
	Criteria(ctx context.Context) ([]FailingCriterion, error)
	Levels(ctx context.Context) (LevelStatistics, error)
	Ranking(ctx context.Context, limit int) (*URLRanking, error)
}
