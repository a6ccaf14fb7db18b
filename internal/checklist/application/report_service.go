package application

import (
	"context"
)

type reportQueryService struct {
	repo ReportQueryRepository
}

// NewReportQueryService exposes stored reports to the admin surface.
func NewReportQueryService(repo ReportQueryRepository) ReportQueryService {
	return &reportQueryService{repo: repo}
}

func (s *reportQueryService) List(ctx context.Context, filter ReportFilter, paging Paging) ([]ReportRecord, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *reportQueryService) Detail(ctx context.Context, id string) (*ReportRecord, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *reportQueryService) RobotStats(ctx context.Context, robotRef string) (*RobotServiceStats, error) {
	return s.repo.RobotStats(ctx, robotRef)
}
