package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
	"github.com/google/uuid"
)

// ReportRepository is both the report sink and the admin query source when
// the service runs without a database.
type ReportRepository struct {
	mu      sync.RWMutex
	records []application.ReportRecord
	clock   func() time.Time
}

// NewReportRepository returns an empty repository.
func NewReportRepository() *ReportRepository {
	return &ReportRepository{clock: time.Now}
}

// Submit stores the completed report. Implements application.ReportSink.
func (r *ReportRepository) Submit(_ context.Context, report *domain.Report, meta application.ReportMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, application.ReportRecord{
		ID:        uuid.NewString(),
		Report:    *report,
		Meta:      meta,
		CreatedAt: r.clock(),
	})
	return nil
}

func (r *ReportRepository) Find(_ context.Context, filter application.ReportFilter, paging application.Paging) ([]application.ReportRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]application.ReportRecord, 0, len(r.records))
	for _, record := range r.records {
		if filter.OverallStatus != "" && string(record.Report.OverallStatus) != filter.OverallStatus {
			continue
		}
		if filter.RobotRef != "" && record.Report.RobotRef != filter.RobotRef {
			continue
		}
		if keyword := strings.TrimSpace(filter.Keyword); keyword != "" && !matchesKeyword(record, keyword) {
			continue
		}
		matched = append(matched, record)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if paging.Limit > 0 {
		start := 0
		if paging.Page > 1 {
			start = (paging.Page - 1) * paging.Limit
		}
		if start >= len(matched) {
			return []application.ReportRecord{}, nil
		}
		end := start + paging.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, nil
}

func (r *ReportRepository) FindByID(_ context.Context, id string) (*application.ReportRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, record := range r.records {
		if record.ID == id {
			found := record
			return &found, nil
		}
	}
	return nil, application.ErrReportNotFound
}

func (r *ReportRepository) RobotStats(_ context.Context, robotRef string) (*application.RobotServiceStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &application.RobotServiceStats{RobotRef: robotRef}
	var durationSum, issueSum float64
	for _, record := range r.records {
		if record.Report.RobotRef != robotRef {
			continue
		}
		stats.InspectionCount++
		durationSum += float64(record.Report.DurationMinutes)
		issueSum += float64(record.Report.IssueCount)
		serviced := record.Report.EndTime
		if stats.LastServicedAt == nil || serviced.After(*stats.LastServicedAt) {
			last := serviced
			stats.LastServicedAt = &last
		}
	}
	if stats.InspectionCount > 0 {
		avgDuration := durationSum / float64(stats.InspectionCount)
		avgIssues := issueSum / float64(stats.InspectionCount)
		stats.AvgDuration = &avgDuration
		stats.AvgIssueCount = &avgIssues
	}
	return stats, nil
}

func matchesKeyword(record application.ReportRecord, keyword string) bool {
	keyword = strings.ToLower(keyword)
	for _, field := range []string{
		record.Meta.CustomerName,
		record.Meta.RobotSerial,
		record.Meta.RobotModel,
		record.Meta.TechnicianName,
		record.Report.RobotRef,
	} {
		if strings.Contains(strings.ToLower(field), keyword) {
			return true
		}
	}
	for _, note := range record.Report.Notes {
		if strings.Contains(strings.ToLower(note), keyword) {
			return true
		}
	}
	return false
}
