package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportRepository is the report sink and the admin query source. Submission
// also refreshes the per-robot service aggregate.
type ReportRepository struct {
	reports *mongo.Collection
	stats   *mongo.Collection
}

// NewReportRepository binds the report and robot-stats collections.
func NewReportRepository(db *mongo.Database, reportCollection, statsCollection string) *ReportRepository {
	return &ReportRepository{
		reports: db.Collection(reportCollection),
		stats:   db.Collection(statsCollection),
	}
}

// Submit stores the completed report. Implements application.ReportSink.
func (r *ReportRepository) Submit(ctx context.Context, report *domain.Report, meta application.ReportMetadata) error {
	doc := mapReportDocument(report, meta)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now().UTC()

	if _, err := r.reports.InsertOne(ctx, doc); err != nil {
		return err
	}
	return r.recalculateRobotStats(ctx, report.RobotRef)
}

// Find returns stored reports matching the filter, newest first.
func (r *ReportRepository) Find(ctx context.Context, filter application.ReportFilter, paging application.Paging) ([]application.ReportRecord, error) {
	mongoFilter := bson.M{}
	clauses := make([]bson.M, 0)
	if filter.OverallStatus != "" {
		clauses = append(clauses, bson.M{"overallStatus": strings.TrimSpace(filter.OverallStatus)})
	}
	if filter.RobotRef != "" {
		clauses = append(clauses, bson.M{"robotRef": strings.TrimSpace(filter.RobotRef)})
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"robotRef": pattern},
			bson.M{"meta.customerName": pattern},
			bson.M{"meta.robotSerial": pattern},
			bson.M{"meta.robotModel": pattern},
			bson.M{"meta.technicianName": pattern},
		}})
	}
	if len(clauses) == 1 {
		mongoFilter = clauses[0]
	} else if len(clauses) > 1 {
		mongoFilter["$and"] = clauses
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if paging.Limit > 0 {
		opts.SetLimit(int64(paging.Limit))
		if paging.Page > 1 {
			opts.SetSkip(int64((paging.Page - 1) * paging.Limit))
		}
	}

	cursor, err := r.reports.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]application.ReportRecord, 0)
	for cursor.Next(ctx) {
		var doc ReportDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, mapReportRecord(doc))
	}
	return records, cursor.Err()
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*application.ReportRecord, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrReportNotFound
	}
	var doc ReportDocument
	if err := r.reports.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrReportNotFound
		}
		return nil, err
	}
	record := mapReportRecord(doc)
	return &record, nil
}

// RobotStats reads the maintained aggregate. A robot with no reports yields a
// zero-count result rather than an error.
func (r *ReportRepository) RobotStats(ctx context.Context, robotRef string) (*application.RobotServiceStats, error) {
	var doc RobotStatsDocument
	err := r.stats.FindOne(ctx, bson.M{"_id": strings.TrimSpace(robotRef)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &application.RobotServiceStats{RobotRef: robotRef}, nil
	}
	if err != nil {
		return nil, err
	}
	return &application.RobotServiceStats{
		RobotRef:        doc.RobotRef,
		InspectionCount: doc.InspectionCount,
		AvgDuration:     doc.AvgDuration,
		AvgIssueCount:   doc.AvgIssueCount,
		LastServicedAt:  doc.LastServicedAt,
	}, nil
}

// recalculateRobotStats aggregates the robot's reports and upserts the stats
// document the admin stats endpoint reads.
func (r *ReportRepository) recalculateRobotStats(ctx context.Context, robotRef string) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"robotRef": robotRef}}},
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"inspectionCount": bson.M{"$sum": 1},
			"avgDuration":     bson.M{"$avg": "$durationMinutes"},
			"avgIssueCount":   bson.M{"$avg": "$issueCount"},
			"lastServicedAt":  bson.M{"$max": "$endTime"},
		}}},
	}

	cursor, err := r.reports.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	update := bson.M{
		"inspectionCount": 0,
		"avgDuration":     nil,
		"avgIssueCount":   nil,
		"lastServicedAt":  nil,
		"updatedAt":       time.Now().UTC(),
	}

	if cursor.Next(ctx) {
		var agg struct {
			InspectionCount int        `bson:"inspectionCount"`
			AvgDuration     *float64   `bson:"avgDuration"`
			AvgIssueCount   *float64   `bson:"avgIssueCount"`
			LastServicedAt  *time.Time `bson:"lastServicedAt"`
		}
		if err := cursor.Decode(&agg); err != nil {
			return err
		}
		update["inspectionCount"] = agg.InspectionCount
		update["avgDuration"] = agg.AvgDuration
		update["avgIssueCount"] = agg.AvgIssueCount
		update["lastServicedAt"] = agg.LastServicedAt
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	opts := options.Update().SetUpsert(true)
	_, err = r.stats.UpdateByID(ctx, robotRef, bson.M{"$set": update}, opts)
	return err
}

func mapReportDocument(report *domain.Report, meta application.ReportMetadata) ReportDocument {
	responses := make(map[string]string, len(report.Responses))
	for id, value := range report.Responses {
		responses[id] = string(value)
	}
	images := make(map[string][]EvidenceRefDocument, len(report.Images))
	for id, refs := range report.Images {
		images[id] = mapEvidenceRefDocuments(refs)
	}
	notes := make(map[string]string, len(report.Notes))
	for id, text := range report.Notes {
		notes[id] = text
	}

	return ReportDocument{
		SessionID:       report.SessionID,
		RobotRef:        report.RobotRef,
		TechnicianRef:   report.TechnicianRef,
		StartTime:       report.StartTime.UTC(),
		EndTime:         report.EndTime.UTC(),
		GeneratedAt:     report.GeneratedAt.UTC(),
		DurationMinutes: report.DurationMinutes,
		ClockAnomaly:    report.ClockAnomaly,
		IssueCount:      report.IssueCount,
		PhotoCount:      report.PhotoCount,
		OverallStatus:   string(report.OverallStatus),
		NextMaintenance: report.NextMaintenance.UTC(),
		Responses:       responses,
		Images:          images,
		Notes:           notes,
		Meta: ReportMetaDocument{
			CustomerName:    meta.CustomerName,
			CustomerAddress: meta.CustomerAddress,
			RobotSerial:     meta.RobotSerial,
			RobotModel:      meta.RobotModel,
			TechnicianName:  meta.TechnicianName,
		},
	}
}

func mapReportRecord(doc ReportDocument) application.ReportRecord {
	responses := make(map[string]domain.ResponseValue, len(doc.Responses))
	for id, value := range doc.Responses {
		responses[id] = domain.ResponseValue(value)
	}
	images := make(map[string][]domain.EvidenceRef, len(doc.Images))
	for id, refs := range doc.Images {
		images[id] = mapEvidenceRefsFromDocs(refs)
	}
	notes := make(map[string]string, len(doc.Notes))
	for id, text := range doc.Notes {
		notes[id] = text
	}

	return application.ReportRecord{
		ID: doc.ID.Hex(),
		Report: domain.Report{
			SessionID:       doc.SessionID,
			RobotRef:        doc.RobotRef,
			TechnicianRef:   doc.TechnicianRef,
			StartTime:       doc.StartTime,
			EndTime:         doc.EndTime,
			GeneratedAt:     doc.GeneratedAt,
			DurationMinutes: doc.DurationMinutes,
			ClockAnomaly:    doc.ClockAnomaly,
			IssueCount:      doc.IssueCount,
			PhotoCount:      doc.PhotoCount,
			OverallStatus:   domain.OverallStatus(doc.OverallStatus),
			NextMaintenance: doc.NextMaintenance,
			Responses:       responses,
			Images:          images,
			Notes:           notes,
		},
		Meta: application.ReportMetadata{
			CustomerName:    doc.Meta.CustomerName,
			CustomerAddress: doc.Meta.CustomerAddress,
			RobotSerial:     doc.Meta.RobotSerial,
			RobotModel:      doc.Meta.RobotModel,
			TechnicianName:  doc.Meta.TechnicianName,
		},
		CreatedAt: doc.CreatedAt,
	}
}
