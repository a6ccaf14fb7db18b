// Command seed populates the maintenance database with sample completed
// inspections so the admin UI and stats endpoints have data to show in
// development environments.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ctrl-robotics/maintenance-services/api/internal/catalog"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
	"github.com/ctrl-robotics/maintenance-services/api/internal/config"
	mongodoc "github.com/ctrl-robotics/maintenance-services/api/internal/infrastructure/mongo"
)

type seedOptions struct {
	reportCount     int
	robotCount      int
	dropCollections bool
	randomSeed      int64
}

var sampleCustomers = []struct {
	name    string
	address string
}{
	{"Harbor Logistics GmbH", "Hafenstrasse 12, Hamburg"},
	{"Nordkette Hotels AG", "Maria-Theresien-Strasse 5, Innsbruck"},
	{"City Clinic Mitte", "Chausseestrasse 88, Berlin"},
	{"Grand Central Mall", "Bahnhofplatz 1, Zurich"},
}

var sampleTechnicians = []struct {
	ref  string
	name string
}{
	{"tech-ane", "A. Nern"},
	{"tech-jko", "J. Kovacs"},
	{"tech-mlo", "M. Lorenz"},
}

func main() {
	opts := parseFlags()
	cfg := config.Load()
	logger := log.New(os.Stdout, "[maintenance-seed] ", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Printf("error while disconnecting MongoDB: %v", err)
		}
	}()

	db := client.Database(cfg.MongoDatabase)
	if opts.dropCollections {
		for _, name := range []string{cfg.SessionCollection, cfg.ReportCollection, cfg.RobotStatsCollection} {
			if err := db.Collection(name).Drop(ctx); err != nil {
				logger.Fatalf("failed to drop collection %s: %v", name, err)
			}
		}
		logger.Printf("dropped collections")
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))
	sessions := mongodoc.NewSessionRepository(db, cfg.SessionCollection)
	reports := mongodoc.NewReportRepository(db, cfg.ReportCollection, cfg.RobotStatsCollection)
	questionCatalog := catalog.Default()

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer seedCancel()

	for i := 0; i < opts.reportCount; i++ {
		if err := seedInspection(seedCtx, rng, sessions, reports, questionCatalog, opts.robotCount, i); err != nil {
			logger.Fatalf("failed to seed inspection %d: %v", i, err)
		}
	}

	logger.Printf("seeded %d completed inspections across %d robots", opts.reportCount, opts.robotCount)
}

func parseFlags() seedOptions {
	opts := seedOptions{}
	flag.IntVar(&opts.reportCount, "count", 24, "number of completed inspections to seed")
	flag.IntVar(&opts.robotCount, "robots", 6, "number of distinct robots")
	flag.BoolVar(&opts.dropCollections, "drop", false, "drop session/report/stats collections first")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "random seed")
	flag.Parse()
	return opts
}

// seedInspection runs the real domain flow end to end: start a session,
// answer every question, attach the evidence the catalog demands, then
// complete and submit. Seeded data therefore satisfies the same invariants
// production data does.
func seedInspection(ctx context.Context, rng *rand.Rand, sessions *mongodoc.SessionRepository, reports *mongodoc.ReportRepository, questionCatalog *domain.Catalog, robotCount, index int) error {
	robotRef := fmt.Sprintf("RB-%03d", 100+rng.Intn(robotCount))
	technician := sampleTechnicians[rng.Intn(len(sampleTechnicians))]
	customer := sampleCustomers[rng.Intn(len(sampleCustomers))]

	start := time.Now().UTC().Add(-time.Duration(index*36+rng.Intn(24)) * time.Hour)
	session := domain.NewSession("", robotRef, technician.ref, start, questionCatalog)
	if err := sessions.Create(ctx, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	for _, q := range questionCatalog.Questions() {
		value := domain.ResponseYes
		if rng.Intn(100) < 12 {
			value = domain.ResponseNo
		}
		if err := session.RecordResponse(q.ID, value); err != nil {
			return fmt.Errorf("record response %s: %w", q.ID, err)
		}

		needsImage := q.Evidence == domain.EvidenceImageAlways ||
			(q.Evidence == domain.EvidenceImageIfYes && value == domain.ResponseYes)
		if needsImage {
			uploaded := start.Add(time.Duration(rng.Intn(40)) * time.Minute)
			if err := session.AttachEvidence(q.ID, domain.EvidenceRef{
				ID:         fmt.Sprintf("seed-%d-%s", index, q.ID),
				URL:        fmt.Sprintf("https://media.example.invalid/seed/%d/%s.jpg", index, q.ID),
				UploadedAt: uploaded,
			}); err != nil {
				return fmt.Errorf("attach evidence %s: %w", q.ID, err)
			}
		}
		if q.Evidence == domain.EvidenceNoteAlways {
			if err := session.SetNote(q.ID, "checked during routine visit"); err != nil {
				return fmt.Errorf("set note %s: %w", q.ID, err)
			}
		}
	}

	end := start.Add(time.Duration(25+rng.Intn(50)) * time.Minute)
	report, err := session.Complete(end)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if err := sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	meta := application.ReportMetadata{
		CustomerName:    customer.name,
		CustomerAddress: customer.address,
		RobotSerial:     fmt.Sprintf("SN-%s-%04d", robotRef, 1000+index),
		RobotModel:      "CTRL Cleaner X2",
		TechnicianName:  technician.name,
	}
	if err := reports.Submit(ctx, report, meta); err != nil {
		return fmt.Errorf("submit report: %w", err)
	}
	return nil
}
