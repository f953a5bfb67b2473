// Package app wires the configuration into the report pipeline and runs
// it end to end.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/santralytics/santralytics/auth"
	"github.com/santralytics/santralytics/config"
	"github.com/santralytics/santralytics/connectors"
	"github.com/santralytics/santralytics/connectors/epias"
	"github.com/santralytics/santralytics/core/analysis"
	coremetrics "github.com/santralytics/santralytics/core/metrics"
	"github.com/santralytics/santralytics/core/model"
	"github.com/santralytics/santralytics/infra/logger"
	"github.com/santralytics/santralytics/infra/metrics"
	"github.com/santralytics/santralytics/infra/plantdir"
	"github.com/santralytics/santralytics/internal/progress"
	"github.com/santralytics/santralytics/pkg/export"
)

// Service orchestrates the fetch, analysis and export pipeline.
type Service struct {
	cfg    *config.Config
	dir    *plantdir.Directory
	auth   *auth.Client
	source connectors.MarketSource
	sink   coremetrics.Sink
	bus    *progress.Bus
	log    logger.Logger

	promCancel context.CancelFunc
}

// Result lists the artifacts one report run produced.
type Result struct {
	RunID    string
	Workbook string
	Extras   []string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	dir, err := plantdir.Load(cfg.Plants)
	if err != nil {
		return nil, fmt.Errorf("plant directory: %w", err)
	}
	logg.Infof("plant directory %s loaded, %d plants", dir.Source(), len(dir.Plants()))

	authClient := auth.NewClient(cfg.Auth, auth.WithSink(sink))
	svc := &Service{
		cfg:    cfg,
		dir:    dir,
		auth:   authClient,
		source: epias.NewClient(cfg.Market, authClient, epias.WithSink(sink)),
		sink:   sink,
		bus:    progress.NewBus(),
		log:    logg,
	}

	if addr := cfg.Metrics.ServeAddr; addr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		svc.promCancel = cancel
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				logg.Errorf("metrics server: %v", err)
			}
		}()
	}
	return svc, nil
}

// Progress exposes the event bus the pipeline publishes to. The report
// command subscribes to it for console updates.
func (s *Service) Progress() *progress.Bus { return s.bus }

// Directory exposes the loaded plant directory.
func (s *Service) Directory() *plantdir.Directory { return s.dir }

// GenerateReport runs the full pipeline for the configured plant pair:
// resolve and validate the request, authenticate, fetch the four hourly
// series per plant, derive the metrics and write the workbook plus any
// requested extra formats into the output directory.
func (s *Service) GenerateReport(ctx context.Context) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	req := s.cfg.Report

	fail := func(err error) (*Result, error) {
		s.recordReport(coremetrics.ReportEvent{
			RunID:    runID,
			Plants:   []string{req.Plant1, req.Plant2},
			Duration: time.Since(started),
			Error:    err.Error(),
			Time:     started,
		})
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return fail(fmt.Errorf("report request: %w", err))
	}
	rng, err := req.Range()
	if err != nil {
		return fail(err)
	}
	left, err := s.dir.Lookup(req.Plant1)
	if err != nil {
		return fail(err)
	}
	right, err := s.dir.Lookup(req.Plant2)
	if err != nil {
		return fail(err)
	}
	// Type mismatch is fatal before any network traffic.
	if err := analysis.CheckComparable(left, right); err != nil {
		return fail(err)
	}
	s.log.Infof("run %s: %s vs %s, %s to %s", runID, left.Name, right.Name, req.StartDate, req.EndDate)

	s.bus.Publish(progress.Event{Stage: progress.StageAuth, Message: "EPİAŞ oturumu açılıyor"})
	if _, err := s.auth.GetToken(ctx); err != nil {
		return fail(fmt.Errorf("authentication: %w", err))
	}

	leftSet, rightSet, err := s.fetchAll(ctx, rng, left, right)
	if err != nil {
		return fail(err)
	}

	s.bus.Publish(progress.Event{Stage: progress.StageCompute, Message: "metrikler hesaplanıyor"})
	cmp := analysis.Compare(
		analysis.Summarize(left, rng, leftSet),
		analysis.Summarize(right, rng, rightSet),
	)

	res, err := s.export(rng, &cmp)
	if err != nil {
		return fail(err)
	}
	res.RunID = runID

	s.recordReport(coremetrics.ReportEvent{
		RunID:    runID,
		Plants:   []string{left.Name, right.Name},
		Start:    rng.Start,
		End:      rng.End,
		Rows:     len(cmp.Left.Hours),
		Months:   len(cmp.Rows),
		Output:   res.Workbook,
		Duration: time.Since(started),
		Time:     started,
	})
	s.log.Infof("run %s: %s written in %s", runID, res.Workbook, time.Since(started).Round(time.Millisecond))
	return res, nil
}

// fetchAll retrieves the market-wide price series once and the two
// generation series of each plant. Fetches run sequentially; the
// platform throttles parallel callers.
func (s *Service) fetchAll(ctx context.Context, rng model.DateRange, left, right model.Plant) (analysis.SeriesSet, analysis.SeriesSet, error) {
	var leftSet, rightSet analysis.SeriesSet

	const steps = 6
	step := 0
	fetch := func(plant, message string, f func() (model.HourlySeries, error)) (model.HourlySeries, error) {
		step++
		s.bus.Publish(progress.Event{
			Stage:   progress.StageFetch,
			Plant:   plant,
			Step:    step,
			Total:   steps,
			Message: message,
		})
		return f()
	}

	ptf, err := fetch("", "PTF verileri çekiliyor", func() (model.HourlySeries, error) {
		return s.source.FetchMCP(ctx, rng)
	})
	if err != nil {
		return leftSet, rightSet, fmt.Errorf("ptf: %w", err)
	}
	smf, err := fetch("", "SMF verileri çekiliyor", func() (model.HourlySeries, error) {
		return s.source.FetchSMP(ctx, rng)
	})
	if err != nil {
		return leftSet, rightSet, fmt.Errorf("smf: %w", err)
	}

	leftSet = analysis.SeriesSet{PTF: ptf, SMF: smf}
	rightSet = analysis.SeriesSet{PTF: ptf, SMF: smf}

	for _, side := range []struct {
		plant model.Plant
		set   *analysis.SeriesSet
	}{{left, &leftSet}, {right, &rightSet}} {
		plant := side.plant
		if side.set.Forecast, err = fetch(plant.Name, plant.Name+" KGÜP verileri çekiliyor", func() (model.HourlySeries, error) {
			return s.source.FetchDPP(ctx, rng, plant)
		}); err != nil {
			return leftSet, rightSet, fmt.Errorf("%s forecast: %w", plant.Name, err)
		}
		if side.set.Realized, err = fetch(plant.Name, plant.Name+" gerçekleşen üretim çekiliyor", func() (model.HourlySeries, error) {
			return s.source.FetchRealtime(ctx, rng, plant)
		}); err != nil {
			return leftSet, rightSet, fmt.Errorf("%s realized: %w", plant.Name, err)
		}
	}
	return leftSet, rightSet, nil
}

// export writes the workbook and the optional formats the request asks
// for. Every artifact lands in the configured output directory.
func (s *Service) export(rng model.DateRange, cmp *analysis.PlantComparison) (*Result, error) {
	req := s.cfg.Report
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	name := export.WorkbookFileName(cmp.Left.Plant.Name, cmp.Right.Plant.Name, rng)
	s.bus.Publish(progress.Event{Stage: progress.StageExport, Message: name + " yazılıyor"})
	res := &Result{Workbook: filepath.Join(req.OutputDir, name)}
	if err := writeFile(res.Workbook, func(w io.Writer) error {
		return export.WriteWorkbook(w, cmp)
	}); err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(name, ".xlsx")
	dates := fmt.Sprintf("%s_%s", rng.Start.Format("20060102"), rng.End.Format("20060102"))

	if req.CSV {
		for _, side := range []*analysis.PlantSummary{&cmp.Left, &cmp.Right} {
			hours := side.Hours
			path := filepath.Join(req.OutputDir, fmt.Sprintf("Saatlik_%s_%s.csv", export.Slugify(side.Plant.Name), dates))
			if err := writeFile(path, func(w io.Writer) error {
				return export.WriteHourlyCSV(w, hours)
			}); err != nil {
				return nil, err
			}
			res.Extras = append(res.Extras, path)
		}
	}

	extras := []struct {
		enabled bool
		ext     string
		write   func(io.Writer) error
	}{
		{req.JSON, ".json", func(w io.Writer) error { return export.WriteSummaryJSON(w, cmp) }},
		{req.PDF, ".pdf", func(w io.Writer) error { return export.WriteSummaryPDF(w, cmp) }},
		{req.HTML, ".html", func(w io.Writer) error { return export.WriteChartHTML(w, cmp) }},
	}
	for _, e := range extras {
		if !e.enabled {
			continue
		}
		path := filepath.Join(req.OutputDir, stem+e.ext)
		if err := writeFile(path, e.write); err != nil {
			return nil, err
		}
		res.Extras = append(res.Extras, path)
	}
	return res, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (s *Service) recordReport(ev coremetrics.ReportEvent) {
	r, ok := s.sink.(coremetrics.ReportRecorder)
	if !ok {
		return
	}
	if err := r.RecordReport(ev); err != nil {
		s.log.Warnf("report metric not recorded: %v", err)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.promCancel != nil {
		s.promCancel()
	}
	return nil
}
