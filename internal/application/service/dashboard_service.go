package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bravo68web/repodash/internal/domain/models"
	apperror "github.com/bravo68web/repodash/pkg/errors"
	"github.com/bravo68web/repodash/pkg/logger"
)

// ErrMsgDashboardUnavailable is returned to clients whenever the upstream cannot be read
const ErrMsgDashboardUnavailable = "Failed to load dashboard data. Please try again later."

const (
	datasetsPath = "/api/datasets"
	projectsPath = "/api/projects"
	liveDate     = "2023-05"
)

// Palette is the fixed colour cycle of the distribution chart
var Palette = []string{"#0088FE", "#00C49F", "#FFBB28", "#FF8042"}

// Historical growth points shown before the live count.
// TODO: replace with real history once the upstream exposes per-month counts.
var (
	datasetHistory = []models.GrowthPoint{
		{Date: "2023-01", Count: 5},
		{Date: "2023-02", Count: 10},
		{Date: "2023-03", Count: 15},
		{Date: "2023-04", Count: 20},
	}
	projectHistory = []models.GrowthPoint{
		{Date: "2023-01", Count: 2},
		{Date: "2023-02", Count: 5},
		{Date: "2023-03", Count: 8},
		{Date: "2023-04", Count: 12},
	}
)

// DashboardService aggregates dataset and project counts from the upstream API
type DashboardService struct {
	client *resty.Client
	log    *logger.Logger
}

// NewDashboardService creates a DashboardService reading from baseURL
func NewDashboardService(baseURL string, timeout time.Duration) *DashboardService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &DashboardService{
		client: client,
		log:    logger.Get().WithFields(logger.Component("dashboard-service")),
	}
}

// Load fetches both collections concurrently and builds the dashboard.
// Either fetch failing fails the whole load.
func (s *DashboardService) Load(ctx context.Context) (*models.DashboardData, error) {
	var datasets, projects int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.count(gctx, datasetsPath)
		datasets = n
		return err
	})
	g.Go(func() error {
		n, err := s.count(gctx, projectsPath)
		projects = n
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.WithContext(ctx).Error("Failed to load dashboard data", logger.Error(err))
		return nil, apperror.UpstreamError("dashboard", err)
	}

	return BuildDashboard(datasets, projects), nil
}

// count returns the length of the JSON array served at path
func (s *DashboardService) count(ctx context.Context, path string) (int, error) {
	start := time.Now()
	resp, err := s.client.R().SetContext(ctx).Get(path)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", path, err)
	}

	s.log.Debug("Upstream response",
		logger.Upstream(path),
		logger.StatusCode(resp.StatusCode()),
		logger.Latency(time.Since(start)),
	)

	if resp.IsError() {
		return 0, fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode())
	}

	var items []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return 0, fmt.Errorf("GET %s: decode array: %w", path, err)
	}
	return len(items), nil
}

// BuildDashboard derives every series and slice from the two live counts
func BuildDashboard(datasets, projects int) *models.DashboardData {
	datasetGrowth := append(append([]models.GrowthPoint{}, datasetHistory...),
		models.GrowthPoint{Date: liveDate, Count: datasets})
	projectGrowth := append(append([]models.GrowthPoint{}, projectHistory...),
		models.GrowthPoint{Date: liveDate, Count: projects})

	combined := make([]models.CombinedGrowthPoint, len(datasetGrowth))
	for i := range datasetGrowth {
		combined[i] = models.CombinedGrowthPoint{
			Date:         datasetGrowth[i].Date,
			Count:        datasetGrowth[i].Count,
			ProjectCount: projectGrowth[i].Count,
		}
	}

	return &models.DashboardData{
		DatasetCount:   datasets,
		ProjectCount:   projects,
		DatasetGrowth:  datasetGrowth,
		ProjectGrowth:  projectGrowth,
		CombinedGrowth: combined,
		Distribution: []models.DistributionSlice{
			{Name: "Datasets", Value: datasets, Color: Palette[0]},
			{Name: "Projects", Value: projects, Color: Palette[1]},
		},
	}
}
