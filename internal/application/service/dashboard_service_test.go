package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperror "github.com/bravo68web/repodash/pkg/errors"
)

func upstream(t *testing.T, datasets, projects string, projectStatus int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/datasets":
			_, _ = w.Write([]byte(datasets))
		case "/api/projects":
			w.WriteHeader(projectStatus)
			_, _ = w.Write([]byte(projects))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDashboardLoadUsesLiveCounts(t *testing.T) {
	t.Parallel()

	srv := upstream(t, `[1,2,3,4,5,6,7]`, `[{"id":"a"},{"id":"b"},{"id":"c"}]`, http.StatusOK)
	data, err := NewDashboardService(srv.URL, 5*time.Second).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if data.DatasetCount != 7 || data.ProjectCount != 3 {
		t.Fatalf("counts = %d/%d, want 7/3", data.DatasetCount, data.ProjectCount)
	}

	wantDatasets := []int{5, 10, 15, 20, 7}
	wantProjects := []int{2, 5, 8, 12, 3}
	for i := range wantDatasets {
		if got := data.DatasetGrowth[i].Count; got != wantDatasets[i] {
			t.Fatalf("datasetGrowth[%d] = %d, want %d", i, got, wantDatasets[i])
		}
		if got := data.ProjectGrowth[i].Count; got != wantProjects[i] {
			t.Fatalf("projectGrowth[%d] = %d, want %d", i, got, wantProjects[i])
		}
		if c := data.CombinedGrowth[i]; c.Count != wantDatasets[i] || c.ProjectCount != wantProjects[i] {
			t.Fatalf("combinedGrowth[%d] = %+v", i, c)
		}
	}
	if data.DatasetGrowth[4].Date != "2023-05" {
		t.Fatalf("live point date = %q", data.DatasetGrowth[4].Date)
	}

	if len(data.Distribution) != 2 || data.Distribution[0].Value != 7 || data.Distribution[1].Color != "#00C49F" {
		t.Fatalf("distribution = %+v", data.Distribution)
	}
}

func TestBuildDashboardDoesNotMutateHistory(t *testing.T) {
	t.Parallel()

	first := BuildDashboard(1, 1)
	first.DatasetGrowth[0].Count = 999
	if second := BuildDashboard(1, 1); second.DatasetGrowth[0].Count != 5 {
		t.Fatalf("history mutated through a returned series")
	}
}

func TestDashboardLoadFailsWhenAnyUpstreamFails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		datasets string
		projects string
		status   int
	}{
		{"server error", `[]`, `{"error":"down"}`, http.StatusInternalServerError},
		{"not an array", `{"items":[]}`, `[]`, http.StatusOK},
		{"invalid json", `[1,2`, `[]`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := upstream(t, tt.datasets, tt.projects, tt.status)
			_, err := NewDashboardService(srv.URL, 5*time.Second).Load(context.Background())
			if !apperror.IsUpstream(err) {
				t.Fatalf("err = %v, want upstream error", err)
			}
		})
	}
}

func TestDashboardLoadUnreachableUpstream(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewDashboardService(url, time.Second).Load(context.Background())
	if apperror.StatusCode(err) != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", apperror.StatusCode(err))
	}
}
