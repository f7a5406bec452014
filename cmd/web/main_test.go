package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"exec-dashboard/internal/dataset"
	"exec-dashboard/internal/models"
	"exec-dashboard/internal/server"
	"exec-dashboard/internal/services"
)

func newTestServer() *server.Server {
	ds := &dataset.Dataset{Records: []models.Record{
		{
			OrderDate:   time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC),
			HasDate:     true,
			Year:        2023,
			Sales:       100,
			Profit:      20,
			Margin:      0.2,
			Region:      "East",
			Category:    "Technology",
			ProductName: "Phone Case",
		},
		{
			OrderDate:   time.Date(2022, time.June, 10, 0, 0, 0, 0, time.UTC),
			HasDate:     true,
			Year:        2022,
			Sales:       400,
			Profit:      40,
			Margin:      0.1,
			Region:      "South",
			Category:    "Technology",
			ProductName: "Laptop Stand",
		},
	}}
	dashboard := services.NewDashboard(ds, 5, slog.Default())
	templateHandlers := &server.TemplateHandlers{Dashboard: handleDashboard}
	return server.NewServer(dashboard, slog.Default(), templateHandlers)
}

func TestServer_DashboardPage(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, marker := range []string{"Executive Performance Intelligence", "chart-monthly", "growth-banner", "/sse/dashboard"} {
		if !strings.Contains(body, marker) {
			t.Errorf("dashboard page missing %q", marker)
		}
	}
	if cc := w.Header().Get("Cache-Control"); cc != cacheMaxAge {
		t.Errorf("Cache-Control = %q, want %q", cc, cacheMaxAge)
	}
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer()

	routes := []string{
		"/health",
		"/admin/stats",
		"/api/filters",
		"/api/dashboard",
		"/sse/dashboard",
	}

	for _, route := range routes {
		req := httptest.NewRequest(http.MethodGet, route, nil)
		w := httptest.NewRecorder()

		srv.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", route, w.Code, http.StatusOK)
		}
	}
}

func TestServer_APIDashboardPayload(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?year=2023&regions=East&categories=Technology", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body struct {
		Data models.DashboardData `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	if body.Data.KPIs.Revenue != 100 {
		t.Errorf("revenue = %v, want 100", body.Data.KPIs.Revenue)
	}
	// (100-400)/400 against the full prior year.
	if body.Data.Growth.Percent != -75 {
		t.Errorf("growth = %v, want -75", body.Data.Growth.Percent)
	}
	if body.Data.Growth.Increased {
		t.Error("growth should read as a decline")
	}
	if len(body.Data.TopProducts) != 1 || body.Data.TopProducts[0].Product != "Phone Case" {
		t.Errorf("unexpected top products: %+v", body.Data.TopProducts)
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}
