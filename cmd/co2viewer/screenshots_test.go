package main

import (
	"context"
	"image"
	_ "image/png" // register PNG decoder
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/config"
)

const kenyaResponse = `{
	"predicted_emission": 0.51, "last_year_emission": 0.42, "change_percent": 21.4, "trend": "increase",
	"historical": [
		{"Year": 2016, "CO2": 0.38}, {"Year": 2017, "CO2": null}, {"Year": 2018, "CO2": 0.40},
		{"Year": 2019, "CO2": 0.41}, {"Year": 2020, "CO2": 0.42}
	]
}`

func TestRunScreenshotsMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, kenyaResponse)
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.APIBase = srv.URL
	cfg.Charts.Width = 900
	out := t.TempDir()
	if err := RunScreenshotsMode(context.Background(), cfg, "South Africa", out); err != nil {
		t.Fatalf("screenshots: %v", err)
	}
	var widths []int
	for _, name := range []string{"trend_south_africa.png", "comparison.png"} {
		f, err := os.Open(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		widths = append(widths, img.Bounds().Dx())
	}
	if widths[0] != 900 || widths[1] != 900 {
		t.Fatalf("widths = %v, want 900", widths)
	}
}

func TestRunScreenshotsMode_SchemaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error": "Country not found"}`)
	}))
	defer srv.Close()
	cfg := config.DefaultConfig()
	cfg.APIBase = srv.URL
	if err := RunScreenshotsMode(context.Background(), cfg, "Ghana", t.TempDir()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseFeatures(t *testing.T) {
	req, err := parseFeatures("2025", "25.1", "500", "2000", "55.5", "3")
	if err != nil {
		t.Fatal(err)
	}
	if req.Year != 2025 || req.AvgTemperature != 25.1 || req.CountryCode != 3 || req.Population != 55.5 {
		t.Fatalf("req = %+v", req)
	}
	if _, err := parseFeatures("2025", "warm", "500", "2000", "55", "3"); err == nil {
		t.Fatalf("expected error for non-numeric temperature")
	}
	if _, err := parseFeatures("2025.5", "25", "500", "2000", "55", "3"); err == nil {
		t.Fatalf("expected error for fractional year")
	}
}
