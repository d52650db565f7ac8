package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fakeService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/countries":
			_, _ = io.WriteString(w, `{"countries": ["Kenya", "Ghana"]}`)
		case "/predict":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if _, manual := body["Year"]; manual {
				_, _ = io.WriteString(w, `{"Predicted_CO2_Emission": 0.73}`)
				return
			}
			if body["country"] == "Ethiopia" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"error": "No data for Ethiopia"}`)
				return
			}
			_, _ = io.WriteString(w, `{
				"predicted_emission": 0.51, "last_year_emission": 0.42, "change_percent": 21.4, "trend": "increase",
				"historical": [{"Year": 2019, "CO2": 0.41}, {"Year": 2020, "CO2": 0.42}]
			}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	base := []string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--api", srv.URL, "--log-level", "error"}
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPredictText(t *testing.T) {
	out, err := run(t, fakeService(t), "predict", "--country", "Kenya")
	if err != nil {
		t.Fatalf("predict: %v\n%s", err, out)
	}
	for _, want := range []string{"Kenya", "0.510", "2030", "increase"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPredictBothFormats(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, fakeService(t), "predict", "-c", "South Africa", "-f", "both", "-o", dir); err != nil {
		t.Fatalf("predict: %v", err)
	}
	for _, name := range []string{"south_africa_trend.png", "south_africa_comparison.png", "south_africa.html"} {
		fi, err := os.Stat(filepath.Join(dir, name))
		if err != nil || fi.Size() == 0 {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	html, _ := os.ReadFile(filepath.Join(dir, "south_africa.html"))
	if !bytes.Contains(html, []byte("predicted-row")) {
		t.Fatalf("html page missing table")
	}
}

func TestPredictUnknownFormat(t *testing.T) {
	if _, err := run(t, fakeService(t), "predict", "-f", "svg"); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestPredictUnsupportedCountry(t *testing.T) {
	if _, err := run(t, fakeService(t), "predict", "-c", "Atlantis"); err == nil {
		t.Fatalf("expected unsupported-country error")
	}
}

func TestBatchReportsFailures(t *testing.T) {
	out, err := run(t, fakeService(t), "batch", "--countries", "Kenya,Ethiopia,Ghana", "--concurrency", "2")
	if err == nil {
		t.Fatalf("expected batch error for Ethiopia")
	}
	if !strings.Contains(out, "No data for Ethiopia") || !strings.Contains(out, "2/3 countries rendered") {
		t.Fatalf("batch output:\n%s", out)
	}
	// output order follows the requested order
	if strings.Index(out, "Kenya") > strings.Index(out, "Ghana") {
		t.Fatalf("batch output out of order:\n%s", out)
	}
}

func TestManual(t *testing.T) {
	out, err := run(t, fakeService(t), "manual", "--year", "2025", "--temp", "25", "--energy", "500", "--gdp", "2000", "--pop", "55")
	if err != nil {
		t.Fatalf("manual: %v", err)
	}
	if !strings.Contains(out, "Predicted CO₂: 0.730 metric tons") {
		t.Fatalf("manual output: %q", out)
	}
	if _, err := run(t, fakeService(t), "manual", "--year", "2025"); err == nil {
		t.Fatalf("expected missing-flag error")
	}
}

func TestCountriesAndCompare(t *testing.T) {
	srv := fakeService(t)
	out, err := run(t, srv, "countries")
	if err != nil || out != "Kenya\nGhana\n" {
		t.Fatalf("countries: %v %q", err, out)
	}
	out, err = run(t, srv, "compare")
	if err != nil || !strings.Contains(out, "Nigeria") {
		t.Fatalf("compare: %v %q", err, out)
	}
}
