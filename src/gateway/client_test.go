package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/goleak"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var reference = []string{"Kenya", "Nigeria", "South Africa", "Egypt", "Ethiopia", "Ghana"}

func newServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, New(srv.URL+"/", reference, 0, WithHTTPClient(srv.Client()))
}

func TestPredictCountry_GzipAndHeaders(t *testing.T) {
	var gotBody map[string]any
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content-type = %q", r.Header.Get("Content-Type"))
		}
		if _, err := uuid.Parse(r.Header.Get("X-Request-ID")); err != nil {
			t.Errorf("X-Request-ID not a uuid: %v", err)
		}
		if r.Header.Get("Accept-Encoding") != "gzip" {
			t.Errorf("accept-encoding = %q", r.Header.Get("Accept-Encoding"))
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "gzip")
		zw := gzip.NewWriter(w)
		_, _ = io.WriteString(zw, `{"predicted_emission": 0.51, "historical": [{"Year": 2020, "CO2": 0.42}]}`)
		_ = zw.Close()
	})

	body, err := c.PredictCountry(context.Background(), "Kenya")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"country": "Kenya"}, gotBody); diff != "" {
		t.Fatalf("request body (-want +got):\n%s", diff)
	}
	if body["predicted_emission"] != json.Number("0.51") {
		t.Fatalf("expected json.Number, got %T %v", body["predicted_emission"], body["predicted_emission"])
	}
	if hist, ok := body["historical"].([]any); !ok || len(hist) != 1 {
		t.Fatalf("historical = %#v", body["historical"])
	}
}

func TestPredictCountry_UnsupportedNoIO(t *testing.T) {
	var hits atomic.Int32
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})
	_, err := c.PredictCountry(context.Background(), "Atlantis")
	if !errors.Is(err, ErrUnsupportedCountry) {
		t.Fatalf("expected ErrUnsupportedCountry, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("request sent for unsupported country")
	}
}

func TestPredict_ErrorFieldOnBadStatus(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": "Missing feature: GDP"}`)
	})
	body, err := c.PredictFeatures(context.Background(), types.FeatureRequest{Year: 2025})
	if err != nil {
		t.Fatalf("expected body to be returned, got %v", err)
	}
	if body["error"] != "Missing feature: GDP" {
		t.Fatalf("error field = %v", body["error"])
	}
}

func TestPredict_TransportFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"500 without error field": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"detail": "boom"}`)
		},
		"500 with empty error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error": ""}`)
		},
		"502 with false error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `{"error": false, "historical": []}`)
		},
		"503 with null error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error": null}`)
		},
		"html body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>not json</html>`)
		},
		"bad gzip": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = io.WriteString(w, `plain`)
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			_, c := newServer(t, h)
			_, err := c.PredictCountry(context.Background(), "Ghana")
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("expected TransportError, got %v", err)
			}
			if te.Error() != ConnectMessage {
				t.Fatalf("message = %q", te.Error())
			}
			if te.Detail() == "" {
				t.Fatalf("empty detail")
			}
		})
	}
}

func TestPredict_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	hc := srv.Client()
	srv.Close()
	c := New(url, nil, 0, WithHTTPClient(hc))
	_, err := c.PredictCountry(context.Background(), "Kenya")
	var te *TransportError
	if !errors.As(err, &te) || te.Err == nil {
		t.Fatalf("expected TransportError wrapping the dial error, got %v", err)
	}
}

func TestPredict_ContextCancelled(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.PredictCountry(ctx, "Kenya")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
}

func TestPredictFeatures_WireNames(t *testing.T) {
	var got map[string]any
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		_ = dec.Decode(&got)
		_, _ = io.WriteString(w, `{"Predicted_CO2_Emission": 1.2}`)
	})
	req := types.FeatureRequest{Year: 2025, AvgTemperature: 25.1, EnergyUse: 500, GDP: 2000, Population: 55, CountryCode: 3}
	if _, err := c.PredictFeatures(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"Year": 2025.0, "Avg_Temperature": 25.1, "Energy_Use": 500.0, "GDP": 2000.0, "Population": 55.0, "Country_Code": 3.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("wire body (-want +got):\n%s", diff)
	}
}

func TestCountries(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/countries" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"countries": ["Kenya", "", 7, "Ghana"]}`)
	})
	got, err := c.Countries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Kenya", "Ghana"}, got); diff != "" {
		t.Fatalf("countries (-want +got):\n%s", diff)
	}
}

func TestBaseURL_TrimsSlash(t *testing.T) {
	c := New("http://localhost:5000/", nil, 0)
	if got := c.BaseURL(); got != "http://localhost:5000" {
		t.Fatalf("base = %q", got)
	}
}
