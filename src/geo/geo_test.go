package geo

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/config"
)

func TestLookupCountry_NoDatabase(t *testing.T) {
	if _, ok := LookupCountry(nil, nil); ok {
		t.Fatalf("nil ip must not resolve")
	}
	missing := filepath.Join(t.TempDir(), "GeoLite2-Country.mmdb")
	if _, ok := LookupCountry(net.ParseIP("41.90.0.1"), []string{missing}); ok {
		t.Fatalf("missing database must not resolve")
	}
}

func TestPublicIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, " 41.90.0.1\n")
	}))
	defer srv.Close()
	ip, err := PublicIP(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if !ip.Equal(net.ParseIP("41.90.0.1")) {
		t.Fatalf("ip = %v", ip)
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not an ip")
	}))
	defer bad.Close()
	if _, err := PublicIP(context.Background(), bad.Client(), bad.URL); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDefaultCountry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "41.90.0.1")
	}))
	defer srv.Close()

	orig := lookup
	t.Cleanup(func() { lookup = orig })

	cfg := config.DefaultConfig()
	cfg.GeoIP.EchoURL = srv.URL
	if _, ok := DefaultCountry(context.Background(), cfg, srv.Client()); ok {
		t.Fatalf("disabled lookup must not resolve")
	}

	cfg.GeoIP.Enabled = true
	lookup = func(net.IP, []string) (string, bool) { return "KE", true }
	if name, ok := DefaultCountry(context.Background(), cfg, srv.Client()); !ok || name != "Kenya" {
		t.Fatalf("got %q %v", name, ok)
	}

	lookup = func(net.IP, []string) (string, bool) { return "FR", true }
	if _, ok := DefaultCountry(context.Background(), cfg, srv.Client()); ok {
		t.Fatalf("non-reference country must not resolve")
	}
}
