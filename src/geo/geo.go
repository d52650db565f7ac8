// Package geo picks a default reference country from the caller's public IP
// using a local GeoLite2 country database.
package geo

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/oschwald/geoip2-golang"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/config"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/logging"
)

// LookupCountry opens the first readable GeoLite2 country database in paths
// and returns the ISO code for ip. ok is false when no database can be opened
// or the address is unknown.
func LookupCountry(ip net.IP, paths []string) (string, bool) {
	if ip == nil {
		return "", false
	}
	for _, p := range paths {
		db, err := geoip2.Open(p)
		if err != nil {
			continue
		}
		rec, err := db.Country(ip)
		db.Close()
		if err == nil && rec != nil && rec.Country.IsoCode != "" {
			return rec.Country.IsoCode, true
		}
	}
	return "", false
}

// PublicIP asks a plain-text echo service for the caller's address.
func PublicIP(ctx context.Context, hc *http.Client, url string) (net.IP, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("public ip request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("public ip: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("public ip: status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return nil, fmt.Errorf("public ip: %w", err)
	}
	ip := net.ParseIP(strings.TrimSpace(string(b)))
	if ip == nil {
		return nil, fmt.Errorf("public ip: unparseable reply %q", strings.TrimSpace(string(b)))
	}
	return ip, nil
}

var lookup = LookupCountry

// DefaultCountry returns the reference country matching the caller's location.
// It reports false when the feature is disabled or nothing matches; failures
// are logged and never fatal.
func DefaultCountry(ctx context.Context, cfg *config.Config, hc *http.Client) (string, bool) {
	if cfg == nil || !cfg.GeoIP.Enabled {
		return "", false
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	ip, err := PublicIP(ctx, hc, cfg.GeoIP.EchoURL)
	if err != nil {
		logging.Warnf("[geo] %v", err)
		return "", false
	}
	iso, ok := lookup(ip, cfg.GeoIP.Paths)
	if !ok {
		logging.Debugf("[geo] no country for %s", ip)
		return "", false
	}
	name, ok := cfg.CountryForISO(iso)
	if !ok {
		logging.Infof("[geo] %s (%s) is not a reference country", iso, ip)
		return "", false
	}
	return name, true
}
