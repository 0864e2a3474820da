// Package geoip resolves visitor IPs to a country code using a local
// GeoLite2 database. Lookups degrade to "" when the database is absent,
// so geolocation stays strictly optional.
package geoip

import (
	"compress/gzip"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"

	"github.com/pagepulse/pagepulse/internal/logging"
)

// Resolver wraps an optional GeoLite2 reader.
type Resolver struct {
	reader *geoip2.Reader
}

// Open loads the GeoLite2-City database from dataDir, downloading it on
// first use. A missing or unreadable database is not an error; the
// resolver simply returns empty countries.
func Open(dataDir string) (*Resolver, error) {
	dbPath := filepath.Join(dataDir, "GeoLite2-City.mmdb")

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		logging.L().Info("geoip database not found, attempting download", zap.String("path", dbPath))
		if err := downloadDatabase(dbPath); err != nil {
			logging.L().Warn("geoip database download failed, lookups disabled", zap.Error(err))
			return &Resolver{}, nil
		}
	}

	reader, err := geoip2.Open(dbPath)
	if err != nil {
		logging.L().Warn("could not load geoip database, lookups disabled", zap.Error(err))
		return &Resolver{}, nil
	}

	logging.L().Info("geoip database loaded", zap.String("path", dbPath))
	return &Resolver{reader: reader}, nil
}

// Country returns the ISO country code for an IP, or "" when unknown.
func (r *Resolver) Country(ipStr string) string {
	if r == nil || r.reader == nil {
		return ""
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}

	record, err := r.reader.City(ip)
	if err != nil {
		return ""
	}

	return record.Country.IsoCode
}

// Close closes the underlying database.
func (r *Resolver) Close() error {
	if r != nil && r.reader != nil {
		return r.reader.Close()
	}
	return nil
}

// downloadDatabase fetches the GeoLite2-City database from the jsDelivr
// mirror of the geolite2-city npm package.
func downloadDatabase(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}

	url := "https://cdn.jsdelivr.net/npm/geolite2-city/GeoLite2-City.mmdb.gz"

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	gzReader, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() { _ = gzReader.Close() }()

	out, err := os.Create(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, gzReader); err != nil {
		return fmt.Errorf("failed to write database: %w", err)
	}

	return nil
}
