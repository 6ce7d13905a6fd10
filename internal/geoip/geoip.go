// Package geoip resolves client IPs to countries for the request log.
package geoip

import (
	"log/slog"
	"net"

	"github.com/oschwald/maxminddb-golang"
)

// Resolver is safe to use with no database loaded; every lookup then
// returns "".
type Resolver struct {
	db *maxminddb.Reader
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// New opens the MaxMind database at dbPath. An empty path or an unreadable
// file disables lookups instead of failing startup.
func New(dbPath string) *Resolver {
	if dbPath == "" {
		return &Resolver{}
	}
	db, err := maxminddb.Open(dbPath)
	if err != nil {
		slog.Warn("geoip: failed to open database, country lookup disabled", "path", dbPath, "error", err)
		return &Resolver{}
	}
	slog.Info("geoip: loaded database", "path", dbPath, "type", db.Metadata.DatabaseType)
	return &Resolver{db: db}
}

func (r *Resolver) Enabled() bool {
	return r.db != nil
}

func (r *Resolver) Country(ipStr string) string {
	if r.db == nil || ipStr == "" {
		return ""
	}
	ip := net.ParseIP(ipStr)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() {
		return ""
	}
	var record countryRecord
	if err := r.db.Lookup(ip, &record); err != nil {
		slog.Debug("geoip: lookup failed", "ip", ipStr, "error", err)
		return ""
	}
	return record.Country.ISOCode
}

func (r *Resolver) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
