package util

import (
	"net"
	"sync"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

var (
	geoipMu    sync.RWMutex
	geoipDB    *geoip2.Reader
	geoipCache *cache.Cache
)

// InitGeoIP opens the GeoLite2/GeoIP2 city database at path so security
// events carry the caller's location. An empty path leaves lookups disabled.
func InitGeoIP(path string) error {
	if path == "" {
		return nil
	}
	r, err := geoip2.Open(path)
	if err != nil {
		return err
	}
	geoipMu.Lock()
	defer geoipMu.Unlock()
	if geoipDB != nil {
		_ = geoipDB.Close()
	}
	geoipDB = r
	geoipCache = cache.New(24*time.Hour, time.Hour)
	return nil
}

// CloseGeoIP releases the database opened by InitGeoIP.
func CloseGeoIP() {
	geoipMu.Lock()
	defer geoipMu.Unlock()
	if geoipDB != nil {
		_ = geoipDB.Close()
		geoipDB = nil
	}
	geoipCache = nil
}

// LookupIPLocation returns the English city and country names of ip. Private,
// loopback and unparsable addresses, or a missing database, yield empty strings.
func LookupIPLocation(ip string) (city, country string) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return "", ""
	}

	geoipMu.RLock()
	db, c := geoipDB, geoipCache
	geoipMu.RUnlock()

	if c != nil {
		if v, ok := c.Get(ip); ok {
			if loc, ok := v.([2]string); ok {
				return loc[0], loc[1]
			}
		}
	}
	if db == nil {
		return "", ""
	}

	rec, err := db.City(parsed)
	if err != nil {
		return "", ""
	}
	city = rec.City.Names["en"]
	country = rec.Country.Names["en"]
	if country == "" {
		country = rec.Country.IsoCode
	}
	if c != nil {
		c.Set(ip, [2]string{city, country}, cache.DefaultExpiration)
	}
	return city, country
}
