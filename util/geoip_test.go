package util

import (
	"testing"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
)

func TestInitGeoIP_EmptyPath(t *testing.T) {
	assert.NoError(t, InitGeoIP(""))
}

func TestInitGeoIP_NonExistentFile(t *testing.T) {
	assert.Error(t, InitGeoIP("/nonexistent/path/to/geoip.mmdb"))
}

func TestLookupIPLocation_SkipsLocalAddresses(t *testing.T) {
	for _, ip := range []string{"", "not-an-ip", "127.0.0.1", "::1", "10.1.2.3", "192.168.0.4", "172.16.5.5"} {
		city, country := LookupIPLocation(ip)
		assert.Empty(t, city, ip)
		assert.Empty(t, country, ip)
	}
}

func TestLookupIPLocation_UsesCache(t *testing.T) {
	geoipMu.Lock()
	geoipCache = cache.New(time.Minute, time.Minute)
	geoipMu.Unlock()
	t.Cleanup(CloseGeoIP)

	geoipCache.Set("203.0.113.9", [2]string{"Bandung", "Indonesia"}, cache.DefaultExpiration)
	city, country := LookupIPLocation("203.0.113.9")
	assert.Equal(t, "Bandung", city)
	assert.Equal(t, "Indonesia", country)

	// Without a database an uncached public address resolves to nothing.
	city, country = LookupIPLocation("198.51.100.1")
	assert.Empty(t, city)
	assert.Empty(t, country)
}
