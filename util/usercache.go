package util

import (
	"strconv"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// Email lookups for audit events. Entries expire so a changed or deleted
// account does not linger.
var (
	userEmailCache *cache.Cache
	userCacheMu    sync.RWMutex
)

// InitUserEmailCache (re)creates the cache with ttl. ttl <= 0 uses ten minutes.
func InitUserEmailCache(ttl time.Duration) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	userCacheMu.Lock()
	defer userCacheMu.Unlock()
	userEmailCache = cache.New(ttl, 2*ttl)
}

func userCacheKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// UserEmailCacheGet returns email and true if present in cache.
func UserEmailCacheGet(userID uint) (string, bool) {
	userCacheMu.RLock()
	c := userEmailCache
	userCacheMu.RUnlock()
	if c == nil {
		return "", false
	}
	v, ok := c.Get(userCacheKey(userID))
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

// UserEmailCacheSet stores the email of userID.
func UserEmailCacheSet(userID uint, email string) {
	userCacheMu.RLock()
	c := userEmailCache
	userCacheMu.RUnlock()
	if c == nil {
		return
	}
	c.SetDefault(userCacheKey(userID), email)
}

// UserEmailCacheDelete drops userID, used after the account changes.
func UserEmailCacheDelete(userID uint) {
	userCacheMu.RLock()
	c := userEmailCache
	userCacheMu.RUnlock()
	if c != nil {
		c.Delete(userCacheKey(userID))
	}
}

// GetUserEmail returns the email of the active user userID using the cache,
// falling back to db. Unknown users yield "".
func GetUserEmail(db *gorm.DB, userID uint) string {
	if userID == 0 {
		return ""
	}
	if email, ok := UserEmailCacheGet(userID); ok {
		return email
	}
	if db == nil {
		return ""
	}
	var u struct{ Email string }
	err := db.Table("users").Select("email").Where("id = ? AND status = ?", userID, 1).Take(&u).Error
	if err != nil {
		return ""
	}
	if u.Email != "" {
		UserEmailCacheSet(userID, u.Email)
	}
	return u.Email
}
