package util

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/ariebrainware/therapist-booking/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityEventType represents different types of security events
type SecurityEventType string

const (
	EventLoginSuccess       SecurityEventType = "LOGIN_SUCCESS"
	EventLoginFailure       SecurityEventType = "LOGIN_FAILURE"
	EventSignupSuccess      SecurityEventType = "SIGNUP_SUCCESS"
	EventLogout             SecurityEventType = "LOGOUT"
	EventPasswordChanged    SecurityEventType = "PASSWORD_CHANGED"
	EventUnauthorizedAccess SecurityEventType = "UNAUTHORIZED_ACCESS"
	EventAccessDenied       SecurityEventType = "ACCESS_DENIED"
	EventRateLimitExceeded  SecurityEventType = "RATE_LIMIT_EXCEEDED"
	EventEndpointCall       SecurityEventType = "ENDPOINT_CALL"
)

// SecurityEvent represents a security event to be logged
type SecurityEvent struct {
	EventType SecurityEventType
	UserID    string
	Role      string
	Email     string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var (
	securityLogger = log.New(os.Stdout, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix)
	securityDB     *gorm.DB
	securityMu     sync.RWMutex
)

// SetSecurityLoggerDB sets the gorm DB used to persist security events.
// Call it during startup after the database is migrated; nil disables persistence.
func SetSecurityLoggerDB(db *gorm.DB) {
	securityMu.Lock()
	defer securityMu.Unlock()
	securityDB = db
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogSecurityEvent writes event to the security log and, when a DB is set,
// persists it to security_logs. Persistence is best-effort.
func LogSecurityEvent(event SecurityEvent) {
	city, country := LookupIPLocation(event.IP)
	msg := fmt.Sprintf("Event=%s UserID=%s Role=%s Email=%s IP=%s UserAgent=%s Message=%s",
		sanitizeLogValue(string(event.EventType)),
		sanitizeLogValue(event.UserID),
		sanitizeLogValue(event.Role),
		sanitizeLogValue(event.Email),
		sanitizeLogValue(event.IP),
		sanitizeLogValue(event.UserAgent),
		sanitizeLogValue(event.Message),
	)
	if country != "" {
		msg = fmt.Sprintf("%s Location=%s", msg, sanitizeLogValue(joinLocation(city, country)))
	}

	// Details are persisted but never printed.
	if len(event.Details) > 0 {
		msg = fmt.Sprintf("%s DetailsCount=%d", msg, len(event.Details))
	}

	securityMu.RLock()
	logger, db := securityLogger, securityDB
	securityMu.RUnlock()

	logger.Println(msg)

	if db == nil {
		return
	}
	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}
	entry := model.SecurityLog{
		EventType: string(event.EventType),
		UserID:    sanitizeLogValue(event.UserID),
		Role:      sanitizeLogValue(event.Role),
		Email:     sanitizeLogValue(event.Email),
		IP:        sanitizeLogValue(event.IP),
		UserAgent: sanitizeLogValue(event.UserAgent),
		Message:   sanitizeLogValue(event.Message),
		City:      city,
		Country:   country,
		Details:   details,
	}
	if err := db.Create(&entry).Error; err != nil {
		logger.Printf("Failed to persist security event: %v", err)
	}
}

func joinLocation(city, country string) string {
	if city == "" {
		return country
	}
	return city + ", " + country
}

// LoginParams describes an authentication attempt.
type LoginParams struct {
	UserID    uint
	Role      string
	Email     string
	IP        string
	UserAgent string
	Reason    string
}

func idString(id uint) string {
	if id == 0 {
		return ""
	}
	return fmt.Sprintf("%d", id)
}

func LogLoginSuccess(p LoginParams) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginSuccess,
		UserID:    idString(p.UserID),
		Role:      p.Role,
		Email:     p.Email,
		IP:        p.IP,
		UserAgent: p.UserAgent,
		Message:   "User logged in successfully",
	})
}

func LogLoginFailure(p LoginParams) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Email:     p.Email,
		IP:        p.IP,
		UserAgent: p.UserAgent,
		Message:   fmt.Sprintf("Login failed: %s", p.Reason),
	})
}

func LogSignupSuccess(p LoginParams) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventSignupSuccess,
		UserID:    idString(p.UserID),
		Role:      p.Role,
		Email:     p.Email,
		IP:        p.IP,
		UserAgent: p.UserAgent,
		Message:   "Account registered",
	})
}

func LogLogout(p LoginParams) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLogout,
		UserID:    idString(p.UserID),
		Role:      p.Role,
		Email:     p.Email,
		IP:        p.IP,
		UserAgent: p.UserAgent,
		Message:   "User logged out",
	})
}

func LogPasswordChanged(p LoginParams) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventPasswordChanged,
		UserID:    idString(p.UserID),
		Role:      p.Role,
		Email:     p.Email,
		IP:        p.IP,
		Message:   "Password changed",
	})
}

// UnauthorizedAccessParams describes a rejected request.
type UnauthorizedAccessParams struct {
	UserID   string
	Role     string
	Email    string
	IP       string
	Resource string
	Reason   string
}

// LogUnauthorizedAccess logs a request without a valid identity.
func LogUnauthorizedAccess(p UnauthorizedAccessParams) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventUnauthorizedAccess,
		UserID:    p.UserID,
		Role:      p.Role,
		Email:     p.Email,
		IP:        p.IP,
		Message:   fmt.Sprintf("Unauthorized access to %s: %s", p.Resource, p.Reason),
	})
}

// LogAccessDenied logs an authenticated caller refused by a role gate or policy.
func LogAccessDenied(p UnauthorizedAccessParams) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventAccessDenied,
		UserID:    p.UserID,
		Role:      p.Role,
		IP:        p.IP,
		Message:   fmt.Sprintf("Access denied to %s: %s", p.Resource, p.Reason),
	})
}

// RateLimitParams describes a throttled request.
type RateLimitParams struct {
	Email    string
	IP       string
	Endpoint string
}

func LogRateLimitExceeded(p RateLimitParams) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventRateLimitExceeded,
		Email:     p.Email,
		IP:        p.IP,
		Message:   fmt.Sprintf("Rate limit exceeded for endpoint: %s", p.Endpoint),
	})
}

// GetSecurityLoggerForTest returns the current security logger for testing purposes
func GetSecurityLoggerForTest() *log.Logger {
	securityMu.RLock()
	defer securityMu.RUnlock()
	return securityLogger
}

// SetSecurityLoggerForTest sets a custom logger for testing purposes
func SetSecurityLoggerForTest(logger *log.Logger) {
	securityMu.Lock()
	defer securityMu.Unlock()
	securityLogger = logger
}
