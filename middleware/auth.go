package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/policy"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/gin-gonic/gin"
)

// Context keys set by Authenticate.
const (
	UserIDKey      = "user_id"
	RoleKey        = "role"
	TokenIDKey     = "token_id"
	TokenExpiryKey = "token_expiry"
)

// TokenVerifier checks a bearer token. *util.TokenService implements it.
type TokenVerifier interface {
	Verify(token string) (*util.Claims, error)
}

var errMissingBearer = errors.New("missing bearer token")

func bearerToken(c *gin.Context) (string, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errMissingBearer
	}
	return strings.TrimSpace(token), nil
}

func rejectUnauthorized(c *gin.Context, reason string, err error) {
	util.LogUnauthorizedAccess(util.UnauthorizedAccessParams{
		IP:       c.ClientIP(),
		Resource: c.Request.URL.Path,
		Reason:   reason,
	})
	util.CallUserNotAuthorized(c, util.APIErrorParams{
		Msg: "Unauthorized",
		Err: err,
	})
	c.Abort()
}

// Authenticate verifies the bearer token and stores the caller's identity in
// the context. Revoked tokens are rejected.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			rejectUnauthorized(c, "missing token", err)
			return
		}
		claims, err := verifier.Verify(token)
		if err != nil {
			rejectUnauthorized(c, "invalid token", err)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			rejectUnauthorized(c, "invalid subject", err)
			return
		}

		revoked, err := util.IsTokenRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Internal server error",
				Err: fmt.Errorf("check revocation: %w", err),
			})
			c.Abort()
			return
		}
		if revoked {
			rejectUnauthorized(c, "revoked token", errors.New("token revoked"))
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(RoleKey, model.Role(claims.Role))
		c.Set(TokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(TokenExpiryKey, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// GetActor returns the caller set by Authenticate.
func GetActor(c *gin.Context) (policy.Actor, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return policy.Actor{}, false
	}
	role, _ := GetRole(c)
	return policy.Actor{ID: id, Role: role}, true
}

func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

func GetRole(c *gin.Context) (model.Role, bool) {
	v, ok := c.Get(RoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(model.Role)
	return role, ok
}

// GetToken returns the jti and expiry of the presented token.
func GetToken(c *gin.Context) (string, time.Time) {
	jti := c.GetString(TokenIDKey)
	exp, _ := c.Get(TokenExpiryKey)
	t, _ := exp.(time.Time)
	return jti, t
}

// RequireRole lets only callers holding one of roles through. Others get 403.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if ok {
			for _, r := range roles {
				if actor.Role == r {
					c.Next()
					return
				}
			}
		}
		util.LogAccessDenied(util.UnauthorizedAccessParams{
			UserID:   strconv.FormatUint(uint64(actor.ID), 10),
			Role:     string(actor.Role),
			IP:       c.ClientIP(),
			Resource: c.Request.URL.Path,
			Reason:   "role not permitted",
		})
		util.CallForbidden(c, util.APIErrorParams{
			Msg: "Forbidden",
			Err: fmt.Errorf("role %q not in %v", actor.Role, roles),
		})
		c.Abort()
	}
}
