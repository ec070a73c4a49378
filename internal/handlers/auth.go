package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/SAP-F-2025/elogbook-service/internal/config"
	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
	"github.com/SAP-F-2025/elogbook-service/internal/utils"
)

const (
	ContextActorKey  = "actor"
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"

	// Legacy header sent by the admin console
	authTokenHeader = "auth-token"
)

var errInvalidToken = errors.New("invalid token")

// TokenIdentity is what a verified token says about its bearer.
// Exactly one of UserID and Username is set.
type TokenIdentity struct {
	UserID   uint
	Username string
}

// TokenVerifier validates a raw token
type TokenVerifier interface {
	Verify(token string) (*TokenIdentity, error)
}

// casdoorVerifier validates tokens issued by Casdoor
type casdoorVerifier struct {
	client *casdoorsdk.Client
}

func NewCasdoorVerifier(cfg config.CasdoorConfig) TokenVerifier {
	return &casdoorVerifier{
		client: casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Cert,
			cfg.Organization,
			cfg.Application,
		),
	}
}

func (v *casdoorVerifier) Verify(token string) (*TokenIdentity, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if claims.Name == "" {
		return nil, fmt.Errorf("%w: missing user name", errInvalidToken)
	}
	return &TokenIdentity{Username: claims.Name}, nil
}

// LocalClaims are the claims of tokens signed with JWT_SECRET
type LocalClaims struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type jwtVerifier struct {
	secret []byte
	issuer string
}

func NewJWTVerifier(cfg config.JWTConfig) TokenVerifier {
	return &jwtVerifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

func (v *jwtVerifier) Verify(token string) (*TokenIdentity, error) {
	claims := &LocalClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(v.issuer))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: missing userId", errInvalidToken)
	}
	return &TokenIdentity{UserID: claims.UserID}, nil
}

// IssueLocalToken signs an HS256 token for user
func IssueLocalToken(cfg config.JWTConfig, user *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := LocalClaims{
		UserID: user.ID,
		Role:   string(user.Roles),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

// AuthMiddleware authenticates requests and resolves the caller to a local user
type AuthMiddleware struct {
	verifiers []TokenVerifier
	users     repositories.UserRepository
	logger    utils.Logger
}

// NewAuthMiddleware enables Casdoor and/or local JWT verification from config
func NewAuthMiddleware(cfg *config.Config, users repositories.UserRepository, logger utils.Logger) *AuthMiddleware {
	var verifiers []TokenVerifier
	if cfg.Casdoor.Enabled() {
		verifiers = append(verifiers, NewCasdoorVerifier(cfg.Casdoor))
	}
	if cfg.JWT.Secret != "" {
		verifiers = append(verifiers, NewJWTVerifier(cfg.JWT))
	}
	return NewAuthMiddlewareWithVerifiers(users, logger, verifiers...)
}

func NewAuthMiddlewareWithVerifiers(users repositories.UserRepository, logger utils.Logger, verifiers ...TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifiers: verifiers, users: users, logger: logger}
}

// Authenticate requires a valid token and stores the caller in the context
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authorization token missing",
			})
			return
		}

		user, err := am.resolve(c.Request.Context(), token)
		if err != nil {
			utils.GetLogger(c, am.logger).Warn("Authentication failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserKey, user)
		c.Set(ContextActorKey, models.ActorFromUser(user))
		c.Next()
	}
}

func (am *AuthMiddleware) resolve(ctx context.Context, token string) (*models.User, error) {
	var lastErr error = errInvalidToken
	for _, verifier := range am.verifiers {
		identity, err := verifier.Verify(token)
		if err != nil {
			lastErr = err
			continue
		}
		if identity.UserID != 0 {
			return am.users.GetByID(ctx, identity.UserID)
		}
		return am.users.GetByUsername(ctx, identity.Username)
	}
	return nil, lastErr
}

// RequireRoleMiddleware lets through callers holding one of roles. Master passes every check.
func (am *AuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(ContextActorKey)
		actor, isActor := v.(models.Actor)
		if !ok || !isActor {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "user role not found in context",
			})
			return
		}

		if actor.HasRole(models.RoleMaster) || slices.ContainsFunc(roles, actor.HasRole) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: fmt.Sprintf("insufficient permissions, required role: %v", roles),
		})
	}
}

// extractToken reads "Authorization: Bearer <t>", falling back to the auth-token
// header when Authorization is absent or not a bearer token
func extractToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && strings.TrimSpace(parts[1]) != "" {
			return strings.TrimSpace(parts[1]), true
		}
	}
	if token := strings.TrimSpace(c.GetHeader(authTokenHeader)); token != "" {
		return token, true
	}
	return "", false
}
