package auth

import (
	"context"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"recipehub/media-api/internal/config"
	"recipehub/media-api/internal/domain/media"
	"recipehub/media-api/internal/utils/platformerrors"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	actorContextKey = "media_actor"
)

// Validator resolves the calling actor, either from a JWKS-verified bearer
// token or from headers set by the upstream gateway.
type Validator struct {
	cfg     *config.Config
	log     zerolog.Logger
	jwks    *keyfunc.JWKS
	keyFunc jwt.Keyfunc
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	log = log.With().Str("component", "auth").Logger()
	if !cfg.AuthEnabled {
		log.Info().Msg("auth disabled; trusting gateway identity headers")
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{cfg: cfg, log: log, jwks: jwks, keyFunc: jwks.Keyfunc}, nil
}

// Middleware resolves the actor and stores it on the gin context.
// Requests without an identity are rejected with 401.
func (v *Validator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			actor media.Actor
			msg   string
		)
		if v != nil && v.cfg.AuthEnabled {
			actor, msg = v.actorFromToken(c.GetHeader("Authorization"))
		} else {
			actor, msg = actorFromHeaders(c)
		}
		if msg != "" {
			platformerrors.WriteUnauthorized(c, msg)
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// Ready indicates if the validator is prepared.
func (v *Validator) Ready() bool {
	if v == nil || !v.cfg.AuthEnabled {
		return true
	}
	return v.keyFunc != nil
}

// Close stops the background JWKS refresh.
func (v *Validator) Close() {
	if v != nil && v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// ActorFromContext returns the actor stored by Middleware.
func ActorFromContext(c *gin.Context) (media.Actor, bool) {
	value, ok := c.Get(actorContextKey)
	if !ok {
		return media.Actor{}, false
	}
	actor, ok := value.(media.Actor)
	return actor, ok
}

func (v *Validator) actorFromToken(header string) (media.Actor, string) {
	tokenString := bearerToken(header)
	if tokenString == "" {
		return media.Actor{}, "missing bearer token"
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"})}
	if issuer := strings.TrimSpace(v.cfg.AuthIssuer); issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience := strings.TrimSpace(v.cfg.Account); audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	token, err := jwt.Parse(tokenString, v.keyFunc, opts...)
	if err != nil || !token.Valid {
		v.log.Debug().Err(err).Msg("rejected bearer token")
		return media.Actor{}, "invalid token"
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return media.Actor{}, "invalid token claims"
	}

	subject, _ := claims.GetSubject()
	if strings.TrimSpace(subject) == "" {
		return media.Actor{}, "token has no subject"
	}
	return media.Actor{UserID: subject, Role: roleFromClaims(claims)}, ""
}

func actorFromHeaders(c *gin.Context) (media.Actor, string) {
	userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
	if userID == "" {
		return media.Actor{}, "missing " + HeaderUserID + " header"
	}
	role := media.RoleUser
	if strings.EqualFold(strings.TrimSpace(c.GetHeader(HeaderUserRole)), media.RoleAdmin) {
		role = media.RoleAdmin
	}
	return media.Actor{UserID: userID, Role: role}, ""
}

// roleFromClaims reads a "role" claim or Keycloak-style realm_access.roles.
func roleFromClaims(claims jwt.MapClaims) string {
	if role, ok := claims["role"].(string); ok && strings.EqualFold(role, media.RoleAdmin) {
		return media.RoleAdmin
	}
	if realm, ok := claims["realm_access"].(map[string]any); ok {
		if roles, ok := realm["roles"].([]any); ok {
			for _, r := range roles {
				if s, ok := r.(string); ok && strings.EqualFold(s, media.RoleAdmin) {
					return media.RoleAdmin
				}
			}
		}
	}
	return media.RoleUser
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
