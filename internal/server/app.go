package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"simplynourished/internal/config"
	"simplynourished/internal/session"
)

const sessionContextKey = "session"

type App struct {
	cfg      config.Config
	sessions *session.Store
}

func New(cfg config.Config, sessions *session.Store) *App {
	return &App{cfg: cfg, sessions: sessions}
}

func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", a.health)

	api := router.Group(a.cfg.APIPrefix)
	api.POST("/sessions", a.createSession)

	authed := api.Group("")
	authed.Use(a.sessionMiddleware())
	authed.GET("/session", a.getSession)
	authed.GET("/session/events", a.sessionEvents)
	authed.POST("/plan", a.submitPlan)
	authed.POST("/recipes", a.fetchRecipes)
	authed.DELETE("/recipes", a.cancelRecipes)

	return router
}

func (a *App) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "simplynourished-api",
	})
}

// sessionMiddleware resolves the bearer token to a live session. The token
// subject is the session id.
func (a *App) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			writeError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}
		tokenString := strings.TrimSpace(authHeader[len("Bearer "):])
		if tokenString == "" {
			writeError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if token.Method == nil || token.Method.Alg() != a.cfg.JWTAlgorithm {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(a.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			writeError(c, http.StatusUnauthorized, "Invalid bearer token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeError(c, http.StatusUnauthorized, "Invalid token payload")
			return
		}
		if a.cfg.JWTIssuer != "" {
			issuer, _ := claims["iss"].(string)
			if issuer != a.cfg.JWTIssuer {
				writeError(c, http.StatusUnauthorized, "Invalid token issuer")
				return
			}
		}
		sub, _ := claims["sub"].(string)
		sub = strings.TrimSpace(sub)
		if sub == "" {
			writeError(c, http.StatusUnauthorized, "Token subject missing")
			return
		}

		sess, ok := a.sessions.Get(sub)
		if !ok {
			writeError(c, http.StatusUnauthorized, "Session not found")
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func sessionFromContext(c *gin.Context) (*session.Session, bool) {
	raw, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	sess, ok := raw.(*session.Session)
	return sess, ok
}

// issueToken signs a session token that expires with the idle TTL.
func (a *App) issueToken(sessionID string, now time.Time) (string, time.Time, error) {
	method := jwt.GetSigningMethod(a.cfg.JWTAlgorithm)
	if method == nil {
		return "", time.Time{}, errors.New("unsupported JWT algorithm")
	}

	expiresAt := now.Add(a.sessions.TTL()).UTC()
	claims := jwt.MapClaims{
		"sub": sessionID,
		"iat": now.UTC().Unix(),
		"exp": expiresAt.Unix(),
	}
	if a.cfg.JWTIssuer != "" {
		claims["iss"] = a.cfg.JWTIssuer
	}

	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(a.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func writeStateError(c *gin.Context, status int, detail string, state session.State) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail, "state": state})
}
