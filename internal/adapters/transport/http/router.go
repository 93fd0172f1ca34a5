package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pmelnyk/currency-service/internal/adapters/transport/http/dto"
	"github.com/pmelnyk/currency-service/internal/adapters/transport/http/middleware"
	authsvc "github.com/pmelnyk/currency-service/internal/app/auth/service"
	exchangesvc "github.com/pmelnyk/currency-service/internal/app/exchange/service"
	"github.com/pmelnyk/currency-service/internal/domain/auth/model"
	customErrors "github.com/pmelnyk/currency-service/internal/domain/errors"
	"github.com/pmelnyk/currency-service/internal/infra/config"
)

// NewRouter wires the REST surface: /auth for the token lifecycle and
// /currencies for the rate graph and conversion.
func NewRouter(
	authSvc authsvc.Service,
	exchangeSvc exchangesvc.Service,
	cfg *config.Config,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.NewRateLimitPerIP(50, 100, 10_000, time.Hour))

	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization", "x-auth-token",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	auth := router.Group("/auth")
	{
		auth.POST("/register", func(c *gin.Context) {
			var body dto.RegisterDTO
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user, err := authSvc.Register(c.Request.Context(), body)
			if err != nil {
				handleError(c, err)
				return
			}
			c.JSON(http.StatusCreated, gin.H{
				"email": user.Email,
				"roles": user.Roles,
			})
		})

		auth.POST("/login", func(c *gin.Context) {
			var body dto.LoginDTO
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			pair, err := authSvc.Login(c.Request.Context(), body)
			if err != nil {
				handleError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"accessToken":  pair.AccessToken,
				"refreshToken": pair.RefreshToken,
				"expiresIn":    int(pair.AccessTTL.Seconds()),
				"userId":       pair.UserID.String(),
			})
		})

		auth.POST("/refresh", func(c *gin.Context) {
			var body dto.RefreshDTO
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			accessToken, err := authSvc.Refresh(c.Request.Context(), body)
			if err != nil {
				handleError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
		})

		auth.DELETE("/logout", func(c *gin.Context) {
			var body dto.LogoutDTO
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := authSvc.Logout(c.Request.Context(), body); err != nil {
				handleError(c, err)
				return
			}
			c.Status(http.StatusNoContent)
		})
	}

	authRequired := middleware.AuthRequired(authSvc)

	currencies := router.Group("/currencies", authRequired)
	{
		currencies.GET("", middleware.RequireRole(model.RoleViewer), func(c *gin.Context) {
			list, err := exchangeSvc.ListCurrencies(c.Request.Context())
			if err != nil {
				handleError(c, err)
				return
			}
			result := make([]gin.H, 0, len(list))
			for _, cur := range list {
				result = append(result, gin.H{
					"symbol": cur.Symbol,
					"name":   cur.Name,
					"rates":  cur.Rates,
				})
			}
			c.JSON(http.StatusOK, gin.H{"count": len(result), "result": result})
		})

		currencies.POST("", middleware.RequireRole(model.RoleEditor), func(c *gin.Context) {
			var body dto.CreateCurrencyDTO
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			cur, err := exchangeSvc.CreateCurrency(c.Request.Context(), body)
			if err != nil {
				handleError(c, err)
				return
			}
			c.JSON(http.StatusCreated, gin.H{
				"symbol": cur.Symbol,
				"name":   cur.Name,
				"rates":  cur.Rates,
			})
		})

		currencies.DELETE("", middleware.RequireRole(model.RoleEditor), func(c *gin.Context) {
			var body dto.DeleteCurrencyDTO
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := exchangeSvc.DeleteCurrency(c.Request.Context(), body); err != nil {
				handleError(c, err)
				return
			}
			c.Status(http.StatusNoContent)
		})

		currencies.PUT("/rate", middleware.RequireRole(model.RoleEditor), func(c *gin.Context) {
			var body dto.SetRateDTO
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := exchangeSvc.SetRate(c.Request.Context(), body); err != nil {
				handleError(c, err)
				return
			}
			c.JSON(http.StatusCreated, gin.H{
				"base":   body.Base,
				"target": body.Target,
				"rate":   body.Rate,
			})
		})

		currencies.DELETE("/rate", middleware.RequireRole(model.RoleEditor), func(c *gin.Context) {
			var body dto.DeleteRateDTO
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := exchangeSvc.DeleteRate(c.Request.Context(), body); err != nil {
				handleError(c, err)
				return
			}
			c.Status(http.StatusNoContent)
		})

		currencies.POST("/convert", middleware.RequireRole(model.RoleViewer), func(c *gin.Context) {
			var body dto.ConvertDTO
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			conv, err := exchangeSvc.Convert(c.Request.Context(), body)
			if err != nil {
				handleError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"base":            conv.Base,
				"target":          conv.Target,
				"amount":          conv.Amount,
				"convertedAmount": conv.ConvertedAmount,
			})
		})
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func handleError(c *gin.Context, err error) {
	switch {
	case customErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case customErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case customErrors.IsInvalidToken(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case customErrors.IsPermissionDenied(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case customErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case customErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
