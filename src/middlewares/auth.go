package middlewares

import (
	"log"
	"mepass/src/config"
	"mepass/src/models"
	"mepass/src/types"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// Auth authenticates the bearer token, loads the user and stores the
// caller's identity plus a typed role in the request context. Handlers
// downstream only ever see the parsed role, never the raw string.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		bearerToken := ctx.Request.Header.Get("Authorization")
		if !strings.HasPrefix(bearerToken, "Bearer") {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		parts := strings.Split(bearerToken, " ")
		if len(parts) < 2 || parts[1] == "" {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		reqToken := parts[1]
		claims := &types.Claims{}
		tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
			return config.GetJWTSecret(), nil
		})
		if err != nil {
			log.Printf("token error: %s\n", err.Error())
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !tkn.Valid {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		uid, err := strconv.Atoi(claims.Subject)
		if err != nil {
			log.Println("error parsing claims:", err.Error())
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		var user models.User
		if err := db.
			Model(&models.User{}).
			Where(&models.User{ID: uint(uid)}).
			First(&user).
			Error; err != nil {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		role, ok := types.ParseRole(user.Role)
		if !ok {
			log.Printf("user [%d] carries unknown role %q\n", user.ID, user.Role)
			ctx.AbortWithStatus(http.StatusForbidden)
			return
		}
		ctx.Set("id", user.ID)
		ctx.Set("email", user.Email)
		ctx.Set("uid", user.UID)
		ctx.Set("role", role)
	}
}

// RequireRole gates a route group on the typed role set by Auth.
func RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role := CallerRole(ctx)
		for _, allowed := range roles {
			if role == allowed {
				return
			}
		}
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
	}
}

// CallerRole returns the typed role Auth stored for this request.
func CallerRole(ctx *gin.Context) types.Role {
	v, ok := ctx.Get("role")
	if !ok {
		return ""
	}
	role, _ := v.(types.Role)
	return role
}
