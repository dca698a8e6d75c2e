package main

import (
	"mepass/src/controllers"
	"mepass/src/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *api) authHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/auth/register", func(ctx *gin.Context) {
			token, status, err := controllers.AuthRegister(ctx, a.db)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"token": token})
		}).
		POST("/auth/login", func(ctx *gin.Context) {
			token, status, err := controllers.AuthLogin(ctx, a.db)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"token": token})
		})
	return g
}

func (a *api) profileHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/auth/me", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var user models.User
			if err := a.db.
				Model(&models.User{}).
				Where(&models.User{ID: userId}).
				First(&user).
				Error; err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		})
	return g
}
