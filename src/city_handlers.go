package main

import (
	"errors"
	"log"
	"mepass/src/models"
	"mepass/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (a *api) cityPublicHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/cities", func(ctx *gin.Context) {
			var cities []models.City
			if err := a.db.
				Model(&models.City{}).
				Where("is_active = ?", true).
				Order("name asc").
				Find(&cities).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": cities, "count": len(cities)})
		})
	return g
}

func (a *api) cityAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/cities", func(ctx *gin.Context) {
			var body types.CreateCityRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			city := models.City{
				Name:     body.Name,
				State:    body.State,
				Image:    body.Image,
				IsActive: true,
			}
			if err := a.db.Create(&city).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					ctx.JSON(http.StatusConflict, gin.H{"error": "City already exists"})
					return
				}
				log.Printf("Error creating city: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": city})
		}).
		PUT("/cities/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateCityRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var city models.City
			err := a.db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.City{}).
					Where(&models.City{ID: params.ID}).
					First(&city).
					Error; err != nil {
					return err
				}
				updates := map[string]any{}
				if body.Name != nil {
					updates["name"] = *body.Name
				}
				if body.State != nil {
					updates["state"] = *body.State
				}
				if body.Image != nil {
					updates["image"] = *body.Image
				}
				if body.IsActive != nil {
					updates["is_active"] = *body.IsActive
				}
				if len(updates) == 0 {
					return nil
				}
				if err := tx.
					Model(&models.City{}).
					Where("id = ?", city.ID).
					Updates(updates).
					Error; err != nil {
					return err
				}
				return tx.
					Model(&models.City{}).
					Where(&models.City{ID: city.ID}).
					First(&city).
					Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": "city not found"})
					return
				}
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					ctx.JSON(http.StatusConflict, gin.H{"error": "City already exists"})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": city})
		}).
		DELETE("/cities/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			err := a.db.Transaction(func(tx *gorm.DB) error {
				var city models.City
				if err := tx.
					Model(&models.City{}).
					Where(&models.City{ID: params.ID}).
					First(&city).
					Error; err != nil {
					return err
				}
				if city.EventCount > 0 {
					return errCityInUse
				}
				return tx.Delete(&models.City{}, city.ID).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": "city not found"})
					return
				}
				if errors.Is(err, errCityInUse) {
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

var errCityInUse = errors.New("city still has events")
