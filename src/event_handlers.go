package main

import (
	"errors"
	"log"
	"mepass/src/middlewares"
	"mepass/src/models"
	"mepass/src/types"
	"mepass/src/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const featuredLimit = 5

func (a *api) eventPublicHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			var filters types.EventQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			q := a.db.
				Model(&models.Event{}).
				Where("is_active = ?", true).
				Where("date >= ?", time.Now())
			if filters.City != "" {
				q = q.Where("city_name = ?", filters.City)
			}
			if filters.Category != "" {
				q = q.Where("category = ?", filters.Category)
			}
			var events []models.Event
			if err := q.Order("date asc").Find(&events).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		GET("/events/featured", func(ctx *gin.Context) {
			q := a.db.
				Model(&models.Event{}).
				Where("is_active = ?", true).
				Where("is_featured = ?", true).
				Where("date >= ?", time.Now())
			if city := ctx.Query("city"); city != "" {
				q = q.Where("city_name = ?", city)
			}
			var events []models.Event
			if err := q.Order("date asc").Limit(featuredLimit).Find(&events).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var event models.Event
			if err := a.db.
				Model(&models.Event{}).
				Where(&models.Event{ID: params.ID}).
				Preload("City").
				First(&event).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": "event not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		GET("/events/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			avail, err := a.inv.Availability(ctx, params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": "event not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": avail})
		})
	return g
}

func (a *api) eventOrganizerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events/organizer/my-events", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var events []models.Event
			if err := a.db.
				Model(&models.Event{}).
				Where(&models.Event{OrganizerID: userId}).
				Order("created_at desc").
				Find(&events).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			category := body.Category
			if category == "" {
				category = types.CATEGORY_OTHER
			}
			if !types.ValidEventCategory(category) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown event category"})
				return
			}
			date, err := utils.ParseEventDate(body.Date)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var endDate *time.Time
			if body.EndDate != nil {
				ed, err := utils.ParseEventDate(*body.EndDate)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				endDate = &ed
			}
			userId := ctx.GetUint("id")
			var event models.Event
			err = a.db.Transaction(func(tx *gorm.DB) error {
				var city models.City
				if err := tx.
					Model(&models.City{}).
					Where(&models.City{ID: body.CityID, IsActive: true}).
					First(&city).
					Error; err != nil {
					return err
				}
				var organizer models.User
				if err := tx.
					Model(&models.User{}).
					Select("id", "name").
					Where(&models.User{ID: userId}).
					First(&organizer).
					Error; err != nil {
					return err
				}
				event = models.Event{
					Title:         body.Title,
					Slug:          utils.NewEventSlug(body.Title),
					Description:   body.Description,
					Category:      category,
					Date:          date,
					EndDate:       endDate,
					Time:          body.Time,
					Venue:         body.Venue,
					Address:       body.Address,
					CityID:        city.ID,
					CityName:      city.Name,
					Image:         body.Image,
					Price:         body.Price,
					Capacity:      body.Capacity,
					OrganizerID:   organizer.ID,
					OrganizerName: organizer.Name,
					IsFeatured:    body.IsFeatured,
					IsActive:      true,
				}
				if err := tx.Create(&event).Error; err != nil {
					return err
				}
				if err := tx.
					Model(&models.City{}).
					Where("id = ?", city.ID).
					UpdateColumn("event_count", gorm.Expr("event_count + 1")).
					Error; err != nil {
					return err
				}
				return nil
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": "city not found"})
					return
				}
				log.Printf("Error creating event: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			// Create bypasses the AfterFind hook that fills Available
			event.Available = event.AvailableTickets()
			ctx.JSON(http.StatusCreated, gin.H{"data": event})
		}).
		PUT("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := middlewares.CallerRole(ctx)
			var event models.Event
			err := a.db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.Event{}).
					Where(&models.Event{ID: params.ID}).
					First(&event).
					Error; err != nil {
					return err
				}
				if role != types.ROLE_ADMIN && event.OrganizerID != userId {
					return errNotOwner
				}
				updates := map[string]any{}
				if body.Title != nil {
					updates["title"] = *body.Title
				}
				if body.Description != nil {
					updates["description"] = *body.Description
				}
				if body.Category != nil {
					if !types.ValidEventCategory(*body.Category) {
						return errBadCategory
					}
					updates["category"] = *body.Category
				}
				if body.Date != nil {
					date, err := utils.ParseEventDate(*body.Date)
					if err != nil {
						return err
					}
					updates["date"] = date
				}
				if body.Time != nil {
					updates["time"] = *body.Time
				}
				if body.Venue != nil {
					updates["venue"] = *body.Venue
				}
				if body.Address != nil {
					updates["address"] = *body.Address
				}
				if body.Image != nil {
					updates["image"] = *body.Image
				}
				if body.Price != nil {
					updates["price"] = *body.Price
				}
				if body.IsFeatured != nil {
					updates["is_featured"] = *body.IsFeatured
				}
				if body.IsActive != nil {
					updates["is_active"] = *body.IsActive
				}
				if len(updates) == 0 {
					return nil
				}
				if err := tx.
					Model(&models.Event{}).
					Where("id = ?", event.ID).
					Updates(updates).
					Error; err != nil {
					return err
				}
				return tx.
					Model(&models.Event{}).
					Where(&models.Event{ID: event.ID}).
					First(&event).
					Error
			})
			if err != nil {
				eventWriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		DELETE("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			role := middlewares.CallerRole(ctx)
			err := a.db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.
					Model(&models.Event{}).
					Where(&models.Event{ID: params.ID}).
					First(&event).
					Error; err != nil {
					return err
				}
				if role != types.ROLE_ADMIN && event.OrganizerID != userId {
					return errNotOwner
				}
				var active int64
				if err := tx.
					Model(&models.Booking{}).
					Where("event_id = ? AND status <> ?", event.ID, types.BOOKING_CANCELLED).
					Count(&active).
					Error; err != nil {
					return err
				}
				if active > 0 {
					return errHasBookings
				}
				if err := tx.Delete(&models.Event{}, event.ID).Error; err != nil {
					return err
				}
				res := tx.
					Model(&models.City{}).
					Where("id = ? AND event_count >= 1", event.CityID).
					UpdateColumn("event_count", gorm.Expr("event_count - 1"))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					log.Printf("city [%d] event tally already at zero while deleting event [%d]\n", event.CityID, event.ID)
				}
				return nil
			})
			if err != nil {
				eventWriteError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func (a *api) eventAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/admin/events", func(ctx *gin.Context) {
			var events []models.Event
			if err := a.db.
				Model(&models.Event{}).
				Order("date asc").
				Find(&events).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		})
	return g
}

var (
	errNotOwner    = errors.New("only the event organizer can modify this event")
	errBadCategory = errors.New("unknown event category")
	errHasBookings = errors.New("event still has active bookings")
)

func eventWriteError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": "event not found"})
	case errors.Is(err, errNotOwner):
		ctx.JSON(http.StatusForbidden, gin.H{"code": "FORBIDDEN", "error": err.Error()})
	case errors.Is(err, errBadCategory):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errHasBookings):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("event write error: %s\n", err.Error())
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	}
}
