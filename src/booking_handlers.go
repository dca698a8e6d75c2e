package main

import (
	"encoding/json"
	"errors"
	"log"
	"mepass/src/bookings"
	"mepass/src/middlewares"
	"mepass/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

// bookingError maps ledger errors onto stable response codes. Anything
// unmapped is a plain 500 without leaking internals.
func bookingError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, bookings.ErrEventNotFound), errors.Is(err, bookings.ErrBookingNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": err.Error()})
	case errors.Is(err, bookings.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"code": "FORBIDDEN", "error": err.Error()})
	case errors.Is(err, bookings.ErrInvalidQuantity):
		ctx.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_QUANTITY", "error": err.Error()})
	case errors.Is(err, bookings.ErrCapacityExceeded):
		ctx.JSON(http.StatusBadRequest, gin.H{"code": "CAPACITY_EXCEEDED", "error": err.Error()})
	case errors.Is(err, bookings.ErrAlreadyCancelled):
		ctx.JSON(http.StatusBadRequest, gin.H{"code": "ALREADY_CANCELLED", "error": err.Error()})
	case errors.Is(err, bookings.ErrConflictRetryExhausted):
		ctx.JSON(http.StatusConflict, gin.H{"code": "CONFLICT_RETRY_EXHAUSTED", "error": err.Error()})
	default:
		log.Printf("booking error: %s\n", err.Error())
		ctx.Status(http.StatusInternalServerError)
	}
}

func (a *api) bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				// a negative or fractional ticket count fails the uint
				// decode, which is still a quantity error to the caller
				var ute *json.UnmarshalTypeError
				if errors.As(err, &ute) && ute.Field == "tickets" {
					ctx.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_QUANTITY", "error": bookings.ErrInvalidQuantity.Error()})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			booking, err := a.bookings.Create(ctx, userId, body.EventID, body.Tickets)
			if err != nil {
				bookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		GET("/bookings/my", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			list, err := a.bookings.ListForUser(ctx, userId)
			if err != nil {
				bookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": list, "count": len(list)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			role := middlewares.CallerRole(ctx)
			booking, err := a.bookings.Get(ctx, params.ID, userId, role)
			if err != nil {
				bookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			booking, err := a.bookings.Cancel(ctx, params.ID, userId)
			if err != nil {
				bookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		})
	return g
}
