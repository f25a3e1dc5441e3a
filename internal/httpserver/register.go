package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	registersvc "coffeeshop-pos/internal/service/register"
)

func orderViewHandler(svc RegisterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order := svc.Order(c.Request.Context(), c.Param("terminalID"))
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

func addLineHandler(svc RegisterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in registersvc.AddItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		order, err := svc.AddItem(c.Request.Context(), c.Param("terminalID"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func setQuantityHandler(svc RegisterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		line, err := strconv.Atoi(c.Param("line"))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "line index must be a number"})
			return
		}
		var in setQuantityRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		order, err := svc.SetQuantity(c.Request.Context(), c.Param("terminalID"), line, in.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

func removeLineHandler(svc RegisterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		line, err := strconv.Atoi(c.Param("line"))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "line index must be a number"})
			return
		}
		order, err := svc.RemoveLine(c.Request.Context(), c.Param("terminalID"), line)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

func clearOrderHandler(svc RegisterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Clear(c.Request.Context(), c.Param("terminalID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

func checkoutHandler(svc RegisterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in registersvc.CheckoutInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		snap, err := svc.Checkout(c.Request.Context(), c.Param("terminalID"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toSnapshotResponse(snap))
	}
}
