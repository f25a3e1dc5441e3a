package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	historysvc "coffeeshop-pos/internal/service/history"
)

func listOrdersHandler(svc HistoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in historysvc.ListInput
		if err := c.ShouldBindQuery(&in); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid query"})
			return
		}
		orders, err := svc.List(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		out := make([]summaryResponse, 0, len(orders))
		for _, o := range orders {
			out = append(out, toSummaryResponse(o))
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

func getOrderHandler(svc HistoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := svc.Get(c.Request.Context(), c.Param("orderID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toSnapshotResponse(snap))
	}
}

func dailySalesHandler(svc HistoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.DailySales(c.Request.Context(), c.Query("date"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toDailySalesResponse(summary))
	}
}
