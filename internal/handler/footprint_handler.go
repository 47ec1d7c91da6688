package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"greenmetrics.io/carbontrack/internal/footprint"
	"greenmetrics.io/carbontrack/internal/repository"
	"greenmetrics.io/carbontrack/internal/service"
	"greenmetrics.io/carbontrack/pkg/apperror"
	"greenmetrics.io/carbontrack/pkg/response"
	"greenmetrics.io/carbontrack/pkg/validator"
)

type FootprintHandler struct {
	service service.FootprintService
}

func NewFootprintHandler(svc service.FootprintService) *FootprintHandler {
	return &FootprintHandler{service: svc}
}

type categoryResponse struct {
	Name   string  `json:"name"`
	Factor float64 `json:"factor"`
}

// GetCategories returns the submission schema: every category a
// submission must carry, with its emission factor, in schema order.
func (h *FootprintHandler) GetCategories(c *gin.Context) {
	names := footprint.Categories()
	categories := make([]categoryResponse, 0, len(names))
	for _, name := range names {
		factor, _ := footprint.Factor(name)
		categories = append(categories, categoryResponse{Name: name, Factor: factor})
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"baseline":   footprint.AverageBaseline,
	})
}

func (h *FootprintHandler) Submit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var sub footprint.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.ResponseError(c, fmt.Errorf("%w: %v", apperror.ErrValidation, err))
		return
	}

	res, err := h.service.Submit(c.Request.Context(), userID, sub)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

type historyQuery struct {
	Order string `form:"order" binding:"omitempty,oneof=asc desc"`
}

func (h *FootprintHandler) GetHistory(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query historyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	// Newest first by default, matching the history page.
	order := repository.OrderDesc
	if query.Order == "asc" {
		order = repository.OrderAsc
	}

	activities, err := h.service.History(c.Request.Context(), userID, order)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

func (h *FootprintHandler) GetGraph(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	png, err := h.service.TrendChart(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
