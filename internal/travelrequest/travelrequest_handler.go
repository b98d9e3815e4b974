package travelrequest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-traveldesk/internal/auth"
	"go-traveldesk/internal/middleware"
	"go-traveldesk/internal/shared/apperror"
	"go-traveldesk/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 15
	maxPageSize     = 100
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("travelrequest.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("travelrequest.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func actorFromContext(c *gin.Context) (Actor, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		return Actor{}, false
	}
	return Actor{
		ID:      id,
		IsAdmin: c.GetString("role") == auth.RoleAdmin,
	}, true
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("travel request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeUnauthorized(c *gin.Context) {
	response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication is required", nil)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		h.writeUnauthorized(c)
		return
	}

	filters := ListFilters{
		Status:      c.Query("status"),
		Destination: c.Query("destination"),
		StartDate:   c.Query("start_date"),
		EndDate:     c.Query("end_date"),
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	mineOnly := c.Query("my_requests") == "true"

	data, total, err := h.service.List(c.Request.Context(), actor, filters, page, pageSize, mineOnly)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, data, &meta)
}

func (h *Handler) Get(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		h.writeUnauthorized(c)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Create(c *gin.Context) {
	lockKey := c.GetString(middleware.IdempotencyLockKey)
	cacheKey := c.GetString(middleware.IdempotencyCacheKey)
	if h.rdb != nil && lockKey != "" {
		defer h.rdb.Del(c.Request.Context(), lockKey)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		h.writeUnauthorized(c)
		return
	}

	var req CreateTravelRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor.ID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil && cacheKey != "" {
		if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
			_ = h.rdb.Set(c.Request.Context(), cacheKey, payload, 24*time.Hour).Err()
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		h.writeUnauthorized(c)
		return
	}

	var req UpdateTravelRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		h.writeUnauthorized(c)
		return
	}

	var req UpdateStatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":        fmt.Sprintf("Travel request %s successfully", resp.Status),
		"travel_request": resp,
	}, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		h.writeUnauthorized(c)
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		h.writeUnauthorized(c)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
