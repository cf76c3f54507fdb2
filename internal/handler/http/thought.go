package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"thoughts-board/internal/domain"
	"thoughts-board/internal/middleware"
	"thoughts-board/internal/service"
)

// ThoughtHandler 封装了 thought 相关的 HTTP 处理逻辑
type ThoughtHandler struct {
	thoughtService *service.ThoughtService
}

// NewThoughtHandler 创建 ThoughtHandler 实例
func NewThoughtHandler(thoughtService *service.ThoughtService) *ThoughtHandler {
	return &ThoughtHandler{thoughtService: thoughtService}
}

// CreateThoughtRequest 定义创建 thought 的请求体
type CreateThoughtRequest struct {
	Message string `json:"message"`
	Hearts  *int   `json:"hearts"`
}

// UpdateThoughtRequest 定义部分更新的请求体，缺省字段保持不变
type UpdateThoughtRequest struct {
	Message *string `json:"message"`
	Hearts  *int    `json:"hearts"`
}

// DeleteThoughtResponse 定义删除成功的响应
type DeleteThoughtResponse struct {
	Success bool            `json:"success"`
	Deleted *domain.Thought `json:"deleted"`
}

// List 返回最新的 thought
func (h *ThoughtHandler) List(c *gin.Context) {
	thoughts, err := h.thoughtService.Latest(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, thoughts)
}

// Search 按关键字搜索
func (h *ThoughtHandler) Search(c *gin.Context) {
	thoughts, err := h.thoughtService.Search(c.Request.Context(), c.Param("word"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, thoughts)
}

// MinHearts 按 hearts 下限过滤
func (h *ThoughtHandler) MinHearts(c *gin.Context) {
	min, err := service.ParseMinHearts(c.Param("min"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	thoughts, err := h.thoughtService.WithMinHearts(c.Request.Context(), min)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, thoughts)
}

// Page 分页查询
func (h *ThoughtHandler) Page(c *gin.Context) {
	page, err := service.ParsePage(c.Param("page"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	thoughts, err := h.thoughtService.Page(c.Request.Context(), page)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, thoughts)
}

// Get 返回单条 thought
func (h *ThoughtHandler) Get(c *gin.Context) {
	id, err := service.ParseThoughtID(c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	thought, err := h.thoughtService.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, thought)
}

// Create 以当前用户身份创建 thought
func (h *ThoughtHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req CreateThoughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Handler.CreateThought: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Could not create thought")
		return
	}
	thought, err := h.thoughtService.Create(c.Request.Context(), user, req.Message, req.Hearts)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, thought)
}

// Like 点赞
func (h *ThoughtHandler) Like(c *gin.Context) {
	id, err := service.ParseThoughtID(c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	thought, err := h.thoughtService.Like(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, thought)
}

// Update 部分更新当前用户自己的 thought
func (h *ThoughtHandler) Update(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, err := service.ParseThoughtID(c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	var req UpdateThoughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Handler.UpdateThought: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Could not update thought")
		return
	}
	thought, err := h.thoughtService.Update(c.Request.Context(), user, id, domain.ThoughtUpdate{
		Message: req.Message,
		Hearts:  req.Hearts,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, thought)
}

// Delete 删除当前用户自己的 thought
func (h *ThoughtHandler) Delete(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, err := service.ParseThoughtID(c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	thought, err := h.thoughtService.Delete(c.Request.Context(), user, id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, DeleteThoughtResponse{Success: true, Deleted: thought})
}

// requireUser 从上下文取出认证用户；Auth 中间件缺失时返回 401
func requireUser(c *gin.Context) (*domain.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		logrus.WithField("path", c.FullPath()).Warn("Handler: User not found in context, middleware missing or failed?")
		ErrorResponse(c, http.StatusUnauthorized, "Access token required")
		return nil, false
	}
	return user, true
}
