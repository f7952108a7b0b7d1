package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/collectops/cashdesk/internal/model"
	"github.com/collectops/cashdesk/internal/service"
)

// Services bundles what the router needs.
type Services struct {
	Transactions *service.TransactionService
	Approvals    *service.ApprovalService
	Catalog      *service.CatalogService
	Users        *service.UserService
}

func RegisterHandlers(r *gin.Engine, svc Services) {
	v1 := r.Group("/v1")
	{
		v1.POST("/transactions", createTransactionHandler(svc.Transactions))
		v1.GET("/transactions", listTransactionsHandler(svc.Transactions))
		v1.GET("/transactions/:id", getTransactionHandler(svc.Transactions))
		v1.POST("/transactions/:id/approve", approveHandler(svc.Approvals))
		v1.POST("/transactions/:id/reject", rejectHandler(svc.Approvals))
		v1.GET("/transactions/:id/approvals", listApprovalsHandler(svc.Approvals))
		v1.GET("/dashboard/stats", dashboardStatsHandler(svc.Transactions))

		registerCatalogHandlers(v1, svc.Catalog)
		registerUserHandlers(v1, svc.Users)
	}
}

// abortWithError maps the service failure taxonomy onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrRoleNotPermitted):
		status = http.StatusForbidden
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

type pageResponse struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

func newPageResponse(items interface{}, total int64, page, size int) pageResponse {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	return pageResponse{
		Items: items, Total: total, Page: page, PageSize: size,
		TotalPages: int(math.Ceil(float64(total) / float64(size))),
	}
}

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, size
}

type createTransactionReq struct {
	CreatedByUserID   string  `json:"created_by_user_id" binding:"required"`
	DealerID          string  `json:"dealer_id" binding:"required"`
	SubDealerID       *string `json:"sub_dealer_id"`
	AgentID           *string `json:"agent_id"`
	OriginDeviceID    *string `json:"origin_device_id"`
	OperatorID        string  `json:"operator_id" binding:"required"`
	OperatorServiceID string  `json:"operator_service_id" binding:"required"`
	ServiceType       string  `json:"service_type" binding:"required"`
	Amount            string  `json:"amount" binding:"required"`
	CurrencyID        string  `json:"currency_id" binding:"required"`
	PhoneNumber       *string `json:"phone_number"`
	SourceOfFunds     string  `json:"source_of_funds" binding:"required"`
	DepositorName     string  `json:"depositor_name" binding:"required"`
}

func createTransactionHandler(svc *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTransactionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		amt, err := decimal.NewFromString(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}
		t, err := svc.Create(c, service.CreateTransactionRequest{
			CreatedByUserID:   req.CreatedByUserID,
			DealerID:          req.DealerID,
			SubDealerID:       req.SubDealerID,
			AgentID:           req.AgentID,
			OriginDeviceID:    req.OriginDeviceID,
			OperatorID:        req.OperatorID,
			OperatorServiceID: req.OperatorServiceID,
			ServiceType:       model.ServiceType(req.ServiceType),
			Amount:            amt,
			CurrencyID:        req.CurrencyID,
			PhoneNumber:       req.PhoneNumber,
			SourceOfFunds:     req.SourceOfFunds,
			DepositorName:     req.DepositorName,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

func listTransactionsHandler(svc *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, size := pageParams(c)
		items, total, err := svc.List(c, service.TransactionFilters{
			Search:   c.Query("search"),
			Status:   model.TransactionStatus(c.Query("status")),
			Page:     page,
			PageSize: size,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPageResponse(items, total, page, size))
	}
}

func getTransactionHandler(svc *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := svc.GetByID(c, c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

type approveReq struct {
	Level       int    `json:"level" binding:"required"`
	Comment     string `json:"comment"`
	ActorUserID string `json:"actor_user_id" binding:"required"`
	ActorRole   string `json:"actor_role" binding:"required"`
}

func approveHandler(svc *service.ApprovalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req approveReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a, err := svc.Approve(c, service.ApproveRequest{
			TransactionID: c.Param("id"),
			Actor:         service.Actor{UserID: req.ActorUserID, Role: model.RoleName(req.ActorRole)},
			Level:         req.Level,
			Comment:       req.Comment,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

type rejectReq struct {
	Reason      string `json:"reason"`
	ActorUserID string `json:"actor_user_id" binding:"required"`
	ActorRole   string `json:"actor_role" binding:"required"`
}

func rejectHandler(svc *service.ApprovalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req rejectReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a, err := svc.Reject(c, service.RejectRequest{
			TransactionID: c.Param("id"),
			Actor:         service.Actor{UserID: req.ActorUserID, Role: model.RoleName(req.ActorRole)},
			Reason:        req.Reason,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func listApprovalsHandler(svc *service.ApprovalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		approvals, err := svc.ListApprovals(c, c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, approvals)
	}
}

func dashboardStatsHandler(svc *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
