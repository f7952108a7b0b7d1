package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collectops/cashdesk/internal/model"
	"github.com/collectops/cashdesk/internal/service"
)

func registerCatalogHandlers(v1 *gin.RouterGroup, svc *service.CatalogService) {
	v1.GET("/agents", listAgentsHandler(svc))
	v1.GET("/agents/:id", getAgentHandler(svc))
	v1.POST("/agents", createAgentHandler(svc))
	v1.PUT("/agents/:id", updateAgentHandler(svc))
	v1.DELETE("/agents/:id", deleteAgentHandler(svc))

	v1.GET("/dealers", listDealersHandler(svc))
	v1.GET("/dealers/:id", getDealerHandler(svc))
	v1.POST("/dealers", createDealerHandler(svc))
	v1.PUT("/dealers/:id", updateDealerHandler(svc))
	v1.DELETE("/dealers/:id", deleteDealerHandler(svc))

	v1.GET("/zones", listZonesHandler(svc))
	v1.GET("/zones/:id", getZoneHandler(svc))
	v1.POST("/zones", createZoneHandler(svc))
	v1.PUT("/zones/:id", updateZoneHandler(svc))
	v1.DELETE("/zones/:id", deleteZoneHandler(svc))

	v1.GET("/operators", listOperatorsHandler(svc))
	v1.GET("/operators/:id", getOperatorHandler(svc))
	v1.POST("/operators", createOperatorHandler(svc))
	v1.PUT("/operators/:id", updateOperatorHandler(svc))
	v1.DELETE("/operators/:id", deleteOperatorHandler(svc))

	v1.GET("/operators/:id/services", listOperatorServicesHandler(svc))
	v1.GET("/operator-services/:id", getOperatorServiceHandler(svc))
	v1.POST("/operator-services", createOperatorServiceHandler(svc))
	v1.PUT("/operator-services/:id", updateOperatorServiceHandler(svc))
	v1.DELETE("/operator-services/:id", deleteOperatorServiceHandler(svc))

	v1.GET("/currencies", listCurrenciesHandler(svc))
}

func listFilters(c *gin.Context) service.ListFilters {
	page, size := pageParams(c)
	return service.ListFilters{Search: c.Query("search"), Page: page, PageSize: size}
}

// ---- agents ----

type agentReq struct {
	Code              string  `json:"code" binding:"required"`
	Name              string  `json:"name" binding:"required"`
	ZoneID            string  `json:"zone_id" binding:"required"`
	UserID            *string `json:"user_id"`
	AccountNumber     string  `json:"account_number" binding:"required"`
	ContractReference *string `json:"contract_reference"`
}

func (r agentReq) input() service.AgentInput {
	return service.AgentInput{
		Code: r.Code, Name: r.Name, ZoneID: r.ZoneID, UserID: r.UserID,
		AccountNumber: r.AccountNumber, ContractReference: r.ContractReference,
	}
}

func listAgentsHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := listFilters(c)
		items, total, err := svc.ListAgents(c, f)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPageResponse(items, total, f.Page, f.PageSize))
	}
}

func getAgentHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := svc.GetAgent(c, c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func createAgentHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req agentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a, err := svc.CreateAgent(c, req.input())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func updateAgentHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req agentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a, err := svc.UpdateAgent(c, c.Param("id"), req.input())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func deleteAgentHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteAgent(c, c.Param("id")); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ---- dealers ----

type dealerReq struct {
	Type              string  `json:"type" binding:"required"`
	Name              string  `json:"name" binding:"required"`
	ZoneID            string  `json:"zone_id" binding:"required"`
	AccountNumber     string  `json:"account_number" binding:"required"`
	ContractReference *string `json:"contract_reference"`
}

func (r dealerReq) input() service.DealerInput {
	return service.DealerInput{
		Type: model.DealerType(r.Type), Name: r.Name, ZoneID: r.ZoneID,
		AccountNumber: r.AccountNumber, ContractReference: r.ContractReference,
	}
}

func listDealersHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := listFilters(c)
		items, total, err := svc.ListDealers(c, f)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPageResponse(items, total, f.Page, f.PageSize))
	}
}

func getDealerHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.GetDealer(c, c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func createDealerHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dealerReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		d, err := svc.CreateDealer(c, req.input())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, d)
	}
}

func updateDealerHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dealerReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		d, err := svc.UpdateDealer(c, c.Param("id"), req.input())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func deleteDealerHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteDealer(c, c.Param("id")); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ---- zones ----

type zoneReq struct {
	Code         string  `json:"code" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	ParentZoneID *string `json:"parent_zone_id"`
}

func listZonesHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		zones, err := svc.ListZones(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, zones)
	}
}

func getZoneHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		z, err := svc.GetZone(c, c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, z)
	}
}

func createZoneHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req zoneReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		z, err := svc.CreateZone(c, service.ZoneInput{Code: req.Code, Name: req.Name, ParentZoneID: req.ParentZoneID})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, z)
	}
}

func updateZoneHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req zoneReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		z, err := svc.UpdateZone(c, c.Param("id"), service.ZoneInput{Code: req.Code, Name: req.Name, ParentZoneID: req.ParentZoneID})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, z)
	}
}

func deleteZoneHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteZone(c, c.Param("id")); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ---- operators ----

type operatorReq struct {
	Code              string  `json:"code" binding:"required"`
	Name              string  `json:"name" binding:"required"`
	ContractReference *string `json:"contract_reference"`
	CommissionAccount *string `json:"commission_account"`
}

func (r operatorReq) input() service.OperatorInput {
	return service.OperatorInput{
		Code: r.Code, Name: r.Name,
		ContractReference: r.ContractReference, CommissionAccount: r.CommissionAccount,
	}
}

func listOperatorsHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := listFilters(c)
		items, total, err := svc.ListOperators(c, f)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPageResponse(items, total, f.Page, f.PageSize))
	}
}

func getOperatorHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.GetOperator(c, c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func createOperatorHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req operatorReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		o, err := svc.CreateOperator(c, req.input())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

func updateOperatorHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req operatorReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		o, err := svc.UpdateOperator(c, c.Param("id"), req.input())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func deleteOperatorHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteOperator(c, c.Param("id")); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ---- operator services ----

type operatorServiceReq struct {
	OperatorID     string  `json:"operator_id" binding:"required"`
	ServiceType    string  `json:"service_type" binding:"required"`
	ServiceAccount string  `json:"service_account" binding:"required"`
	Code           *string `json:"code"`
	DisplayName    *string `json:"display_name"`
	IsEnabled      bool    `json:"is_enabled"`
}

func (r operatorServiceReq) input() service.OperatorServiceInput {
	return service.OperatorServiceInput{
		OperatorID: r.OperatorID, ServiceType: model.ServiceType(r.ServiceType),
		ServiceAccount: r.ServiceAccount, Code: r.Code, DisplayName: r.DisplayName,
		IsEnabled: r.IsEnabled,
	}
}

func listOperatorServicesHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := listFilters(c)
		items, total, err := svc.ListOperatorServices(c, c.Param("id"), f)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPageResponse(items, total, f.Page, f.PageSize))
	}
}

func getOperatorServiceHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svc.GetOperatorService(c, c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func createOperatorServiceHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req operatorServiceReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s, err := svc.CreateOperatorService(c, req.input())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, s)
	}
}

func updateOperatorServiceHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req operatorServiceReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s, err := svc.UpdateOperatorService(c, c.Param("id"), req.input())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func deleteOperatorServiceHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteOperatorService(c, c.Param("id")); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ---- currencies ----

func listCurrenciesHandler(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currencies, err := svc.ListCurrencies(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, currencies)
	}
}
