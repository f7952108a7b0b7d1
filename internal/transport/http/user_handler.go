package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collectops/cashdesk/internal/service"
)

func registerUserHandlers(v1 *gin.RouterGroup, svc *service.UserService) {
	v1.GET("/users", listUsersHandler(svc))
	v1.GET("/users/:id", getUserHandler(svc))
	v1.POST("/users", createUserHandler(svc))
	v1.PUT("/users/:id", updateUserHandler(svc))
	v1.DELETE("/users/:id", deleteUserHandler(svc))
	v1.GET("/roles", listRolesHandler(svc))
}

type userReq struct {
	Username    string   `json:"username" binding:"required"`
	Phone       string   `json:"phone" binding:"required"`
	Email       *string  `json:"email"`
	DisplayName *string  `json:"display_name"`
	Password    string   `json:"password"`
	Country     string   `json:"country" binding:"required"`
	CountryISO  string   `json:"country_iso" binding:"required"`
	IsActive    bool     `json:"is_active"`
	RoleIDs     []string `json:"role_ids"`
}

func (r userReq) input() service.UserInput {
	return service.UserInput{
		Username: r.Username, Phone: r.Phone, Email: r.Email,
		DisplayName: r.DisplayName, Password: r.Password,
		Country: r.Country, CountryISO: r.CountryISO,
		IsActive: r.IsActive, RoleIDs: r.RoleIDs,
	}
}

func listUsersHandler(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := listFilters(c)
		users, total, err := svc.ListUsers(c, f)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPageResponse(users, total, f.Page, f.PageSize))
	}
}

func getUserHandler(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.GetUser(c, c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func createUserHandler(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req userReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		u, err := svc.CreateUser(c, req.input())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

func updateUserHandler(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req userReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		u, err := svc.UpdateUser(c, c.Param("id"), req.input())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func deleteUserHandler(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteUser(c, c.Param("id")); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listRolesHandler(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := svc.ListRoles(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, roles)
	}
}
