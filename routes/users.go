package routes

import (
	"errors"
	"net/http"

	"staffdesk/staffdesk/database"
	"staffdesk/staffdesk/models"
	"staffdesk/staffdesk/services"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

func RegisterUserRoutes(group *gin.RouterGroup, db *database.Database, userService services.UserServiceInterface, authService services.AuthServiceInterface) {
	group.POST("/users", func(c *gin.Context) { CreateUser(c, db, userService, authService) })
	group.GET("/users", func(c *gin.Context) { GetUsers(c, db, userService) })
	group.GET("/users/:id", func(c *gin.Context) { GetUserById(c, db, userService) })
}

func CreateUser(c *gin.Context, db *database.Database, userService services.UserServiceInterface, authService services.AuthServiceInterface) {
	var request createUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := authService.HashPassword(request.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	user := models.User{
		Name:         request.Name,
		Email:        request.Email,
		PasswordHash: hash,
		Department:   request.Department,
		Position:     request.Position,
	}

	createdUser, err := userService.CreateUser(db, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, createdUser)
}

func GetUserById(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := userService.GetUserById(db, id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func GetUsers(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	filter := services.UserFilter{
		Email:      c.Query("email"),
		Department: c.Query("department"),
	}

	users, err := userService.GetUsers(db, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, users)
}
