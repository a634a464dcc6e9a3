package services

import (
	"errors"

	"staffdesk/staffdesk/broker"
	"staffdesk/staffdesk/database"
	"staffdesk/staffdesk/models"

	"gorm.io/gorm"
)

// UserFilter narrows directory listings; empty fields are skipped
type UserFilter struct {
	Email      string
	Department string
}

// UserService is the directory lookup surface. The task subsystem consults it
// read-only by id; CreateUser exists for provisioning.
type UserServiceInterface interface {
	CreateUser(db *database.Database, user models.User) (models.User, error)
	GetUserById(db *database.Database, id uint) (models.User, error)
	GetUsers(db *database.Database, filter UserFilter) ([]models.User, error)
}

type UserService struct{}

func (s *UserService) CreateUser(db *database.Database, user models.User) (models.User, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	event, err := models.NewEvent(
		string(broker.UserCreated),
		"user",
		map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.User{}, err
	}
	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	return user, nil
}

func (s *UserService) GetUserById(db *database.Database, id uint) (models.User, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) GetUsers(db *database.Database, filter UserFilter) ([]models.User, error) {
	query := db.DB
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}

	users := []models.User{}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

var UserServiceInstance UserServiceInterface = &UserService{}
