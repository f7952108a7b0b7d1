package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/collectops/cashdesk/internal/model"
	"github.com/collectops/cashdesk/internal/repo"
)

// UserService manages back-office accounts and their role assignments.
type UserService struct {
	repo repo.RepositoryInterface
	log  *zap.SugaredLogger
}

func NewUserService(r repo.RepositoryInterface, logger *zap.SugaredLogger) *UserService {
	return &UserService{repo: r, log: logger}
}

type UserInput struct {
	Username    string
	Phone       string
	Email       *string
	DisplayName *string
	Password    string
	Country     string
	CountryISO  string
	IsActive    bool
	RoleIDs     []string
}

func (in UserInput) validate(requirePassword bool) error {
	switch {
	case strings.TrimSpace(in.Username) == "":
		return fmt.Errorf("%w: username is required", ErrValidation)
	case strings.TrimSpace(in.Phone) == "":
		return fmt.Errorf("%w: phone is required", ErrValidation)
	case strings.TrimSpace(in.Country) == "":
		return fmt.Errorf("%w: country is required", ErrValidation)
	case len(in.CountryISO) != 2:
		return fmt.Errorf("%w: country ISO code must be 2 letters", ErrValidation)
	}
	if requirePassword && len(in.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, f ListFilters) ([]model.User, int64, error) {
	q := s.repo.DB(ctx).Model(&model.User{})
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("lower(username) LIKE ? OR lower(display_name) LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := f.window()
	var users []model.User
	err := q.Preload("Roles").Order("created_at desc").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := s.repo.DB(ctx).Preload("Roles").Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return &u, nil
}

func (s *UserService) CreateUser(ctx context.Context, in UserInput) (*model.User, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	roles, err := s.resolveRoles(ctx, in.RoleIDs)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Phone:        in.Phone,
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: string(hash),
		Country:      in.Country,
		CountryISO:   strings.ToUpper(in.CountryISO),
		IsActive:     in.IsActive,
		Roles:        roles,
	}
	if err := s.repo.DB(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	s.log.Infow("user created", "username", u.Username)
	return u, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, in UserInput) (*model.User, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := s.resolveRoles(ctx, in.RoleIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u.Phone, u.Email, u.DisplayName = in.Phone, in.Email, in.DisplayName
	u.Country, u.CountryISO = in.Country, strings.ToUpper(in.CountryISO)
	u.IsActive = in.IsActive
	u.UpdatedAt = &now
	u.Version++
	if in.Password != "" {
		if len(in.Password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	err = s.repo.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(u).Error; err != nil {
			return err
		}
		return tx.Model(u).Association("Roles").Replace(roles)
	})
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	res := s.repo.DB(ctx).Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return nil
}

func (s *UserService) ListRoles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := s.repo.DB(ctx).Order("name asc").Find(&roles).Error
	return roles, err
}

func (s *UserService) resolveRoles(ctx context.Context, ids []string) ([]model.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []model.Role
	if err := s.repo.DB(ctx).Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, err
	}
	if len(roles) != len(ids) {
		return nil, fmt.Errorf("%w: one or more roles do not exist", ErrValidation)
	}
	return roles, nil
}
