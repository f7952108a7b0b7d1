package model

import "time"

// RoleName mirrors the back-office role set. OFFICER and CFO (and their
// manager equivalents) drive the approval level policy.
type RoleName string

const (
	RoleAdmin            RoleName = "ADMIN"
	RoleAgent            RoleName = "AGENT"
	RoleOfficer          RoleName = "OFFICER"
	RoleCFO              RoleName = "CFO"
	RoleTelco            RoleName = "TELCO"
	RoleOperationManager RoleName = "OPERATION_MANAGER"
	RoleManagingDirector RoleName = "MANAGING_DIRECTOR"
)

type Role struct {
	ID   string   `gorm:"type:uuid;primaryKey" json:"id"`
	Name RoleName `gorm:"size:32;not null;uniqueIndex" json:"name"`
}

func (Role) TableName() string { return "role" }

type User struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string     `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Phone        string     `gorm:"size:32;not null" json:"phone"`
	Email        *string    `gorm:"size:128" json:"email,omitempty"`
	DisplayName  *string    `gorm:"size:128" json:"display_name,omitempty"`
	PasswordHash string     `gorm:"size:128;not null" json:"-"`
	Country      string     `gorm:"size:64;not null" json:"country"`
	CountryISO   string     `gorm:"size:2;not null;column:country_iso" json:"country_iso"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	Version      uint64     `gorm:"not null;default:0" json:"version"`

	Roles []Role `gorm:"many2many:user_role;" json:"roles,omitempty"`
}

func (User) TableName() string { return "app_user" }
