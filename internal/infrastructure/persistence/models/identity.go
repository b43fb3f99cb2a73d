package models

import (
	"github.com/lodge/backend/internal/domain/identity"
)

// UserModel is the GORM model for staff users
type UserModel struct {
	BaseModel
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	IsActive     bool   `gorm:"not null;default:true"`
}

// TableName specifies the table name
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         identity.UserRole(m.Role),
		IsActive:     m.IsActive,
	}
}

// UserModelFromDomain converts a domain user to the model
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role.String(),
		IsActive:     u.IsActive,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}
