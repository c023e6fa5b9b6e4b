// internal/models/profile.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

type Profile struct {
	BaseModel
	Name             string  `json:"name" gorm:"size:255"`
	Email            string  `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Username         *string `json:"username" gorm:"uniqueIndex;size:50"`
	PasswordHash     string  `json:"-" gorm:"size:255;not null"`
	Roles            RoleSet `json:"roles" gorm:"type:text[];not null;default:'{customer}'"`
	IsVerifiedSeller bool    `json:"is_verified_seller" gorm:"default:false"`
	ShowAdminBadge   bool    `json:"show_admin_badge" gorm:"default:false"`
	IsActive         bool    `json:"is_active" gorm:"default:true"`
	IsRestricted     bool    `json:"is_restricted" gorm:"default:false"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hashedPassword)
	return nil
}

func (p *Profile) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password))
}

func (p *Profile) CanSell() bool {
	return p.Roles.HasAny(RoleCreator, RoleSeller, RoleAdmin)
}
