package models

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleMod   Role = "mod"
	RoleAdmin Role = "admin"
)

// ParseRole 未知角色一律降级为普通用户
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleMod:
		return RoleMod
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// CanModerate mod 与 admin 可以管理屏蔽词
func (r Role) CanModerate() bool {
	return r == RoleMod || r == RoleAdmin
}

// Profile ID 与外部认证服务的用户 ID 一致
type Profile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Nickname  string    `gorm:"size:50" json:"nickname"`
	Role      Role      `gorm:"size:20;default:'user';not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
