package account

import (
	"strings"
	"time"
)

// Account 是 accounts 表的 GORM 模型：后台操作人员账号（车队/运营/管理员）。
type Account struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Username     string    `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string    `gorm:"size:128;not null"`
	PasswordSalt string    `gorm:"size:64;not null"`
	FullName     string    `gorm:"size:64"`
	Phone        string    `gorm:"size:32"`
	Email        string    `gorm:"size:128"`
	Roles        string    `gorm:"size:256;not null"` // 逗号分隔，例如 "agent,fleet_manager"
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Account) TableName() string { return "accounts" }

func (a Account) RolesSlice() []string {
	if strings.TrimSpace(a.Roles) == "" {
		return nil
	}
	parts := strings.Split(a.Roles, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func RolesJoin(roles []string) string {
	if len(roles) == 0 {
		return ""
	}
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return strings.Join(out, ",")
}
