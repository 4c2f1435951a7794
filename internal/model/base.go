package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
// created_by / updated_by 保存调用方的用户 ID，由认证服务签发的 Token 提供
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:varchar(64)"                   json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:varchar(64)"                   json:"updated_by,omitempty"`
}

// SetAudit 同时写入创建人与更新人
func (m *BaseModel) SetAudit(callerID string) {
	if callerID == "" {
		return
	}
	m.CreatedBy = &callerID
	m.UpdatedBy = &callerID
}
