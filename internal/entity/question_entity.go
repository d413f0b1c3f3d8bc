package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Question is one recorded analytics entry per processed chat message.
type Question struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username    string         `gorm:"type:varchar(255);not null;index"`
	Question    string         `gorm:"type:text;not null"`
	Tags        datatypes.JSON `gorm:"type:jsonb"`
	AgentSteps  datatypes.JSON `gorm:"type:jsonb"`
	FinalAnswer string         `gorm:"type:text"`
	UsedMCP     *string        `gorm:"type:varchar(100)"`
	WebSources  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
}

func (Question) TableName() string {
	return "questions"
}
