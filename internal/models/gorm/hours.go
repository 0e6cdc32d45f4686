package gorm

import "time"

// Hours is one weekday's open interval for a bubble tea shop
type Hours struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	BubbleTeaID string    `gorm:"column:bubble_tea_id;type:varchar(32);uniqueIndex:idx_bubble_tea_id_day"`
	Day         int       `gorm:"column:day;type:integer;uniqueIndex:idx_bubble_tea_id_day"`
	Start       string    `gorm:"column:start;type:varchar(4)"`
	End         string    `gorm:"column:end;type:varchar(4)"`
	IsOvernight bool      `gorm:"column:is_overnight"`
	InsertDt    time.Time `gorm:"column:insert_dt;autoCreateTime"`
	UpdateDt    time.Time `gorm:"column:update_dt;autoUpdateTime"`

	// Relationships
	BubbleTea *BubbleTea `gorm:"foreignKey:BubbleTeaID"`
}

// TableName specifies the table name for GORM
func (Hours) TableName() string {
	return "hours"
}

// HoursUpsertColumns are overwritten when a (bubble_tea_id, day) pair is imported again
var HoursUpsertColumns = []string{"start", "end", "is_overnight", "update_dt"}
