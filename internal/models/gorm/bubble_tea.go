package gorm

import "time"

// BubbleTea represents one imported bubble tea shop, keyed by the search API business id
type BubbleTea struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(32)"`
	Alias       string    `gorm:"column:alias;type:varchar(255)"`
	Name        string    `gorm:"column:name;type:varchar(128);index"`
	Country     *string   `gorm:"column:country;type:varchar(128);index"`
	Address1    *string   `gorm:"column:address1;type:varchar(128)"`
	Address2    *string   `gorm:"column:address2;type:varchar(128)"`
	Address3    *string   `gorm:"column:address3;type:varchar(128)"`
	City        *string   `gorm:"column:city;type:varchar(128)"`
	State       *string   `gorm:"column:state;type:varchar(128)"`
	ZipCode     *string   `gorm:"column:zip_code;type:varchar(128)"`
	Phone       *string   `gorm:"column:phone;type:varchar(32)"`
	Latitude    float64   `gorm:"column:latitude;type:numeric(10,6)"`
	Longitude   float64   `gorm:"column:longitude;type:numeric(10,6)"`
	Rating      float64   `gorm:"column:rating;type:numeric(2,1)"`
	ReviewCount int       `gorm:"column:review_count;type:integer"`
	URL         string    `gorm:"column:url;type:text"`
	InsertDt    time.Time `gorm:"column:insert_dt;autoCreateTime"`
	UpdateDt    time.Time `gorm:"column:update_dt;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (BubbleTea) TableName() string {
	return "bubble_tea"
}

// BubbleTeaUpsertColumns are overwritten when a business is imported again.
// insert_dt is left alone so the first import time survives.
var BubbleTeaUpsertColumns = []string{
	"alias", "name", "country", "address1", "address2", "address3",
	"city", "state", "zip_code", "phone", "latitude", "longitude",
	"rating", "review_count", "url", "update_dt",
}
