package gorm

import "time"

// ZipCode is a row of the externally maintained postal code reference table.
// The importer only reads it; the model exists for test fixtures.
type ZipCode struct {
	ID                     uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Zip                    string    `gorm:"column:zip;type:varchar(10)"`
	Type                   string    `gorm:"column:type;type:varchar(255)"`
	Decomissioned          string    `gorm:"column:decomissioned;type:varchar(20)"`
	PrimaryCity            string    `gorm:"column:primary_city;type:varchar(255)"`
	AcceptableCities       string    `gorm:"column:acceptable_cities;type:text"`
	UnacceptableCities     string    `gorm:"column:unacceptable_cities;type:text"`
	State                  string    `gorm:"column:state;type:varchar(255)"`
	County                 string    `gorm:"column:county;type:varchar(255)"`
	Timezone               string    `gorm:"column:timezone;type:varchar(255)"`
	AreaCode               string    `gorm:"column:area_code;type:varchar(255)"`
	WorldRegion            string    `gorm:"column:world_region;type:varchar(255)"`
	Country                string    `gorm:"column:country;type:varchar(255)"`
	Latitude               string    `gorm:"column:latitude;type:varchar(255)"`
	Longitude              string    `gorm:"column:longitude;type:varchar(255)"`
	IRSEstimatedPopulation string    `gorm:"column:irs_estimated_population;type:varchar(255)"`
	InsertDt               time.Time `gorm:"column:insert_dt;autoCreateTime"`
	UpdateDt               time.Time `gorm:"column:update_dt;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ZipCode) TableName() string {
	return "zip_code"
}
