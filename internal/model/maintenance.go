package model

import "time"

// Maintenance is one service event performed on a machine.
type Maintenance struct {
	ID                int64     `gorm:"primaryKey"`
	MachineID         int64     `gorm:"index;not null"`
	MaintenanceTypeID *int64    `gorm:"index"`
	Date              time.Time `gorm:"type:date;not null"`
	OperatingTime     int       `gorm:"not null"`
	OrderNumber       string    `gorm:"size:50;not null"`
	OrderDate         time.Time `gorm:"type:date;not null"`
	ServiceCompanyID  *int64    `gorm:"index"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`

	// Associations
	Machine         *Machine   `gorm:"constraint:OnDelete:CASCADE"`
	MaintenanceType *Directory `gorm:"foreignKey:MaintenanceTypeID;constraint:OnDelete:SET NULL"`
	ServiceCompany  *Directory `gorm:"foreignKey:ServiceCompanyID;constraint:OnDelete:SET NULL"`
}

func (Maintenance) TableName() string { return "maintenances" }
