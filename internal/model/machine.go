package model

import "time"

// Machine is one tracked unit, identified by its factory serial number.
type Machine struct {
	ID                  int64     `gorm:"primaryKey"`
	SerialNumber        string    `gorm:"uniqueIndex;size:50;not null"`
	MachineModelID      *int64    `gorm:"column:model_id;index"`
	EngineModelID       *int64    `gorm:"index"`
	EngineSerial        string    `gorm:"size:50;not null"`
	TransmissionModelID *int64    `gorm:"index"`
	TransmissionSerial  string    `gorm:"size:50;not null"`
	DriveAxleModelID    *int64    `gorm:"index"`
	DriveAxleSerial     string    `gorm:"size:50;not null"`
	SteerAxleModelID    *int64    `gorm:"index"`
	SteerAxleSerial     string    `gorm:"size:50;not null"`
	Contract            string    `gorm:"size:200"`
	ShipmentDate        time.Time `gorm:"type:date;not null"`
	Client              string    `gorm:"size:200;not null"`
	Consignee           string    `gorm:"size:200;not null"`
	DeliveryAddress     string    `gorm:"size:300;not null"`
	Equipment           string    `gorm:"type:text;not null"`
	// ServiceCompany is free text; Maintenance and Claim reference the
	// Directory instead.
	ServiceCompany string    `gorm:"size:200"`
	ClientUserID   *int64    `gorm:"index"`
	ServiceUserID  *int64    `gorm:"index"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`

	// Associations
	MachineModel      *Directory `gorm:"foreignKey:MachineModelID;constraint:OnDelete:SET NULL"`
	EngineModel       *Directory `gorm:"foreignKey:EngineModelID;constraint:OnDelete:SET NULL"`
	TransmissionModel *Directory `gorm:"foreignKey:TransmissionModelID;constraint:OnDelete:SET NULL"`
	DriveAxleModel    *Directory `gorm:"foreignKey:DriveAxleModelID;constraint:OnDelete:SET NULL"`
	SteerAxleModel    *Directory `gorm:"foreignKey:SteerAxleModelID;constraint:OnDelete:SET NULL"`
	ClientUser        *User      `gorm:"foreignKey:ClientUserID;constraint:OnDelete:SET NULL"`
	ServiceUser       *User      `gorm:"foreignKey:ServiceUserID;constraint:OnDelete:SET NULL"`
}

func (Machine) TableName() string { return "machines" }
