package model

import "time"

// Claim records one failure of a machine and its repair.
type Claim struct {
	ID                 int64     `gorm:"primaryKey"`
	MachineID          int64     `gorm:"index;not null"`
	FailureDate        time.Time `gorm:"type:date;not null"`
	OperatingTime      int       `gorm:"not null"`
	FailedUnitID       *int64    `gorm:"index"`
	FailureDescription string    `gorm:"type:text;not null"`
	RecoveryMethodID   *int64    `gorm:"index"`
	UsedParts          string    `gorm:"type:text"`
	RecoveryDate       time.Time `gorm:"type:date;not null"`
	// Downtime in whole days.
	Downtime         int       `gorm:"not null"`
	ServiceCompanyID *int64    `gorm:"index"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`

	// Associations
	Machine        *Machine   `gorm:"constraint:OnDelete:CASCADE"`
	FailedUnit     *Directory `gorm:"foreignKey:FailedUnitID;constraint:OnDelete:SET NULL"`
	RecoveryMethod *Directory `gorm:"foreignKey:RecoveryMethodID;constraint:OnDelete:SET NULL"`
	ServiceCompany *Directory `gorm:"foreignKey:ServiceCompanyID;constraint:OnDelete:SET NULL"`
}

func (Claim) TableName() string { return "claims" }

// DowntimeDays counts whole days between failure and recovery.
func DowntimeDays(failure, recovery time.Time) int {
	return int(recovery.Sub(failure).Hours() / 24)
}
