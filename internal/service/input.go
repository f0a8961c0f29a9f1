package service

// Write payloads. Pointer fields tell an absent value from an empty one:
// a full write treats absent as empty, a partial write leaves the stored
// value unchanged.

// MachineInput is the body of a machine write.
type MachineInput struct {
	SerialNumber       *string `json:"serial_number" validate:"omitempty,max=50"`
	Model              *int64  `json:"model"`
	EngineModel        *int64  `json:"engine_model"`
	EngineSerial       *string `json:"engine_serial" validate:"omitempty,max=50"`
	TransmissionModel  *int64  `json:"transmission_model"`
	TransmissionSerial *string `json:"transmission_serial" validate:"omitempty,max=50"`
	DriveAxleModel     *int64  `json:"drive_axle_model"`
	DriveAxleSerial    *string `json:"drive_axle_serial" validate:"omitempty,max=50"`
	SteerAxleModel     *int64  `json:"steer_axle_model"`
	SteerAxleSerial    *string `json:"steer_axle_serial" validate:"omitempty,max=50"`
	Contract           *string `json:"contract" validate:"omitempty,max=200"`
	ShipmentDate       *string `json:"shipment_date" validate:"omitempty,datetime=2006-01-02"`
	Client             *string `json:"client" validate:"omitempty,max=200"`
	Consignee          *string `json:"consignee" validate:"omitempty,max=200"`
	DeliveryAddress    *string `json:"delivery_address" validate:"omitempty,max=300"`
	Equipment          *string `json:"equipment"`
	ServiceCompany     *string `json:"service_company" validate:"omitempty,max=200"`
	ClientUser         *int64  `json:"client_user"`
	ServiceUser        *int64  `json:"service_user"`
}

// MaintenanceInput is the body of a maintenance write.
type MaintenanceInput struct {
	Machine         *int64  `json:"machine"`
	MaintenanceType *int64  `json:"maintenance_type"`
	Date            *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	OperatingTime   *int    `json:"operating_time" validate:"omitempty,min=0"`
	OrderNumber     *string `json:"order_number" validate:"omitempty,max=50"`
	OrderDate       *string `json:"order_date" validate:"omitempty,datetime=2006-01-02"`
	ServiceCompany  *int64  `json:"service_company"`
}

// ClaimInput is the body of a claim write. Downtime is derived from the
// dates when it is not sent.
type ClaimInput struct {
	Machine            *int64  `json:"machine"`
	FailureDate        *string `json:"failure_date" validate:"omitempty,datetime=2006-01-02"`
	OperatingTime      *int    `json:"operating_time" validate:"omitempty,min=0"`
	FailedUnit         *int64  `json:"failed_unit"`
	FailureDescription *string `json:"failure_description"`
	RecoveryMethod     *int64  `json:"recovery_method"`
	UsedParts          *string `json:"used_parts"`
	RecoveryDate       *string `json:"recovery_date" validate:"omitempty,datetime=2006-01-02"`
	Downtime           *int    `json:"downtime" validate:"omitempty,min=0"`
	ServiceCompany     *int64  `json:"service_company"`
}

// DirectoryInput is the body of a directory write.
type DirectoryInput struct {
	Category    *string `json:"category" validate:"omitempty,max=100"`
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description"`
}

// UserInput is the body of a user creation.
type UserInput struct {
	Username  *string `json:"username" validate:"omitempty,max=150"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=72"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Role      *string `json:"role" validate:"omitempty,oneof=guest client service manager"`
}
