package api

import (
	"time"

	"silant-backend/internal/defaults"
	"silant-backend/internal/model"
	"silant-backend/internal/service"
)

// Responses render references as {id, name} objects, or null when unset.

type refResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func directoryRef(d *model.Directory) *refResponse {
	if d == nil {
		return nil
	}
	return &refResponse{ID: d.ID, Name: d.Name}
}

func userRef(u *model.User) *refResponse {
	if u == nil {
		return nil
	}
	return &refResponse{ID: u.ID, Name: u.DisplayName()}
}

func machineRef(m *model.Machine) *refResponse {
	if m == nil {
		return nil
	}
	return &refResponse{ID: m.ID, Name: m.SerialNumber}
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(service.DateLayout)
}

type machineResponse struct {
	ID                 int64        `json:"id"`
	SerialNumber       string       `json:"serial_number"`
	Model              *refResponse `json:"model"`
	EngineModel        *refResponse `json:"engine_model"`
	EngineSerial       string       `json:"engine_serial"`
	TransmissionModel  *refResponse `json:"transmission_model"`
	TransmissionSerial string       `json:"transmission_serial"`
	DriveAxleModel     *refResponse `json:"drive_axle_model"`
	DriveAxleSerial    string       `json:"drive_axle_serial"`
	SteerAxleModel     *refResponse `json:"steer_axle_model"`
	SteerAxleSerial    string       `json:"steer_axle_serial"`
	Contract           string       `json:"contract"`
	ShipmentDate       string       `json:"shipment_date"`
	Client             string       `json:"client"`
	Consignee          string       `json:"consignee"`
	DeliveryAddress    string       `json:"delivery_address"`
	Equipment          string       `json:"equipment"`
	ServiceCompany     string       `json:"service_company"`
	ClientUser         *refResponse `json:"client_user"`
	ServiceUser        *refResponse `json:"service_user"`
}

func newMachineResponse(m *model.Machine) machineResponse {
	return machineResponse{
		ID:                 m.ID,
		SerialNumber:       m.SerialNumber,
		Model:              directoryRef(m.MachineModel),
		EngineModel:        directoryRef(m.EngineModel),
		EngineSerial:       m.EngineSerial,
		TransmissionModel:  directoryRef(m.TransmissionModel),
		TransmissionSerial: m.TransmissionSerial,
		DriveAxleModel:     directoryRef(m.DriveAxleModel),
		DriveAxleSerial:    m.DriveAxleSerial,
		SteerAxleModel:     directoryRef(m.SteerAxleModel),
		SteerAxleSerial:    m.SteerAxleSerial,
		Contract:           m.Contract,
		ShipmentDate:       date(m.ShipmentDate),
		Client:             m.Client,
		Consignee:          m.Consignee,
		DeliveryAddress:    m.DeliveryAddress,
		Equipment:          m.Equipment,
		ServiceCompany:     m.ServiceCompany,
		ClientUser:         userRef(m.ClientUser),
		ServiceUser:        userRef(m.ServiceUser),
	}
}

// publicMachineResponse is what anonymous callers learn about a machine.
type publicMachineResponse struct {
	Model              string `json:"model"`
	SerialNumber       string `json:"serial_number"`
	EngineModel        string `json:"engine_model"`
	EngineSerial       string `json:"engine_serial"`
	TransmissionModel  string `json:"transmission_model"`
	TransmissionSerial string `json:"transmission_serial"`
	DriveAxleModel     string `json:"drive_axle_model"`
	DriveAxleSerial    string `json:"drive_axle_serial"`
	SteerAxleModel     string `json:"steer_axle_model"`
	SteerAxleSerial    string `json:"steer_axle_serial"`
}

func name(d *model.Directory) string {
	if d == nil {
		return ""
	}
	return d.Name
}

func newPublicMachineResponse(m *model.Machine) publicMachineResponse {
	return publicMachineResponse{
		Model:              name(m.MachineModel),
		SerialNumber:       m.SerialNumber,
		EngineModel:        name(m.EngineModel),
		EngineSerial:       m.EngineSerial,
		TransmissionModel:  name(m.TransmissionModel),
		TransmissionSerial: m.TransmissionSerial,
		DriveAxleModel:     name(m.DriveAxleModel),
		DriveAxleSerial:    m.DriveAxleSerial,
		SteerAxleModel:     name(m.SteerAxleModel),
		SteerAxleSerial:    m.SteerAxleSerial,
	}
}

type maintenanceResponse struct {
	ID              int64        `json:"id"`
	Machine         *refResponse `json:"machine"`
	MaintenanceType *refResponse `json:"maintenance_type"`
	Date            string       `json:"date"`
	OperatingTime   int          `json:"operating_time"`
	OrderNumber     string       `json:"order_number"`
	OrderDate       string       `json:"order_date"`
	ServiceCompany  *refResponse `json:"service_company"`
}

func newMaintenanceResponse(m *model.Maintenance) maintenanceResponse {
	return maintenanceResponse{
		ID:              m.ID,
		Machine:         machineRef(m.Machine),
		MaintenanceType: directoryRef(m.MaintenanceType),
		Date:            date(m.Date),
		OperatingTime:   m.OperatingTime,
		OrderNumber:     m.OrderNumber,
		OrderDate:       date(m.OrderDate),
		ServiceCompany:  directoryRef(m.ServiceCompany),
	}
}

type claimResponse struct {
	ID                 int64        `json:"id"`
	Machine            *refResponse `json:"machine"`
	FailureDate        string       `json:"failure_date"`
	OperatingTime      int          `json:"operating_time"`
	FailedUnit         *refResponse `json:"failed_unit"`
	FailureDescription string       `json:"failure_description"`
	RecoveryMethod     *refResponse `json:"recovery_method"`
	UsedParts          string       `json:"used_parts"`
	RecoveryDate       string       `json:"recovery_date"`
	Downtime           int          `json:"downtime"`
	ServiceCompany     *refResponse `json:"service_company"`
}

func newClaimResponse(c *model.Claim) claimResponse {
	return claimResponse{
		ID:                 c.ID,
		Machine:            machineRef(c.Machine),
		FailureDate:        date(c.FailureDate),
		OperatingTime:      c.OperatingTime,
		FailedUnit:         directoryRef(c.FailedUnit),
		FailureDescription: c.FailureDescription,
		RecoveryMethod:     directoryRef(c.RecoveryMethod),
		UsedParts:          c.UsedParts,
		RecoveryDate:       date(c.RecoveryDate),
		Downtime:           c.Downtime,
		ServiceCompany:     directoryRef(c.ServiceCompany),
	}
}

type directoryResponse struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newDirectoryResponse(d *model.Directory) directoryResponse {
	return directoryResponse{ID: d.ID, Category: d.Category, Name: d.Name, Description: d.Description}
}

type userResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
		Role:        string(u.Role),
	}
}

// defaultsResponse is the initial value of the service company field in a
// new record form. Locked means the server will overwrite whatever is sent.
type defaultsResponse struct {
	ServiceCompany *refResponse `json:"service_company"`
	Locked         bool         `json:"locked"`
}

func newDefaultsResponse(r defaults.Resolution) defaultsResponse {
	return defaultsResponse{ServiceCompany: directoryRef(r.ServiceCompany), Locked: r.Locked}
}

// mapAll converts a slice of rows. It never returns nil so empty lists
// render as [].
func mapAll[T any, R any](rows []T, conv func(*T) R) []R {
	out := make([]R, 0, len(rows))
	for i := range rows {
		out = append(out, conv(&rows[i]))
	}
	return out
}
