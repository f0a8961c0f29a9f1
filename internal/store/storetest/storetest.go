// Package storetest provides an in-memory SQLite store and a seeded fleet
// for tests.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"silant-backend/config"
	"silant-backend/internal/db"
	"silant-backend/internal/model"
	"silant-backend/internal/store"
)

// Password is the password of every seeded user.
const Password = "password123"

// New returns a store backed by a fresh in-memory database named after
// the test.
func New(t *testing.T) (store.Store, *gorm.DB) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	gormDB, err := db.Open(config.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gormDB))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return store.NewGormStore(gormDB), gormDB
}

// Day parses a YYYY-MM-DD date.
func Day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// Fleet is the seeded data set.
//
// MachineA belongs to Client1 and is serviced by Service1, MachineB belongs
// to Client2 and is serviced by Service2, MachineC has no users.
type Fleet struct {
	Manager, Client1, Client2, Service1, Service2, Guest *model.User

	ModelD160, ModelD180, Engine, Transmission, DriveAxle, SteerAxle *model.Directory
	TypeTO1, TypeTO2, FailedEngine, Replacement                     *model.Directory
	// AcmeService matches Service1's display name, SelfPerformed is the
	// sentinel company. Service2 (display name "svc2") has no company.
	AcmeService, SelfPerformed, OtherCo *model.Directory

	MachineA, MachineB, MachineC *model.Machine

	MaintenanceA, MaintenanceB *model.Maintenance
	ClaimA, ClaimB             *model.Claim
}

// Seed fills s with a Fleet.
func Seed(t *testing.T, s store.Store) *Fleet {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := func(username, first, last string, role model.Role) *model.User {
		u := &model.User{Username: username, FirstName: first, LastName: last, Role: role, PasswordHash: string(hash)}
		require.NoError(t, s.CreateUser(ctx, u))
		return u
	}
	dir := func(category, name string) *model.Directory {
		d := &model.Directory{Category: category, Name: name}
		require.NoError(t, s.CreateDirectory(ctx, d))
		return d
	}

	f := &Fleet{
		Manager:  user("boss", "Mary", "Manager", model.RoleManager),
		Client1:  user("client1", "Alpha", "Farms", model.RoleClient),
		Client2:  user("client2", "", "", model.RoleClient),
		Service1: user("svc1", "Acme", "Service", model.RoleService),
		Service2: user("svc2", "", "", model.RoleService),
		Guest:    user("guest", "", "", model.RoleGuest),

		ModelD160:     dir(model.CategoryMachineModel, "D160"),
		ModelD180:     dir(model.CategoryMachineModel, "D180"),
		Engine:        dir(model.CategoryEngineModel, "YMZ-236"),
		Transmission:  dir(model.CategoryTransmissionModel, "T10"),
		DriveAxle:     dir(model.CategoryDriveAxleModel, "DA-1"),
		SteerAxle:     dir(model.CategorySteerAxleModel, "SA-1"),
		TypeTO1:       dir(model.CategoryMaintenanceType, "TO-1"),
		TypeTO2:       dir(model.CategoryMaintenanceType, "TO-2"),
		FailedEngine:  dir(model.CategoryFailureUnit, "Engine"),
		Replacement:   dir(model.CategoryRecoveryMethod, "Replacement"),
		AcmeService:   dir(model.CategoryServiceCompany, "Acme Service"),
		SelfPerformed: dir(model.CategoryServiceCompany, model.SelfServiceCompany),
		OtherCo:       dir(model.CategoryServiceCompany, "Other Co"),
	}

	machine := func(serial string, m *model.Directory, shipped string, client, service *model.User) *model.Machine {
		mc := &model.Machine{
			SerialNumber:        serial,
			MachineModelID:      &m.ID,
			EngineModelID:       &f.Engine.ID,
			EngineSerial:        "E" + serial,
			TransmissionModelID: &f.Transmission.ID,
			TransmissionSerial:  "T" + serial,
			DriveAxleModelID:    &f.DriveAxle.ID,
			DriveAxleSerial:     "D" + serial,
			SteerAxleModelID:    &f.SteerAxle.ID,
			SteerAxleSerial:     "S" + serial,
			Contract:            "C-" + serial,
			ShipmentDate:        Day(t, shipped),
			Client:              "Client of " + serial,
			Consignee:           "Consignee of " + serial,
			DeliveryAddress:     "Depot " + serial,
			Equipment:           "standard",
		}
		if client != nil {
			mc.ClientUserID = &client.ID
		}
		if service != nil {
			mc.ServiceUserID = &service.ID
		}
		require.NoError(t, s.CreateMachine(ctx, mc))
		return mc
	}
	f.MachineA = machine("0001", f.ModelD160, "2023-05-01", f.Client1, f.Service1)
	f.MachineB = machine("0002", f.ModelD180, "2023-06-01", f.Client2, f.Service2)
	f.MachineC = machine("0003", f.ModelD160, "2022-01-01", nil, nil)

	maintenance := func(mc *model.Machine, typ, company *model.Directory, date string) *model.Maintenance {
		m := &model.Maintenance{
			MachineID:         mc.ID,
			MaintenanceTypeID: &typ.ID,
			Date:              Day(t, date),
			OperatingTime:     100,
			OrderNumber:       "ORD-" + mc.SerialNumber,
			OrderDate:         Day(t, date),
			ServiceCompanyID:  &company.ID,
		}
		require.NoError(t, s.CreateMaintenance(ctx, m))
		return m
	}
	f.MaintenanceA = maintenance(f.MachineA, f.TypeTO1, f.AcmeService, "2024-01-10")
	f.MaintenanceB = maintenance(f.MachineB, f.TypeTO2, f.OtherCo, "2024-02-10")

	claim := func(mc *model.Machine, company *model.Directory, failed, recovered string) *model.Claim {
		c := &model.Claim{
			MachineID:          mc.ID,
			FailureDate:        Day(t, failed),
			OperatingTime:      250,
			FailedUnitID:       &f.FailedEngine.ID,
			FailureDescription: "engine stalls",
			RecoveryMethodID:   &f.Replacement.ID,
			UsedParts:          "gasket",
			RecoveryDate:       Day(t, recovered),
			Downtime:           model.DowntimeDays(Day(t, failed), Day(t, recovered)),
			ServiceCompanyID:   &company.ID,
		}
		require.NoError(t, s.CreateClaim(ctx, c))
		return c
	}
	f.ClaimA = claim(f.MachineA, f.AcmeService, "2024-03-01", "2024-03-05")
	f.ClaimB = claim(f.MachineB, f.OtherCo, "2024-04-01", "2024-04-02")

	return f
}
