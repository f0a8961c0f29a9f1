package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"silant-backend/internal/access"
	"silant-backend/internal/listing"
	"silant-backend/internal/model"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// Store defines the interface for all database operations. List methods
// apply the visibility before the query's filters.
type Store interface {
	Ping(ctx context.Context) error

	ListDirectories(ctx context.Context, vis access.Visibility, q listing.Query) ([]model.Directory, error)
	GetDirectory(ctx context.Context, id int64) (*model.Directory, error)
	// FindDirectory returns the oldest row with the given category and name,
	// or nil when there is none.
	FindDirectory(ctx context.Context, category, name string) (*model.Directory, error)
	CreateDirectory(ctx context.Context, d *model.Directory) error
	UpdateDirectory(ctx context.Context, d *model.Directory) error
	// DeleteDirectory clears every reference to the row, then deletes it.
	DeleteDirectory(ctx context.Context, id int64) error

	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// ListUsers lists users with the given role, or all users when role is empty.
	ListUsers(ctx context.Context, role model.Role) ([]model.User, error)
	CreateUser(ctx context.Context, u *model.User) error

	ListMachines(ctx context.Context, vis access.Visibility, q listing.Query) ([]model.Machine, error)
	GetMachine(ctx context.Context, id int64) (*model.Machine, error)
	GetMachineBySerial(ctx context.Context, serial string) (*model.Machine, error)
	SerialNumberTaken(ctx context.Context, serial string, excludeID int64) (bool, error)
	CreateMachine(ctx context.Context, m *model.Machine) error
	UpdateMachine(ctx context.Context, m *model.Machine) error
	// DeleteMachine deletes the machine with its maintenance and claims.
	DeleteMachine(ctx context.Context, id int64) error

	ListMaintenances(ctx context.Context, vis access.Visibility, q listing.Query) ([]model.Maintenance, error)
	GetMaintenance(ctx context.Context, id int64) (*model.Maintenance, error)
	CreateMaintenance(ctx context.Context, m *model.Maintenance) error
	UpdateMaintenance(ctx context.Context, m *model.Maintenance) error
	DeleteMaintenance(ctx context.Context, id int64) error

	ListClaims(ctx context.Context, vis access.Visibility, q listing.Query) ([]model.Claim, error)
	GetClaim(ctx context.Context, id int64) (*model.Claim, error)
	CreateClaim(ctx context.Context, c *model.Claim) error
	UpdateClaim(ctx context.Context, c *model.Claim) error
	DeleteClaim(ctx context.Context, id int64) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// visibleMachines restricts a query to the machines vis allows. The query
// must have the machines table in scope.
func visibleMachines(vis access.Visibility) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch vis.Kind {
		case access.VisibleAll:
			return db
		case access.VisibleClientOwned:
			return db.Where("machines.client_user_id = ?", vis.UserID)
		case access.VisibleServiceOwned:
			return db.Where("machines.service_user_id = ?", vis.UserID)
		default:
			return db.Where("1 = 0")
		}
	}
}

func preload(db *gorm.DB, associations []string) *gorm.DB {
	for _, a := range associations {
		db = db.Preload(a)
	}
	return db
}

// first loads one row by primary key into dest.
func first(db *gorm.DB, dest any, id int64, what string) error {
	err := db.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s %d: %w", what, id, err)
	}
	return nil
}

// writeErr wraps a write failure, translating unique violations.
func writeErr(err error, op, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to %s %s: %w", op, what, ErrDuplicate)
	}
	return fmt.Errorf("failed to %s %s: %w", op, what, err)
}

// deleteByID deletes one row and reports ErrNotFound when nothing matched.
func deleteByID(tx *gorm.DB, value any, id int64, what string) error {
	res := tx.Delete(value, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s %d: %w", what, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
