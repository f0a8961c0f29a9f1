package defaults

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"silant-backend/internal/access"
	"silant-backend/internal/model"
)

type fakeLookup struct {
	rows  []model.Directory
	err   error
	calls int
}

func (f *fakeLookup) FindDirectory(_ context.Context, category, name string) (*model.Directory, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.rows {
		if f.rows[i].Category == category && f.rows[i].Name == name {
			return &f.rows[i], nil
		}
	}
	return nil, nil
}

func directories() []model.Directory {
	return []model.Directory{
		{ID: 10, Category: model.CategoryServiceCompany, Name: "Acme Service"},
		{ID: 11, Category: model.CategoryServiceCompany, Name: model.SelfServiceCompany},
		{ID: 12, Category: model.CategoryFailureUnit, Name: "Beta Repair"},
		{ID: 13, Category: model.CategoryServiceCompany, Name: "Beta Repair"},
	}
}

func ptr(v int64) *int64 { return &v }

func TestResolver_Resolve(t *testing.T) {
	serviceUser := &model.User{ID: 2, Username: "beta", FirstName: "Beta", LastName: "Repair", Role: model.RoleService}
	machine := &model.Machine{ID: 1, ServiceUserID: ptr(2), ServiceUser: serviceUser}

	testCases := []struct {
		name      string
		actor     access.Actor
		rec       Record
		machine   *model.Machine
		submitted *int64
		want      *int64
		locked    bool
	}{
		{
			name:      "service actor forced to own company",
			actor:     access.ActorFor(&model.User{ID: 2, Username: "svc", FirstName: "Acme", LastName: "Service", Role: model.RoleService}),
			rec:       RecordMaintenance,
			submitted: ptr(99),
			want:      ptr(10),
			locked:    true,
		},
		{
			name:      "service actor on claim",
			actor:     access.ActorFor(&model.User{ID: 2, Username: "svc", FirstName: "Acme", LastName: "Service", Role: model.RoleService}),
			rec:       RecordClaim,
			machine:   machine,
			submitted: nil,
			want:      ptr(10),
			locked:    true,
		},
		{
			name:      "service actor without matching company passes through",
			actor:     access.ActorFor(&model.User{ID: 3, Username: "nobody", Role: model.RoleService}),
			rec:       RecordMaintenance,
			submitted: ptr(42),
			want:      ptr(42),
		},
		{
			name:      "client maintenance is self performed",
			actor:     access.ActorFor(&model.User{ID: 1, Username: "client", Role: model.RoleClient}),
			rec:       RecordMaintenance,
			submitted: ptr(10),
			want:      ptr(11),
			locked:    true,
		},
		{
			name:      "client claim uses machine service user",
			actor:     access.ActorFor(&model.User{ID: 1, Username: "client", Role: model.RoleClient}),
			rec:       RecordClaim,
			machine:   machine,
			submitted: nil,
			want:      ptr(13),
			locked:    true,
		},
		{
			name:      "client claim without service user passes through",
			actor:     access.ActorFor(&model.User{ID: 1, Username: "client", Role: model.RoleClient}),
			rec:       RecordClaim,
			machine:   &model.Machine{ID: 1},
			submitted: ptr(10),
			want:      ptr(10),
		},
		{
			name:      "manager keeps submitted value",
			actor:     access.ActorFor(&model.User{ID: 5, Username: "boss", Role: model.RoleManager}),
			rec:       RecordMaintenance,
			submitted: ptr(13),
			want:      ptr(13),
		},
		{
			name:      "manager may leave it empty",
			actor:     access.ActorFor(&model.User{ID: 5, Username: "boss", Role: model.RoleManager}),
			rec:       RecordClaim,
			submitted: nil,
			want:      nil,
		},
		{
			name:      "anonymous gets nothing",
			actor:     access.Anonymous(),
			rec:       RecordMaintenance,
			submitted: ptr(13),
			want:      ptr(13),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver(&fakeLookup{rows: directories()}, zap.NewNop())

			res, err := r.Resolve(context.Background(), tc.actor, tc.rec, tc.machine)
			require.NoError(t, err)
			assert.Equal(t, tc.locked, res.Locked)
			assert.Equal(t, tc.want, res.Apply(tc.submitted))
		})
	}
}

func TestResolver_Idempotent(t *testing.T) {
	r := NewResolver(&fakeLookup{rows: directories()}, zap.NewNop())
	svc := access.ActorFor(&model.User{ID: 2, Username: "svc", FirstName: "Acme", LastName: "Service", Role: model.RoleService})

	first, err := r.Resolve(context.Background(), svc, RecordMaintenance, nil)
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), svc, RecordMaintenance, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Submitting the locked value gives the same result as submitting nothing.
	assert.Equal(t, first.Apply(nil), first.Apply(ptr(10)))
	assert.Equal(t, first.Apply(nil), first.Apply(ptr(77)))
}

func TestResolver_LogsLookupMiss(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewResolver(&fakeLookup{}, zap.New(core))
	svc := access.ActorFor(&model.User{ID: 3, Username: "ghost", Role: model.RoleService})

	res, err := r.Resolve(context.Background(), svc, RecordClaim, nil)
	require.NoError(t, err)
	assert.False(t, res.Locked)
	assert.Equal(t, "ghost", res.LookupName)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ghost", entries[0].ContextMap()["name"])
	assert.Equal(t, "claim", entries[0].ContextMap()["record"])
}

func TestResolver_LookupError(t *testing.T) {
	boom := errors.New("db down")
	r := NewResolver(&fakeLookup{err: boom}, zap.NewNop())
	svc := access.ActorFor(&model.User{ID: 2, Username: "svc", Role: model.RoleService})

	_, err := r.Resolve(context.Background(), svc, RecordMaintenance, nil)
	assert.ErrorIs(t, err, boom)
}

func TestResolver_NoLookupWithoutRule(t *testing.T) {
	lookup := &fakeLookup{rows: directories()}
	r := NewResolver(lookup, zap.NewNop())
	manager := access.ActorFor(&model.User{ID: 5, Username: "boss", Role: model.RoleManager})

	_, err := r.Resolve(context.Background(), manager, RecordClaim, nil)
	require.NoError(t, err)
	assert.Zero(t, lookup.calls)
}
