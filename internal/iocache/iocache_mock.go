package iocache

import (
	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// FindToday implements the SnapshotStore interface.
func (m *MockSnapshotStore) FindToday(label string) (schema.Snapshot, bool, error) {
	args := m.Called(label)
	snap, _ := args.Get(0).(schema.Snapshot)
	return snap, args.Bool(1), args.Error(2)
}

// Save implements the SnapshotStore interface.
func (m *MockSnapshotStore) Save(snapshot schema.Snapshot) (string, error) {
	args := m.Called(snapshot)
	return args.String(0), args.Error(1)
}

// LoadAll implements the SnapshotStore interface.
func (m *MockSnapshotStore) LoadAll() ([]schema.Snapshot, error) {
	args := m.Called()
	snaps, _ := args.Get(0).([]schema.Snapshot)
	return snaps, args.Error(1)
}

// Daily implements the SnapshotStore interface.
func (m *MockSnapshotStore) Daily() ([]schema.Snapshot, error) {
	args := m.Called()
	snaps, _ := args.Get(0).([]schema.Snapshot)
	return snaps, args.Error(1)
}

// Recent implements the SnapshotStore interface.
func (m *MockSnapshotStore) Recent(days int) ([]schema.Snapshot, error) {
	args := m.Called(days)
	snaps, _ := args.Get(0).([]schema.Snapshot)
	return snaps, args.Error(1)
}

// Status implements the SnapshotStore interface.
func (m *MockSnapshotStore) Status() (schema.HistoryStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.HistoryStatus)
	return status, args.Error(1)
}
