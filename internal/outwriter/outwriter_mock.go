package outwriter

import (
	"time"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockReportWriter is a mock implementation of ReportWriter for testing.
type MockReportWriter struct {
	mock.Mock
}

var _ contract.ReportWriter = &MockReportWriter{} // Compile-time check

// WriteReport implements the ReportWriter interface.
func (m *MockReportWriter) WriteReport(report schema.Report, cfg *contract.Config) error {
	args := m.Called(report, cfg)
	return args.Error(0)
}

// WriteHistory implements the ReportWriter interface.
func (m *MockReportWriter) WriteHistory(daily []schema.Snapshot, cfg *contract.Config) error {
	args := m.Called(daily, cfg)
	return args.Error(0)
}

// WriteHistoryStatus implements the ReportWriter interface.
func (m *MockReportWriter) WriteHistoryStatus(status schema.HistoryStatus) {
	m.Called(status)
}

// WriteDashboard implements the ReportWriter interface.
func (m *MockReportWriter) WriteDashboard(daily []schema.Snapshot, cfg *contract.Config, now time.Time) (string, error) {
	args := m.Called(daily, cfg, now)
	return args.String(0), args.Error(1)
}
