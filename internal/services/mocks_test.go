package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fundview/internal/dataset"
	"fundview/pkg/contracts/domain"
)

// MockTableSource is a mock for the TableSource interface
type MockTableSource struct {
	mock.Mock
}

func (m *MockTableSource) Table(ctx context.Context) (*domain.FundraisingTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FundraisingTable), args.Error(1)
}

func (m *MockTableSource) Status() dataset.Status {
	args := m.Called()
	return args.Get(0).(dataset.Status)
}

// MockClientCounter is a mock for the ClientCounter interface
type MockClientCounter struct {
	mock.Mock
}

func (m *MockClientCounter) ClientCount() int {
	return m.Called().Int(0)
}

func f64(v float64) *float64 { return &v }

func sampleTable() *domain.FundraisingTable {
	return &domain.FundraisingTable{
		Rows: []domain.FundraisingRow{
			{Year: 2006, NumberOfFunds: f64(10), AmountClosed: f64(1234), AverageFundSize: f64(123.4)},
			{Year: 2007, NumberOfFunds: f64(15), AmountClosed: f64(2000), AverageFundSize: f64(133.3)},
		},
		Strategy: domain.MappingExact,
	}
}
