package store

import (
	"context"
	"sync/atomic"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/util/scoreline"
)

// Memory keeps the table in process. Tables are immutable so a pointer swap is enough.
type Memory struct {
	table atomic.Pointer[scoreline.StrengthTable]
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(context.Context) (*scoreline.StrengthTable, error) {
	if t := m.table.Load(); t != nil {
		return t, nil
	}
	return nil, scoreline.ErrNoStrengths
}

func (m *Memory) Put(_ context.Context, table *scoreline.StrengthTable) error {
	m.table.Store(table)
	return nil
}

func (m *Memory) Close() error { return nil }
