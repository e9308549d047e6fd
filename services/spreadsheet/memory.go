package sheetsvc

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
)

// Memory is an in-memory spreadsheet, for tests and local runs without credentials.
// Fail* errors, when set, are returned by the matching operation.
type Memory struct {
	mu    sync.RWMutex
	order []string
	tabs  map[string][][]interface{}

	FailList   error
	FailCreate error
	FailClear  error
	FailWrite  error
	FailResize error
	FailRead   error

	Resized map[string]int // tab => resized column count
}

var _ core.Spreadsheet = (*Memory)(nil)

func NewMemory(tabs ...string) *Memory {
	m := &Memory{tabs: make(map[string][][]interface{}), Resized: make(map[string]int)}
	for _, t := range tabs {
		m.addTab(t)
	}
	return m
}

func (m *Memory) addTab(title string) {
	if _, ok := m.tabs[title]; !ok {
		m.order = append(m.order, title)
		m.tabs[title] = nil
	}
}

// Seed replaces the content of a tab, creating it if needed.
func (m *Memory) Seed(title string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addTab(title)
	grid := make([][]interface{}, len(rows))
	for i, r := range rows {
		grid[i] = make([]interface{}, len(r))
		for j, c := range r {
			grid[i][j] = c
		}
	}
	m.tabs[title] = grid
}

// Rows returns the formatted content of a tab.
func (m *Memory) Rows(title string) [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grid(title)
}

func (m *Memory) grid(title string) [][]string {
	rows := make([][]string, len(m.tabs[title]))
	for i, r := range m.tabs[title] {
		rows[i] = make([]string, len(r))
		for j, v := range r {
			rows[i][j] = formatValue(v)
		}
	}
	return rows
}

func (m *Memory) ListTabs(context.Context) ([]string, error) {
	if m.FailList != nil {
		return nil, m.FailList
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...), nil
}

func (m *Memory) CreateTab(_ context.Context, title string) error {
	if m.FailCreate != nil {
		return m.FailCreate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tabs[title]; ok {
		return errors.Errorf("tab %q already exists", title)
	}
	m.addTab(title)
	return nil
}

func (m *Memory) ClearTab(_ context.Context, title string) error {
	if m.FailClear != nil {
		return m.FailClear
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tabs[title]; !ok {
		return errors.Errorf("tab %q not found", title)
	}
	m.tabs[title] = nil
	return nil
}

func (m *Memory) WriteRange(_ context.Context, a1Range string, values [][]interface{}) error {
	if m.FailWrite != nil {
		return m.FailWrite
	}
	title, sp, err := parseRange(a1Range)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	grid, ok := m.tabs[title]
	if !ok {
		return errors.Errorf("tab %q not found", title)
	}
	for i, vals := range values {
		r := sp.startRow - 1 + i
		for len(grid) <= r {
			grid = append(grid, nil)
		}
		for j, v := range vals {
			c := sp.startCol - 1 + j
			for len(grid[r]) <= c {
				grid[r] = append(grid[r], nil)
			}
			grid[r][c] = v
		}
	}
	m.tabs[title] = grid
	return nil
}

func (m *Memory) ResizeColumns(_ context.Context, title string, count int) error {
	if m.FailResize != nil {
		return m.FailResize
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Resized[title] = count
	return nil
}

func (m *Memory) ReadRange(_ context.Context, a1Range string) ([][]string, error) {
	if m.FailRead != nil {
		return nil, m.FailRead
	}
	title, sp, err := parseRange(a1Range)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.tabs[title]; !ok {
		return nil, errors.Errorf("tab %q not found", title)
	}
	return sp.cut(m.grid(title)), nil
}
