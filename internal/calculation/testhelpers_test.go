package calculation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rgehrsitz/gbrtax/internal/config"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func loadTable(t *testing.T, name string) *domain.TaxTable {
	t.Helper()
	table, err := config.LoadTaxTable(name)
	require.NoError(t, err)
	return table
}

func newCalculator(t *testing.T, name string) *TaxCalculator {
	t.Helper()
	return NewTaxCalculator(loadTable(t, name))
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// recordingLogger keeps formatted messages per level
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	debug []string
}

func (l *recordingLogger) Debugf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Infof(string, ...interface{})  {}
func (l *recordingLogger) Errorf(string, ...interface{}) {}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}
