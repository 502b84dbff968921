package repo

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"Firebox/internal/calc/heater"
	"Firebox/internal/calc/psychro"

	"github.com/ansel1/merry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSSLMode(t *testing.T) {
	tests := []struct{ in, want string }{
		{"postgres://u:p@db/heater", "postgres://u:p@db/heater?sslmode=require"},
		{"postgres://u:p@db/heater?connect_timeout=5", "postgres://u:p@db/heater?connect_timeout=5&sslmode=require"},
		{"user=u dbname=heater", "user=u dbname=heater sslmode=require"},
		{"user=u sslmode=disable", "user=u sslmode=disable"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withSSLMode(tt.in))
	}
}

type rowFunc func(dest ...interface{}) error

func (f rowFunc) Scan(dest ...interface{}) error { return f(dest...) }

func TestScanRun(t *testing.T) {
	res, err := heater.Calculate(heater.Defaults(), psychro.Fixed(3500))
	require.NoError(t, err)
	body, err := json.Marshal(res)
	require.NoError(t, err)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	run, err := scanRun(rowFunc(func(dest ...interface{}) error {
		*dest[0].(*int) = 7
		*dest[1].(*time.Time) = created
		*dest[2].(*float64) = res.NetEfficiency
		*dest[3].(*float64) = res.GrossEfficiency
		*dest[4].(*float64) = res.FuelEfficiency
		*dest[5].(*[]byte) = body
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, 7, run.ID)
	assert.Equal(t, created, run.CreatedAt)
	assert.Equal(t, res.Output.Useful, run.Result.Output.Useful)
	assert.Equal(t, res.Rows(), run.Result.Rows())

	_, err = scanRun(rowFunc(func(...interface{}) error { return sql.ErrNoRows }))
	assert.True(t, merry.Is(err, sql.ErrNoRows))
}
