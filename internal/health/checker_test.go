package health

import (
	"context"
	"errors"
	"testing"

	"github.com/Ayash-Bera/kuna/backend/internal/database"
	"github.com/Ayash-Bera/kuna/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	db    error
	redis error
}

func (f fakePinger) PingDatabase(context.Context) error { return f.db }
func (f fakePinger) PingRedis(context.Context) error    { return f.redis }

func TestCheckAll(t *testing.T) {
	cases := []struct {
		name     string
		pinger   fakePinger
		overall  string
		database string
		redis    string
	}{
		{"all up", fakePinger{}, StatusHealthy, StatusHealthy, StatusHealthy},
		{"redis disabled", fakePinger{redis: database.ErrRedisDisabled}, StatusHealthy, StatusHealthy, StatusDisabled},
		{"redis down", fakePinger{redis: errors.New("refused")}, StatusDegraded, StatusHealthy, StatusUnhealthy},
		{"database down", fakePinger{db: errors.New("refused")}, StatusUnhealthy, StatusUnhealthy, StatusHealthy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthChecker(tc.pinger, testutil.Logger(t))
			got := h.CheckAll(context.Background())

			assert.Equal(t, tc.overall, got.Status)
			assert.Equal(t, ServiceName, got.Service)
			assert.Equal(t, Version, got.Version)
			assert.NotEmpty(t, got.Timestamp)
			assert.Equal(t, tc.database, got.Services["database"])
			assert.Equal(t, tc.redis, got.Services["redis"])
		})
	}
}
