package db

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
)

func TestOpenGormWithDialector(t *testing.T) {
	cases := []struct {
		name    string
		pingErr error
	}{
		{name: "connects"},
		{name: "ping fails", pingErr: errors.New("no ping")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer sqlDB.Close()

			// gorm.Open pings once itself; a failed ping stops there
			if tc.pingErr != nil {
				mock.ExpectPing().WillReturnError(tc.pingErr)
			} else {
				mock.ExpectPing()
				mock.ExpectPing()
			}

			dial := mysql.New(mysql.Config{
				Conn:                      sqlDB,
				SkipInitializeWithVersion: true, // don't query @@version
			})
			gdb, err := OpenGormWithDialector(dial)
			if tc.pingErr != nil {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				pool, err := gdb.DB()
				require.NoError(t, err)
				assert.Equal(t, 30, pool.Stats().MaxOpenConnections)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
