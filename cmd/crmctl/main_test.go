package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/testutil"
)

func run(t *testing.T, db *gorm.DB, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(func() (*gorm.DB, error) { return db, nil })
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	db := testutil.NewDB(t)
	out, err := run(t, db, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated 7 tables")
}

func TestGrantRole(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.Profile{ID: uuid.New(), Email: "ann@example.com", Role: models.RoleUser}).Error)

	out, err := run(t, db, "grant-role", "--email", "ann@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "ann@example.com is now super_admin")

	_, err = run(t, db, "grant-role", "--email", "ann@example.com", "--role", "owner")
	assert.ErrorIs(t, err, services.ErrInvalidRole)

	_, err = run(t, db, "grant-role", "--email", "nobody@example.com")
	assert.ErrorIs(t, err, services.ErrProfileNotFound)

	_, err = run(t, db, "grant-role")
	assert.Error(t, err, "--email is required")
}

func TestPurgeLogs(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.SystemLog{ID: uuid.New(), Timestamp: time.Now().AddDate(0, 0, -10), Level: "ERROR"}).Error)

	out, err := run(t, db, "purge-logs", "--days", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 0 log rows")

	out, err = run(t, db, "purge-logs", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 1 log rows")

	_, err = run(t, db, "purge-logs", "--days", "0")
	assert.Error(t, err)
}
