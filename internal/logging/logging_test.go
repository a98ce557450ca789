package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBHandlerPersistsErrorsOnly(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewDBHandler(db, time.Hour)
	defer h.Stop()

	logger := slog.New(h).With("request_id", "req-1")
	logger.Info("ignored")
	logger.Error("lead to project conversion partially failed",
		"user_id", "u-1",
		"action", "lead_to_project",
		"entity", "leads",
		"error", "boom",
		"source_id", "abc",
	)
	h.Flush()

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "req-1", row.RequestID)
	require.NotNil(t, row.UserID)
	assert.Equal(t, "u-1", *row.UserID)
	assert.Equal(t, "lead_to_project", row.Action)
	assert.Equal(t, "leads", row.Entity)
	assert.Equal(t, "boom", row.Error)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(row.Extra, &extra))
	assert.Equal(t, "abc", extra["source_id"])
}

func TestDBHandlerStopFlushes(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewDBHandler(db, time.Hour)

	require.NoError(t, h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "x", 0)))
	h.Stop()
	h.Stop()

	assert.Eventually(t, func() bool {
		var n int64
		db.Model(&models.SystemLog{}).Count(&n)
		return n == 1
	}, time.Second, 10*time.Millisecond)
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := NewMultiHandler(NewJSONHandler(&a), slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logger := slog.New(m)

	logger.Info("info only")
	logger.Warn("both")

	assert.Contains(t, a.String(), "info only")
	assert.Contains(t, a.String(), "both")
	assert.NotContains(t, b.String(), "info only")
	assert.Contains(t, b.String(), "both")
}

func TestPurgeBefore(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{ID: uuid.New(), Timestamp: now.AddDate(0, 0, -40), Level: "ERROR"},
		{ID: uuid.New(), Timestamp: now.AddDate(0, 0, -1), Level: "ERROR"},
	}).Error)

	n, err := PurgeBefore(db, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var left int64
	db.Model(&models.SystemLog{}).Count(&left)
	assert.Equal(t, int64(1), left)
}
