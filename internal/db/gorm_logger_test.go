package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestLogger(buf *bytes.Buffer, slow time.Duration) *GormLogger {
	l := NewGormLogger(slow)
	l.log = zerolog.New(buf)
	return l
}

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return `SELECT * FROM "School"`, 3 }

	t.Run("error is logged", func(t *testing.T) {
		var buf bytes.Buffer
		l := newTestLogger(&buf, time.Second)
		l.Trace(context.Background(), time.Now(), query, errors.New("boom"))
		assert.Contains(t, buf.String(), "query failed")
		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		var buf bytes.Buffer
		l := newTestLogger(&buf, time.Second)
		l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("slow query is logged", func(t *testing.T) {
		var buf bytes.Buffer
		l := newTestLogger(&buf, time.Millisecond)
		l.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)
		assert.Contains(t, buf.String(), "slow query")
	})

	t.Run("silent mode", func(t *testing.T) {
		var buf bytes.Buffer
		l := newTestLogger(&buf, time.Millisecond).LogMode(gormlogger.Silent)
		l.Trace(context.Background(), time.Now().Add(-time.Second), query, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}

func TestGormLogger_LogModeDoesNotMutateReceiver(t *testing.T) {
	l := NewGormLogger(0)
	assert.Equal(t, 200*time.Millisecond, l.SlowThreshold)

	_ = l.LogMode(gormlogger.Info)
	assert.Equal(t, gormlogger.Warn, l.LogLevel)
}
