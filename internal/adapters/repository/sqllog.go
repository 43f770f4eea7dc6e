package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/okian/skillsync/pkg/logger"
)

const slowQueryThreshold = time.Second

// sqlLogger routes gorm's messages through the service logger so SQL
// warnings carry the request id and component of the calling context.
type sqlLogger struct {
	log   logger.Logger
	level gormLogger.LogLevel
	slow  time.Duration
}

var _ gormLogger.Interface = (*sqlLogger)(nil)

func newSQLLogger(l logger.Logger) *sqlLogger {
	return &sqlLogger{log: l, level: gormLogger.Warn, slow: slowQueryThreshold}
}

func (s *sqlLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	c := *s
	c.level = level
	return &c
}

func (s *sqlLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if s.level >= gormLogger.Info {
		s.log.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (s *sqlLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if s.level >= gormLogger.Warn {
		s.log.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (s *sqlLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if s.level >= gormLogger.Error {
		s.log.Error(ctx, fmt.Sprintf(msg, args...))
	}
}

// Trace reports failed and slow statements. Record-not-found is expected
// on lookups and is never logged.
func (s *sqlLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if s.level <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && s.level >= gormLogger.Error:
		query, rows := fc()
		s.log.Error(ctx, "sql statement failed",
			logger.String("sql", query),
			logger.Any("rows", rows),
			logger.Duration("elapsed", elapsed),
			logger.Error(err),
		)
	case elapsed > s.slow && s.level >= gormLogger.Warn:
		query, rows := fc()
		s.log.Warn(ctx, "slow sql statement",
			logger.String("sql", query),
			logger.Any("rows", rows),
			logger.Duration("elapsed", elapsed),
			logger.Duration("threshold", s.slow),
		)
	case s.level >= gormLogger.Info:
		query, rows := fc()
		s.log.Debug(ctx, "sql statement",
			logger.String("sql", query),
			logger.Any("rows", rows),
			logger.Duration("elapsed", elapsed),
		)
	}
}
