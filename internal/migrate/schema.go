package migrate

import (
	"context"
	"database/sql"

	"povertymap/internal/logger"
)

// Statements：统计表结构；IF NOT EXISTS 保证可重复执行
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS _dash_stats_total (
        id INT PRIMARY KEY,
        submits BIGINT NOT NULL DEFAULT 0,
        selects BIGINT NOT NULL DEFAULT 0
    )`,
	`INSERT INTO _dash_stats_total(id, submits, selects)
     VALUES(1, 0, 0)
     ON CONFLICT (id) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS _dash_stats_daily (
        day DATE PRIMARY KEY,
        submits BIGINT NOT NULL DEFAULT 0,
        selects BIGINT NOT NULL DEFAULT 0
    )`,
	`CREATE TABLE IF NOT EXISTS _dash_zip_selects (
        zipcode TEXT PRIMARY KEY,
        selects BIGINT NOT NULL DEFAULT 0,
        last_seen TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_dash_zip_selects_count ON _dash_zip_selects(selects DESC)`,
}

// EnsureSchema：首次运行创建统计所需的表与索引
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, s := range Statements {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
