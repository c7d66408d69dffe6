// 包 store：Postgres 交互统计（提交次数、点击次数、邮编点击排行）
package store

import (
	"context"
	"database/sql"

	"povertymap/internal/logger"
)

// Kind：统计事件类型
type Kind string

const (
	KindSubmit Kind = "submits"
	KindSelect Kind = "selects"
)

// Store：数据库访问入口
// 约束：统计为尽力而为，写入失败仅记录日志，不影响主流程
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Incr：累计与当日计数加一
func (s *Store) Incr(ctx context.Context, k Kind) error {
	var total, daily string
	switch k {
	case KindSubmit:
		total = "UPDATE _dash_stats_total SET submits=submits+1 WHERE id=1"
		daily = "INSERT INTO _dash_stats_daily(day, submits) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET submits=_dash_stats_daily.submits+1"
	case KindSelect:
		total = "UPDATE _dash_stats_total SET selects=selects+1 WHERE id=1"
		daily = "INSERT INTO _dash_stats_daily(day, selects) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET selects=_dash_stats_daily.selects+1"
	default:
		return nil
	}
	if _, err := s.db.ExecContext(ctx, total); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, daily); err != nil {
		return err
	}
	logger.L().Debug("stats_incr", "kind", string(k))
	return nil
}

// RecordSelect：记录一次邮编点击（去重累加）
func (s *Store) RecordSelect(ctx context.Context, zip string) error {
	if zip == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO _dash_zip_selects(zipcode, selects, last_seen)
        VALUES($1, 1, now())
        ON CONFLICT (zipcode) DO UPDATE SET selects=_dash_zip_selects.selects+1, last_seen=now()`, zip)
	return err
}

// Totals：累计与当日计数
type Totals struct {
	Submits      int64 `json:"submits"`
	Selects      int64 `json:"selects"`
	TodaySubmits int64 `json:"today_submits"`
	TodaySelects int64 `json:"today_selects"`
}

// GetTotals：读取统计；当日尚无记录时当日计数为 0
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	if err := s.db.QueryRowContext(ctx, "SELECT submits, selects FROM _dash_stats_total WHERE id=1").Scan(&t.Submits, &t.Selects); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	err := s.db.QueryRowContext(ctx, "SELECT submits, selects FROM _dash_stats_daily WHERE day=current_date").Scan(&t.TodaySubmits, &t.TodaySelects)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	logger.L().Debug("stats_totals", "submits", t.Submits, "selects", t.Selects)
	return &t, nil
}

// ZipCount：邮编点击计数
type ZipCount struct {
	Zipcode string `json:"zipcode"`
	Selects int64  `json:"selects"`
}

// TopZips：按点击次数降序返回前 limit 个邮编；limit<=0 时取 10
func (s *Store) TopZips(ctx context.Context, limit int) ([]ZipCount, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, "SELECT zipcode, selects FROM _dash_zip_selects ORDER BY selects DESC, zipcode ASC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ZipCount, 0, limit)
	for rows.Next() {
		var z ZipCount
		if err := rows.Scan(&z.Zipcode, &z.Selects); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}
