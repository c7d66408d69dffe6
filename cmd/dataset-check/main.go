package main

import (
	"context"
	"os"
	"sort"

	"povertymap/internal/config"
	"povertymap/internal/dashboard"
	"povertymap/internal/logger"
)

// 文档注释：数据一致性检查
// 约束：加载与服务相同的边界及数据表，报告没有边界多边形的邮编；存在不一致或加载失败时以 1 退出
func main() {
	config.LoadDotEnv()
	l := logger.Setup()
	cfg := config.Load()
	c, err := dashboard.Load(context.Background(), cfg)
	if err != nil {
		l.Error("dataset_load_error", "err", err)
		os.Exit(1)
	}
	l.Info("dataset_summary",
		"boundaries", c.Boundaries.Len(),
		"poverty_rows", len(c.Poverty.Records),
		"age_rows", len(c.Age.Records),
		"gender_rows", len(c.Gender.Records),
		"race_rows", len(c.Race.Records),
		"domain_min", c.Domain.Min,
		"domain_max", c.Domain.Max,
	)
	un := c.Unmatched()
	names := make([]string, 0, len(un))
	for name := range un {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		zips := un[name]
		sort.Strings(zips)
		l.Warn("zip_without_boundary", "table", name, "count", len(zips), "zips", zips)
	}
	if len(un) > 0 {
		os.Exit(1)
	}
	l.Info("dataset_check_ok")
}
