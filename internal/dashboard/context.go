// 包 dashboard：交互控制器。启动时构建只读 Context，按提交/点击事件驱动显式状态机
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"povertymap/internal/config"
	"povertymap/internal/dataset"
	"povertymap/internal/geo"
	"povertymap/internal/logger"
	"povertymap/internal/metrics"
)

// 文档注释：只读上下文
// 约束：构建后不再修改；所有渲染与筛选调用共享同一指针，无需加锁
type Context struct {
	Boundaries       *geo.Boundaries
	Poverty          *dataset.PovertyTable
	Age              *dataset.DemographicTable
	Gender           *dataset.DemographicTable
	Race             *dataset.DemographicTable
	Domain           dataset.Domain
	DefaultRaceGroup string
}

// NewContext：组装上下文并计算全表色阶值域
// 约束：默认分组不存在时回退到表中第一个分组
func NewContext(b *geo.Boundaries, p *dataset.PovertyTable, age, gender, race *dataset.DemographicTable, defaultGroup string) (*Context, error) {
	if b == nil || p == nil || age == nil || gender == nil || race == nil {
		return nil, errors.New("dashboard: incomplete context")
	}
	c := &Context{
		Boundaries: b,
		Poverty:    p,
		Age:        age,
		Gender:     gender,
		Race:       race,
		Domain:     dataset.ColorDomain(p.Records),
	}
	c.DefaultRaceGroup = defaultGroup
	if !p.HasRaceGroup(defaultGroup) {
		if gs := p.RaceGroups(); len(gs) > 0 {
			c.DefaultRaceGroup = gs[0]
		}
	}
	return c, nil
}

// Load：按配置加载边界与四张表；任一失败即返回错误，调用方不得以部分数据启动
func Load(ctx context.Context, cfg config.Config) (*Context, error) {
	l := logger.L()
	gctx, cancel := context.WithTimeout(ctx, cfg.GeoJSONTimeout)
	defer cancel()
	b, err := geo.Load(gctx, geo.Source{
		URL:        cfg.GeoJSONURL,
		Path:       cfg.GeoJSONPath,
		IDProperty: cfg.GeoJSONIDProperty,
		Timeout:    cfg.GeoJSONTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("load boundaries: %w", err)
	}
	p, err := dataset.LoadPoverty(cfg.DataPath(cfg.PovertyCSV))
	if err != nil {
		return nil, err
	}
	age, err := dataset.LoadDemographic(cfg.DataPath(cfg.AgeCSV), "age", dataset.ColAgeGroup)
	if err != nil {
		return nil, err
	}
	gender, err := dataset.LoadDemographic(cfg.DataPath(cfg.GenderCSV), "gender", dataset.ColGender)
	if err != nil {
		return nil, err
	}
	race, err := dataset.LoadDemographic(cfg.DataPath(cfg.RaceCSV), "race", dataset.ColRaceBreak)
	if err != nil {
		return nil, err
	}
	metrics.RecordsLoaded.WithLabelValues("boundaries").Set(float64(b.Len()))
	metrics.RecordsLoaded.WithLabelValues("poverty").Set(float64(len(p.Records)))
	metrics.RecordsLoaded.WithLabelValues("age").Set(float64(len(age.Records)))
	metrics.RecordsLoaded.WithLabelValues("gender").Set(float64(len(gender.Records)))
	metrics.RecordsLoaded.WithLabelValues("race").Set(float64(len(race.Records)))
	c, err := NewContext(b, p, age, gender, race, cfg.DefaultRaceGroup)
	if err != nil {
		return nil, err
	}
	l.Info("dataset_ready",
		"boundaries", b.Len(),
		"poverty_rows", len(p.Records),
		"race_groups", len(p.RaceGroups()),
		"domain_min", c.Domain.Min,
		"domain_max", c.Domain.Max,
	)
	return c, nil
}

// Unmatched：各表中没有边界多边形的邮编（去重），用于数据一致性检查
func (c *Context) Unmatched() map[string][]string {
	out := map[string][]string{}
	check := func(name string, zips []string) {
		seen := map[string]bool{}
		for _, z := range zips {
			if seen[z] || c.Boundaries.Has(z) {
				continue
			}
			seen[z] = true
			out[name] = append(out[name], z)
		}
	}
	pz := make([]string, 0, len(c.Poverty.Records))
	for _, r := range c.Poverty.Records {
		pz = append(pz, r.Zipcode)
	}
	check("poverty", pz)
	check(c.Age.Name, c.Age.Zipcodes())
	check(c.Gender.Name, c.Gender.Zipcodes())
	check(c.Race.Name, c.Race.Zipcodes())
	return out
}
