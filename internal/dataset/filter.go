package dataset

import (
	"fmt"
	"math"
)

// 文档注释：一次提交的筛选条件
// 约束：阈值为 nil 表示未设置；未设置的阈值与任何行比较均不成立，结果为空集
type Criteria struct {
	RaceGroup           string   `json:"race_group"`
	PopulationThreshold *float64 `json:"population_threshold"`
	PovertyPctThreshold *float64 `json:"poverty_pct_threshold"`
}

// Validate：校验族裔分组标签
// 约束：空标签允许（匹配为空集）；非空且不在已知集合中返回 ErrUnknownRaceGroup
func (c Criteria) Validate(t *PovertyTable) error {
	if c.RaceGroup == "" || t.HasRaceGroup(c.RaceGroup) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownRaceGroup, c.RaceGroup)
}

// Match：三个谓词同时成立（阈值比较均为 >=）
func (c Criteria) Match(r ZipRecord) bool {
	if r.RaceGroup != c.RaceGroup {
		return false
	}
	if !atLeast(float64(r.Total), c.PopulationThreshold) {
		return false
	}
	return atLeast(r.PercentBelowPoverty, c.PovertyPctThreshold)
}

// atLeast：v >= *th；阈值缺失或任一侧为 NaN 时不成立
func atLeast(v float64, th *float64) bool {
	if th == nil || math.IsNaN(*th) || math.IsNaN(v) {
		return false
	}
	return v >= *th
}

// Filter：返回满足条件的行，保持输入顺序；结果为新切片，不修改 records
func Filter(records []ZipRecord, c Criteria) []ZipRecord {
	out := make([]ZipRecord, 0)
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Domain：色阶值域
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ColorDomain：全表（未筛选）百分比列的最小/最大值，忽略 NaN
// 约束：启动时计算一次；全表无有效值时返回 [0, 100]
func ColorDomain(records []ZipRecord) Domain {
	d := Domain{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, r := range records {
		v := r.PercentBelowPoverty
		if math.IsNaN(v) {
			continue
		}
		d.Min = math.Min(d.Min, v)
		d.Max = math.Max(d.Max, v)
	}
	if math.IsInf(d.Min, 1) {
		return Domain{Min: 0, Max: 100}
	}
	return d
}

// Float：构造阈值指针
func Float(v float64) *float64 { return &v }
