package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// 文档注释：贫困/族裔表的一行
// 约束：仅保留 Stats=Estimate 且非州级汇总的行；PercentBelowPoverty 为 NaN 表示源数据缺失
type ZipRecord struct {
	Zipcode             string  `json:"zipcode"`
	RaceGroup           string  `json:"race_group"`
	Total               int64   `json:"total"`
	PercentBelowPoverty float64 `json:"percent_below_poverty"`
}

// DemographicRecord：年龄/性别/族裔分布表的一行
type DemographicRecord struct {
	Zipcode  string  `json:"zipcode"`
	Category string  `json:"category"`
	Estimate float64 `json:"estimate"`
}

var (
	ErrMissingColumn    = errors.New("missing column")
	ErrUnknownRaceGroup = errors.New("unknown race group")
)

// NormalizeZip：统一邮编表示
// 约束：去除首尾空白；纯数字（含 60601.0 形式）格式化为 5 位补零；其余原样返回
func NormalizeZip(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	if f < 0 || f >= 100000 || f != math.Trunc(f) {
		return s
	}
	n := int64(f)
	out := strconv.FormatInt(n, 10)
	for len(out) < 5 {
		out = "0" + out
	}
	return out
}
