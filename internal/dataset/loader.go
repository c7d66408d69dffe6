// 包 dataset：启动时从 CSV 读取贫困与人口分布表，构建只读内存表并提供筛选
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"povertymap/internal/logger"
)

// 源 CSV 列名
const (
	ColZipcode        = "Zipcode"
	ColRaceGroup      = "RACE AND HISPANIC OR LATINO ORIGIN"
	ColTotal          = "Total"
	ColPercentPoverty = "Percent below poverty level"
	ColStats          = "Stats"
	ColEstimate       = "Estimate"

	ColAgeGroup  = "Age group"
	ColGender    = "Gender"
	ColRaceBreak = "Race group"

	statEstimate   = "Estimate"
	stateAggregate = "Illinois"
)

// PovertyTable：贫困/族裔表，加载后只读
type PovertyTable struct {
	Records []ZipRecord
	groups  []string
}

// RaceGroups：按首次出现顺序返回去重后的族裔分组
func (t *PovertyTable) RaceGroups() []string {
	out := make([]string, len(t.groups))
	copy(out, t.groups)
	return out
}

// HasRaceGroup：判断分组标签是否存在于表中
func (t *PovertyTable) HasRaceGroup(g string) bool {
	for _, v := range t.groups {
		if v == g {
			return true
		}
	}
	return false
}

// DemographicTable：按邮编分区的分类估计表（年龄/性别/族裔）
type DemographicTable struct {
	Name           string
	CategoryColumn string
	Records        []DemographicRecord
	byZip          map[string][]DemographicRecord
}

// ForZip：返回指定邮编的全部行；未命中返回 nil
func (t *DemographicTable) ForZip(zip string) []DemographicRecord {
	return t.byZip[NormalizeZip(zip)]
}

// Zipcodes：表中出现过的邮编集合
func (t *DemographicTable) Zipcodes() []string {
	out := make([]string, 0, len(t.byZip))
	for z := range t.byZip {
		out = append(out, z)
	}
	return out
}

// LoadPoverty：打开并解析贫困/族裔 CSV
func LoadPoverty(path string) (*PovertyTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open poverty table: %w", err)
	}
	defer f.Close()
	t, err := ReadPoverty(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.L().Debug("dataset_poverty_loaded", "path", path, "rows", len(t.Records), "groups", len(t.groups))
	return t, nil
}

// ReadPoverty：解析贫困/族裔表
// 约束：丢弃 Stats 非 Estimate 的行与州级汇总行；Total 不可解析视为错误，百分比不可解析记为 NaN
func ReadPoverty(r io.Reader) (*PovertyTable, error) {
	rows, idx, err := readCSV(r, ColZipcode, ColRaceGroup, ColTotal, ColPercentPoverty, ColStats)
	if err != nil {
		return nil, err
	}
	t := &PovertyTable{}
	seen := map[string]bool{}
	for i, row := range rows {
		if cell(row, idx[ColStats]) != statEstimate {
			continue
		}
		zip := cell(row, idx[ColZipcode])
		if zip == stateAggregate {
			continue
		}
		total, err := parseNumber(cell(row, idx[ColTotal]))
		if err != nil {
			return nil, fmt.Errorf("row %d: column %q: %w", i+2, ColTotal, err)
		}
		pct, err := parseNumber(cell(row, idx[ColPercentPoverty]))
		if err != nil {
			pct = math.NaN()
		}
		rec := ZipRecord{
			Zipcode:             NormalizeZip(zip),
			RaceGroup:           cell(row, idx[ColRaceGroup]),
			Total:               int64(math.Round(total)),
			PercentBelowPoverty: pct,
		}
		if !seen[rec.RaceGroup] {
			seen[rec.RaceGroup] = true
			t.groups = append(t.groups, rec.RaceGroup)
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// LoadDemographic：打开并解析一张分类估计表
func LoadDemographic(path, name, categoryColumn string) (*DemographicTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s table: %w", name, err)
	}
	defer f.Close()
	t, err := ReadDemographic(f, name, categoryColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.L().Debug("dataset_demographic_loaded", "name", name, "path", path, "rows", len(t.Records), "zips", len(t.byZip))
	return t, nil
}

// ReadDemographic：解析分类估计表（Zipcode, <categoryColumn>, Estimate）
func ReadDemographic(r io.Reader, name, categoryColumn string) (*DemographicTable, error) {
	rows, idx, err := readCSV(r, ColZipcode, categoryColumn, ColEstimate)
	if err != nil {
		return nil, err
	}
	t := &DemographicTable{Name: name, CategoryColumn: categoryColumn, byZip: map[string][]DemographicRecord{}}
	for i, row := range rows {
		est, err := parseNumber(cell(row, idx[ColEstimate]))
		if err != nil {
			return nil, fmt.Errorf("row %d: column %q: %w", i+2, ColEstimate, err)
		}
		rec := DemographicRecord{
			Zipcode:  NormalizeZip(cell(row, idx[ColZipcode])),
			Category: cell(row, idx[categoryColumn]),
			Estimate: est,
		}
		t.Records = append(t.Records, rec)
		t.byZip[rec.Zipcode] = append(t.byZip[rec.Zipcode], rec)
	}
	return t, nil
}

// readCSV：读取表头并定位必需列，返回数据行与列下标
func readCSV(r io.Reader, required ...string) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	idx := make(map[string]int, len(required))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	out := make(map[string]int, len(required))
	for _, col := range required {
		i, ok := idx[col]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
		out[col] = i
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, out, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseNumber：解析数值，容忍千分位逗号
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}
