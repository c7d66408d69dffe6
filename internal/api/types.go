package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"povertymap/internal/dashboard"
)

// 文档注释：宽松阈值
// 约束：null、空串、无法解析的字符串与非有限值一律视为未设置，不报错
type threshold struct{ v *float64 }

func (t *threshold) UnmarshalJSON(b []byte) error {
	t.v = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		t.set(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			t.set(f)
		}
	}
	return nil
}

func (t *threshold) set(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	t.v = &f
}

type submitRequest struct {
	State               dashboard.State `json:"state"`
	RaceGroup           string          `json:"race_group"`
	PopulationThreshold threshold       `json:"population_threshold"`
	PovertyPctThreshold threshold       `json:"poverty_pct_threshold"`
}

type selectRequest struct {
	State   dashboard.State `json:"state"`
	Zipcode string          `json:"zipcode"`
}

// 事件响应：下一状态与需要刷新的输出
type eventResponse struct {
	State     dashboard.State `json:"state"`
	StateName string          `json:"state_name"`
	dashboard.Update
}

type optionsResponse struct {
	RaceGroups []string `json:"race_groups"`
	Default    string   `json:"default"`
}

type errorResponse struct {
	Error string `json:"error"`
}
