package figure

import (
	"fmt"

	"povertymap/internal/dataset"
)

// BreakdownPlaceholder：未选择邮编时的空白图（无网格、刻度与零线），name 区分各图
func BreakdownPlaceholder(name string) Figure {
	hidden := &Axis{ShowGrid: boolp(false), ShowTickLabels: boolp(false), ZeroLine: boolp(false)}
	return Figure{
		State: StatePlaceholder,
		Data:  []Trace{{Type: "scatter", Name: name, Mode: "markers"}},
		Layout: Layout{
			XAxis: hidden,
			YAxis: hidden,
		},
	}
}

// Slice：饼图的一个扇区
type Slice struct {
	Label string
	Value float64
}

// Slices：按分类汇总指定邮编的估计值，保持分类首次出现顺序
func Slices(zip string, t *dataset.DemographicTable) []Slice {
	rows := t.ForZip(zip)
	pos := map[string]int{}
	out := make([]Slice, 0, len(rows))
	for _, r := range rows {
		i, ok := pos[r.Category]
		if !ok {
			pos[r.Category] = len(out)
			out = append(out, Slice{Label: r.Category, Value: r.Estimate})
			continue
		}
		out[i].Value += r.Estimate
	}
	return out
}

// 文档注释：生成单个邮编的分类构成饼图
// 约束：邮编无数据时返回零扇区的饼图，不报错
func Breakdown(zip string, t *dataset.DemographicTable, title string) Figure {
	zip = dataset.NormalizeZip(zip)
	tr := Trace{Type: "pie", Name: t.Name, TextPosition: "inside"}
	for _, s := range Slices(zip, t) {
		tr.Labels = append(tr.Labels, s.Label)
		tr.Values = append(tr.Values, s.Value)
	}
	return Figure{
		State: StateResult,
		Data:  []Trace{tr},
		Layout: Layout{
			Title:       &Title{Text: fmt.Sprintf("%s (%s)", title, zip)},
			UniformText: &UniformText{MinSize: 12, Mode: "hide"},
			Legend:      &Legend{X: 0, Y: 1},
		},
	}
}
