// 包 figure：生成 plotly 图表文档（{data, layout}），由页面端 plotly.js 直接渲染
package figure

import "github.com/twpayne/go-geom/encoding/geojson"

// 图表状态：占位图与结果图必须可区分（空结果仍为 result）
const (
	StatePlaceholder = "placeholder"
	StateResult      = "result"
)

// Figure：plotly 图表文档；State 为附加字段，plotly.js 忽略
type Figure struct {
	State  string  `json:"state"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace：choropleth / pie / scatter 三类轨迹共用的字段集合
type Trace struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`

	GeoJSON       *geojson.FeatureCollection `json:"geojson,omitempty"`
	FeatureIDKey  string                     `json:"featureidkey,omitempty"`
	Locations     []string                   `json:"locations,omitempty"`
	Z             []float64                  `json:"z,omitempty"`
	ZMin          *float64                   `json:"zmin,omitempty"`
	ZMax          *float64                   `json:"zmax,omitempty"`
	ColorScale    string                     `json:"colorscale,omitempty"`
	ColorBar      *ColorBar                  `json:"colorbar,omitempty"`
	CustomData    [][]any                    `json:"customdata,omitempty"`
	HoverTemplate string                     `json:"hovertemplate,omitempty"`

	Labels       []string  `json:"labels,omitempty"`
	Values       []float64 `json:"values,omitempty"`
	TextPosition string    `json:"textposition,omitempty"`

	X    []float64 `json:"x,omitempty"`
	Y    []float64 `json:"y,omitempty"`
	Mode string    `json:"mode,omitempty"`
}

type ColorBar struct {
	Title Title `json:"title"`
}

type Title struct {
	Text string `json:"text"`
}

type Layout struct {
	Title       *Title       `json:"title,omitempty"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Geo         *Geo         `json:"geo,omitempty"`
	Margin      *Margin      `json:"margin,omitempty"`
	UniformText *UniformText `json:"uniformtext,omitempty"`
	Legend      *Legend      `json:"legend,omitempty"`
}

// Axis：布尔字段用指针以便显式输出 false
type Axis struct {
	Visible        *bool `json:"visible,omitempty"`
	ShowGrid       *bool `json:"showgrid,omitempty"`
	ShowTickLabels *bool `json:"showticklabels,omitempty"`
	ZeroLine       *bool `json:"zeroline,omitempty"`
}

type Annotation struct {
	Text      string  `json:"text"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ShowArrow bool    `json:"showarrow"`
	Font      *Font   `json:"font,omitempty"`
}

type Font struct {
	Size int `json:"size"`
}

type Geo struct {
	Scope     string     `json:"scope,omitempty"`
	FitBounds string     `json:"fitbounds,omitempty"`
	Center    *GeoCenter `json:"center,omitempty"`
	LonAxis   *GeoAxis   `json:"lonaxis,omitempty"`
	LatAxis   *GeoAxis   `json:"lataxis,omitempty"`
}

type GeoCenter struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type GeoAxis struct {
	Range [2]float64 `json:"range"`
}

type Margin struct {
	R int `json:"r"`
	T int `json:"t"`
	L int `json:"l"`
	B int `json:"b"`
}

type UniformText struct {
	MinSize int    `json:"minsize"`
	Mode    string `json:"mode"`
}

type Legend struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func boolp(v bool) *bool { return &v }

func floatp(v float64) *float64 { return &v }
