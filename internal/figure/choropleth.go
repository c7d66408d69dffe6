package figure

import (
	"povertymap/internal/dataset"
	"povertymap/internal/geo"
)

const (
	// PlaceholderText：提交前地图区域的提示
	PlaceholderText = "Please set criteria above and hit submit"
	colorTitle      = "Percent below poverty level"
	hoverTemplate   = "Zipcode=%{location}<br>Population=%{customdata[0]}<br>Percent below poverty level=%{z}<extra></extra>"
)

// ChoroplethPlaceholder：提交前的占位图（隐藏坐标轴，居中提示文字）
func ChoroplethPlaceholder() Figure {
	return Figure{
		State: StatePlaceholder,
		Data:  []Trace{},
		Layout: Layout{
			XAxis: &Axis{Visible: boolp(false)},
			YAxis: &Axis{Visible: boolp(false)},
			Annotations: []Annotation{{
				Text: PlaceholderText,
				XRef: "paper",
				YRef: "paper",
				X:    0.5,
				Y:    0.5,
				Font: &Font{Size: 28},
			}},
		},
	}
}

// 文档注释：按邮编将筛选结果关联到边界多边形并生成分级设色地图
// 约束：无对应多边形的行静默丢弃，返回丢弃行数；色阶值域固定为 domain（全表计算）
// 约束：有命中区域时视野自适应命中区域；无命中时退回全部边界范围
func Choropleth(subset []dataset.ZipRecord, b *geo.Boundaries, domain dataset.Domain) (Figure, int) {
	zips := make([]string, 0, len(subset))
	for _, r := range subset {
		zips = append(zips, r.Zipcode)
	}
	fc, _, bb, ok := b.Subset(zips)

	tr := Trace{
		Type:          "choropleth",
		GeoJSON:       fc,
		FeatureIDKey:  "properties." + b.IDProperty,
		Locations:     make([]string, 0, len(subset)),
		Z:             make([]float64, 0, len(subset)),
		ZMin:          floatp(domain.Min),
		ZMax:          floatp(domain.Max),
		ColorScale:    "Viridis",
		ColorBar:      &ColorBar{Title: Title{Text: colorTitle}},
		CustomData:    make([][]any, 0, len(subset)),
		HoverTemplate: hoverTemplate,
	}
	dropped := 0
	for _, r := range subset {
		if !b.Has(r.Zipcode) {
			dropped++
			continue
		}
		tr.Locations = append(tr.Locations, r.Zipcode)
		tr.Z = append(tr.Z, r.PercentBelowPoverty)
		tr.CustomData = append(tr.CustomData, []any{r.Total, r.PercentBelowPoverty})
	}

	g := &Geo{Scope: "usa"}
	if ok {
		g.FitBounds = "locations"
	} else {
		bb = b.BBox()
	}
	lon, lat := bb.Center()
	g.Center = &GeoCenter{Lon: lon, Lat: lat}
	g.LonAxis = &GeoAxis{Range: [2]float64{bb.MinLon, bb.MaxLon}}
	g.LatAxis = &GeoAxis{Range: [2]float64{bb.MinLat, bb.MaxLat}}

	return Figure{
		State: StateResult,
		Data:  []Trace{tr},
		Layout: Layout{
			Geo:    g,
			Margin: &Margin{},
		},
	}, dropped
}
