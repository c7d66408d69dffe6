// 包 geo：邮编边界数据（GeoJSON FeatureCollection），启动时加载一次，之后只读
package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"povertymap/internal/dataset"
	"povertymap/internal/logger"
)

// BBox：经纬度包围盒（WGS84）
type BBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Center：包围盒中心点（lon, lat）
func (b BBox) Center() (float64, float64) {
	return (b.MinLon + b.MaxLon) / 2, (b.MinLat + b.MaxLat) / 2
}

func (b BBox) union(o BBox) BBox {
	return BBox{
		MinLon: math.Min(b.MinLon, o.MinLon),
		MinLat: math.Min(b.MinLat, o.MinLat),
		MaxLon: math.Max(b.MaxLon, o.MaxLon),
		MaxLat: math.Max(b.MaxLat, o.MaxLat),
	}
}

type zone struct {
	feature *geojson.Feature
	bbox    BBox
}

// 文档注释：边界集合
// 约束：以 properties.<IDProperty> 作为邮编键；缺失键或无几何的要素被跳过；重复键保留首次出现
type Boundaries struct {
	IDProperty string
	zones      map[string]zone
	order      []string
	bbox       BBox
}

// Decode：解析 GeoJSON FeatureCollection
func Decode(data []byte, idProperty string) (*Boundaries, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	b := &Boundaries{IDProperty: idProperty, zones: make(map[string]zone, len(fc.Features))}
	first := true
	skipped := 0
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			skipped++
			continue
		}
		id := featureID(f, idProperty)
		if id == "" {
			skipped++
			continue
		}
		if _, dup := b.zones[id]; dup {
			logger.L().Debug("geojson_duplicate_id", "id", id)
			continue
		}
		bb := boundsOf(f.Geometry)
		b.zones[id] = zone{feature: f, bbox: bb}
		b.order = append(b.order, id)
		if first {
			b.bbox = bb
			first = false
		} else {
			b.bbox = b.bbox.union(bb)
		}
	}
	if len(b.order) == 0 {
		return nil, fmt.Errorf("decode geojson: no features with property %q", idProperty)
	}
	logger.L().Debug("geojson_decoded", "features", len(b.order), "skipped", skipped)
	return b, nil
}

// featureID：读取邮编属性，兼容字符串与数值类型
func featureID(f *geojson.Feature, key string) string {
	switch v := f.Properties[key].(type) {
	case string:
		return dataset.NormalizeZip(v)
	case float64:
		return dataset.NormalizeZip(strconv.FormatFloat(v, 'f', -1, 64))
	case json.Number:
		return dataset.NormalizeZip(v.String())
	}
	return ""
}

func boundsOf(g geom.T) BBox {
	bb := g.Bounds()
	return BBox{MinLon: bb.Min(0), MinLat: bb.Min(1), MaxLon: bb.Max(0), MaxLat: bb.Max(1)}
}

// Len：要素数量
func (b *Boundaries) Len() int { return len(b.order) }

// Has：邮编是否存在对应边界
func (b *Boundaries) Has(zip string) bool {
	_, ok := b.zones[dataset.NormalizeZip(zip)]
	return ok
}

// IDs：按源文件顺序返回全部邮编
func (b *Boundaries) IDs() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// BBox：全部边界的包围盒
func (b *Boundaries) BBox() BBox { return b.bbox }

// Subset：按给定邮编挑选要素，返回新的 FeatureCollection、命中邮编与命中区域包围盒
// 约束：未命中的邮编静默丢弃；返回的要素与共享的只读要素为同一指针，调用方不得修改
func (b *Boundaries) Subset(zips []string) (*geojson.FeatureCollection, []string, BBox, bool) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(zips))}
	matched := make([]string, 0, len(zips))
	seen := make(map[string]bool, len(zips))
	var bb BBox
	for _, raw := range zips {
		z := dataset.NormalizeZip(raw)
		zn, ok := b.zones[z]
		if !ok {
			continue
		}
		matched = append(matched, z)
		if seen[z] {
			continue
		}
		seen[z] = true
		if len(fc.Features) == 0 {
			bb = zn.bbox
		} else {
			bb = bb.union(zn.bbox)
		}
		fc.Features = append(fc.Features, zn.feature)
	}
	return fc, matched, bb, len(fc.Features) > 0
}
