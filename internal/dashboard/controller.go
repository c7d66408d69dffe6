package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"povertymap/internal/dataset"
	"povertymap/internal/figure"
	"povertymap/internal/logger"
	"povertymap/internal/metrics"
)

var ErrEmptyZip = errors.New("empty zipcode")

// 状态名
const (
	StateIdle           = "idle"
	StateFiltered       = "filtered"
	StateDetail         = "idle+detail"
	StateFilteredDetail = "filtered+detail"
)

// 文档注释：界面状态
// 约束：服务端不保存会话；客户端随每个事件上报当前状态并接收下一状态
type State struct {
	Submitted bool   `json:"submitted"`
	Selected  string `json:"selected,omitempty"`
}

func (s State) Name() string {
	switch {
	case s.Submitted && s.Selected != "":
		return StateFilteredDetail
	case s.Submitted:
		return StateFiltered
	case s.Selected != "":
		return StateDetail
	}
	return StateIdle
}

// Event：提交或点击
type Event interface{ event() }

// Submit：按筛选条件刷新地图与描述
type Submit struct{ Criteria dataset.Criteria }

// Select：点击地图区域，携带区域邮编
type Select struct{ Zip string }

func (Submit) event() {}
func (Select) event() {}

// Update：一次事件需要刷新的输出；nil 字段表示保持不变
type Update struct {
	Choropleth  *figure.Figure `json:"choropleth,omitempty"`
	Description *string        `json:"description,omitempty"`
	Age         *figure.Figure `json:"age,omitempty"`
	Gender      *figure.Figure `json:"gender,omitempty"`
	Race        *figure.Figure `json:"race,omitempty"`
}

// View：完整界面（初始加载使用）
type View struct {
	State       State         `json:"state"`
	StateName   string        `json:"state_name"`
	Choropleth  figure.Figure `json:"choropleth"`
	Description string        `json:"description"`
	Age         figure.Figure `json:"age"`
	Gender      figure.Figure `json:"gender"`
	Race        figure.Figure `json:"race"`
}

// FigureCache：已渲染地图的缓存（可选）；实现需容忍并发调用
type FigureCache interface {
	Get(ctx context.Context, key string) (*figure.Figure, bool)
	Set(ctx context.Context, key string, f *figure.Figure)
}

// Controller：事件处理入口，只持有只读上下文
type Controller struct {
	ctx   *Context
	cache FigureCache
}

func NewController(c *Context, cache FigureCache) *Controller {
	return &Controller{ctx: c, cache: cache}
}

// Context：返回只读上下文
func (c *Controller) Context() *Context { return c.ctx }

// Initial：全部为占位图的初始界面
func (c *Controller) Initial() View {
	return View{
		State:      State{},
		StateName:  StateIdle,
		Choropleth: figure.ChoroplethPlaceholder(),
		Age:        figure.BreakdownPlaceholder("age-pie"),
		Gender:     figure.BreakdownPlaceholder("gender-pie"),
		Race:       figure.BreakdownPlaceholder("race-pie"),
	}
}

// 文档注释：状态转移
// Submit：* → filtered(+detail)，只刷新地图与描述，已选邮编的明细图保持不变
// Select：* → *+detail，只刷新三张饼图
// 返回：未知族裔分组与空邮编为输入错误，此时状态不变
func (c *Controller) Dispatch(ctx context.Context, s State, ev Event) (State, Update, error) {
	switch e := ev.(type) {
	case Submit:
		if err := e.Criteria.Validate(c.ctx.Poverty); err != nil {
			return s, Update{}, err
		}
		f := c.choropleth(ctx, e.Criteria)
		desc := Description(e.Criteria)
		s.Submitted = true
		metrics.SubmitsTotal.Inc()
		return s, Update{Choropleth: f, Description: &desc}, nil
	case Select:
		zip := dataset.NormalizeZip(e.Zip)
		if zip == "" {
			return s, Update{}, ErrEmptyZip
		}
		t0 := time.Now()
		age := figure.Breakdown(zip, c.ctx.Age, "Age")
		gender := figure.Breakdown(zip, c.ctx.Gender, "Gender")
		race := figure.Breakdown(zip, c.ctx.Race, "Race")
		metrics.RenderDurationMs.WithLabelValues("breakdown").Observe(float64(time.Since(t0).Milliseconds()))
		metrics.SelectsTotal.Inc()
		s.Selected = zip
		logger.L().Debug("zip_selected", "zip", zip, "state", s.Name())
		return s, Update{Age: &age, Gender: &gender, Race: &race}, nil
	}
	return s, Update{}, fmt.Errorf("dashboard: unsupported event %T", ev)
}

func (c *Controller) choropleth(ctx context.Context, cr dataset.Criteria) *figure.Figure {
	key := CacheKey(cr)
	if c.cache != nil {
		if f, ok := c.cache.Get(ctx, key); ok {
			metrics.FigureCacheHitsTotal.Inc()
			return f
		}
		metrics.FigureCacheMissesTotal.Inc()
	}
	t0 := time.Now()
	subset := dataset.Filter(c.ctx.Poverty.Records, cr)
	f, dropped := figure.Choropleth(subset, c.ctx.Boundaries, c.ctx.Domain)
	metrics.RenderDurationMs.WithLabelValues("choropleth").Observe(float64(time.Since(t0).Milliseconds()))
	if len(subset) == 0 {
		metrics.EmptyResultsTotal.Inc()
	}
	if dropped > 0 {
		metrics.UnmatchedZipsTotal.Add(float64(dropped))
	}
	logger.L().Debug("choropleth_rendered", "race_group", cr.RaceGroup, "rows", len(subset), "dropped", dropped)
	if c.cache != nil {
		c.cache.Set(ctx, key, &f)
	}
	return &f
}

// CacheKey：筛选条件的缓存键；未设置阈值以 unset 表示
func CacheKey(c dataset.Criteria) string {
	return "dash:choropleth:" + c.RaceGroup + ":" + formatThreshold(c.PopulationThreshold) + ":" + formatThreshold(c.PovertyPctThreshold)
}

// Description：地图上方的条件描述
func Description(c dataset.Criteria) string {
	return fmt.Sprintf("Showing zipcodes where the population for %s is greater than %s, while more than %s%% are below poverty level:",
		c.RaceGroup, formatThreshold(c.PopulationThreshold), formatThreshold(c.PovertyPctThreshold))
}

func formatThreshold(v *float64) string {
	if v == nil {
		return "unset"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
