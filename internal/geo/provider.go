package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"povertymap/internal/logger"
	"povertymap/internal/metrics"
)

var ErrBadStatus = errors.New("unexpected http status")

// 文档注释：边界数据来源
// 约束：Path 非空时读取本地文件，否则通过 HTTP 获取 URL；不做重试，失败由调用方视为启动失败
type Source struct {
	URL        string
	Path       string
	IDProperty string
	Timeout    time.Duration
	Client     *http.Client
}

// Load：获取并解析边界数据
func Load(ctx context.Context, src Source) (*Boundaries, error) {
	t0 := time.Now()
	var data []byte
	var err error
	if src.Path != "" {
		data, err = os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("read geojson: %w", err)
		}
		logger.L().Info("geojson_read_ok", "path", src.Path, "bytes", len(data))
	} else {
		data, err = Fetch(ctx, src.client(), src.URL)
		if err != nil {
			return nil, err
		}
		logger.L().Info("geojson_fetch_ok", "url", src.URL, "bytes", len(data))
	}
	b, err := Decode(data, src.IDProperty)
	if err != nil {
		return nil, err
	}
	metrics.BoundaryLoadMs.Observe(float64(time.Since(t0).Milliseconds()))
	return b, nil
}

func (s Source) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Fetch：HTTP GET 读取完整响应体；非 200 返回 ErrBadStatus
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("fetch geojson: empty url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch geojson: %w", err)
	}
	logger.L().Debug("geojson_fetch_begin", "url", url)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch geojson: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch geojson: %w: %d", ErrBadStatus, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch geojson: %w", err)
	}
	return b, nil
}
