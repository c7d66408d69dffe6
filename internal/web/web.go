// 包 web：内嵌单页界面；plotly.js 负责在浏览器端渲染服务端生成的图表文档
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strconv"

	"povertymap/internal/version"
)

//go:embed static
var static embed.FS

// Handler：静态页面与 /config.js
// 约束：/config.js 向前端暴露 API 前缀与版本，禁止缓存
func Handler(apiBase string) http.Handler {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(sub)))
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__=" + strconv.Quote(apiBase) + ";\n"))
		_, _ = w.Write([]byte("window.__COMMIT_SHA__=" + strconv.Quote(version.Commit) + ";\n"))
	})
	return mux
}
