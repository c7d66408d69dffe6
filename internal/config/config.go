// 包 config：集中读取环境变量并给出默认值；.env 文件由 godotenv 预先加载
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultGeoJSONURL：伊利诺伊州 ZCTA 边界（OpenDataDE）
const DefaultGeoJSONURL = "https://raw.githubusercontent.com/OpenDataDE/State-zip-code-GeoJSON/master/il_illinois_zip_codes_geo.min.json"

// DefaultRaceGroup：下拉框默认选项
const DefaultRaceGroup = "American Indian and Alaska Native alone"

// Config：进程配置快照，启动后只读
type Config struct {
	Addr    string
	APIBase string

	DataDir    string
	PovertyCSV string
	AgeCSV     string
	GenderCSV  string
	RaceCSV    string

	GeoJSONURL        string
	GeoJSONPath       string
	GeoJSONIDProperty string
	GeoJSONTimeout    time.Duration

	DefaultRaceGroup string

	RedisEnable    bool
	FigureCacheTTL time.Duration

	PGEnable bool

	RateLimitEnabled bool
	RateLimitQPS     int

	TLSEnable   bool
	TLSCertPath string
	TLSKeyPath  string
}

// LoadDotEnv：按顺序加载 .env 与 data/env/.env；文件缺失静默忽略
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
}

// Load：从环境变量构建配置
// 约束：数值解析失败或非正数时回退到默认值
func Load() Config {
	c := Config{
		Addr:              getenv("ADDR", ":8050"),
		APIBase:           strings.TrimRight(getenv("API_BASE", "/api"), "/"),
		DataDir:           getenv("DATA_DIR", "processed_data"),
		PovertyCSV:        getenv("POVERTY_CSV", "poverty_RACE AND HISPANIC OR LATINO ORIGIN.csv"),
		AgeCSV:            getenv("AGE_CSV", "demo_age.csv"),
		GenderCSV:         getenv("GENDER_CSV", "demo_gender.csv"),
		RaceCSV:           getenv("RACE_CSV", "demo_race.csv"),
		GeoJSONURL:        getenv("GEOJSON_URL", DefaultGeoJSONURL),
		GeoJSONPath:       os.Getenv("GEOJSON_PATH"),
		GeoJSONIDProperty: getenv("GEOJSON_ID_PROPERTY", "ZCTA5CE10"),
		GeoJSONTimeout:    time.Duration(getint("GEOJSON_TIMEOUT_S", 30)) * time.Second,
		DefaultRaceGroup:  getenv("DEFAULT_RACE_GROUP", DefaultRaceGroup),
		RedisEnable:       os.Getenv("REDIS_ENABLE") == "true",
		FigureCacheTTL:    time.Duration(getint("FIGURE_CACHE_TTL_S", 3600)) * time.Second,
		PGEnable:          os.Getenv("PG_ENABLE") == "true",
		RateLimitEnabled:  os.Getenv("RATE_LIMIT_ENABLED") == "true",
		RateLimitQPS:      getint("RATE_LIMIT_QPS", 200),
		TLSEnable:         os.Getenv("TLS_ENABLE") == "true",
		TLSCertPath:       getenv("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
		TLSKeyPath:        getenv("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),
	}
	if c.APIBase == "" {
		c.APIBase = "/api"
	} else if !strings.HasPrefix(c.APIBase, "/") {
		c.APIBase = "/" + c.APIBase
	}
	return c
}

// DataPath：返回数据目录下的文件路径；绝对路径原样返回
func (c Config) DataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			return n
		}
	}
	return def
}
