package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "config.yaml"

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Addr string `yaml:"-"` // 不从配置文件读取，而是在加载后计算
	} `yaml:"server"`
	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Output   string `yaml:"output"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`
	Model struct {
		Path       string `yaml:"path"`        // 评分服务启动时加载的模型文件
		OutputPath string `yaml:"output_path"` // 训练任务写出的模型文件
	} `yaml:"model"`
	Validation struct {
		// 为 true 时拒绝不在特征 schema 中的类别取值，默认放行并按全 0 编码
		StrictCategories *bool `yaml:"strict_categories"`
	} `yaml:"validation"`
	CORS struct {
		AllowedOrigins   []string `yaml:"allowed_origins"`
		AllowedMethods   []string `yaml:"allowed_methods"`
		AllowedHeaders   []string `yaml:"allowed_headers"`
		AllowCredentials bool     `yaml:"allow_credentials"`
	} `yaml:"cors"`
	Timeouts struct {
		RequestSec  int `yaml:"request_sec"`  // 请求超时，单位：秒
		ResponseSec int `yaml:"response_sec"` // 响应超时，单位：秒
		IdleSec     int `yaml:"idle_sec"`     // 空闲超时，单位：秒
		ShutdownSec int `yaml:"shutdown_sec"` // 优雅关闭等待时间，单位：秒
	} `yaml:"timeouts"`
	Training struct {
		Source         string  `yaml:"source"`    // csv / mysql
		DataPath       string  `yaml:"data_path"` // source=csv 时的数据文件
		Table          string  `yaml:"table"`     // source=mysql 时的数据表
		TestRatio      float64 `yaml:"test_ratio"`
		Seed           *int64  `yaml:"seed"` // 未配置时为 42，显式配置 0 时保留 0
		NEstimators    int     `yaml:"n_estimators"`
		LearningRate   float64 `yaml:"learning_rate"`
		MaxDepth       int     `yaml:"max_depth"`
		MinSamplesLeaf int     `yaml:"min_samples_leaf"`
	} `yaml:"training"`

	DB struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Username        string `yaml:"username"`
		Password        string `yaml:"password"`
		Database        string `yaml:"database"`
		Charset         string `yaml:"charset"`
		ParseTime       bool   `yaml:"parse_time"`
		DSN             string `yaml:"-"`                 // 不从配置文件读取，而是在加载后计算
		MaxOpenConns    int    `yaml:"max_open_conns"`    // 最大打开连接数
		MaxIdleConns    int    `yaml:"max_idle_conns"`    // 最大空闲连接数
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // 连接最大生命周期（分钟）
	} `yaml:"database"`
}

// Load 按 .env → config.yaml → 环境变量 的顺序加载配置
func Load() *Config {
	return LoadFile(defaultConfigFile)
}

// LoadFile 从指定的 yaml 文件加载配置，文件不存在时只使用环境变量和默认值
func LoadFile(path string) *Config {
	// 首先尝试加载.env文件中的环境变量
	_ = godotenv.Load() // 忽略错误，如果.env文件不存在，继续使用系统环境变量

	var cfg Config

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Printf("Error loading %s: %v, falling back to environment variables", path, err)
			cfg = Config{}
		} else {
			log.Printf("Loading configuration from %s", path)
		}
	} else {
		log.Println("配置文件不存在，使用环境变量和默认值")
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg
}

// StrictCategories 返回是否拒绝未知类别，未配置时默认为 false
func (c *Config) StrictCategories() bool {
	if c.Validation.StrictCategories == nil {
		return false
	}
	return *c.Validation.StrictCategories
}

// TrainingSeed 返回切分训练集使用的随机种子
func (c *Config) TrainingSeed() int64 {
	if c.Training.Seed == nil {
		return 42
	}
	return *c.Training.Seed
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("MODEL_PATH"); path != "" {
		cfg.Model.Path = path
	}

	// 数据库用户名和密码
	if username := os.Getenv("DATABASE_USERNAME"); username != "" {
		cfg.DB.Username = username
	}
	if password := os.Getenv("DATABASE_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8000
	}
	cfg.Server.Addr = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	if cfg.Model.Path == "" {
		cfg.Model.Path = "model/lead_scoring_model.json"
	}
	if cfg.Model.OutputPath == "" {
		cfg.Model.OutputPath = cfg.Model.Path
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"*"}
	}

	if cfg.Timeouts.RequestSec <= 0 {
		cfg.Timeouts.RequestSec = 15
	}
	if cfg.Timeouts.ResponseSec <= 0 {
		cfg.Timeouts.ResponseSec = 15
	}
	if cfg.Timeouts.IdleSec <= 0 {
		cfg.Timeouts.IdleSec = 60
	}
	if cfg.Timeouts.ShutdownSec <= 0 {
		cfg.Timeouts.ShutdownSec = 5
	}

	if cfg.Training.Source == "" {
		cfg.Training.Source = "csv"
	}
	if cfg.Training.DataPath == "" {
		cfg.Training.DataPath = "data/real_estate_leads.csv"
	}
	if cfg.Training.Table == "" {
		cfg.Training.Table = "real_estate_leads"
	}
	if cfg.Training.TestRatio <= 0 || cfg.Training.TestRatio >= 1 {
		cfg.Training.TestRatio = 0.2
	}
	if cfg.Training.Seed == nil {
		seed := int64(42)
		cfg.Training.Seed = &seed
	}
	if cfg.Training.NEstimators <= 0 {
		cfg.Training.NEstimators = 100
	}
	if cfg.Training.LearningRate <= 0 {
		cfg.Training.LearningRate = 0.1
	}
	if cfg.Training.MaxDepth <= 0 {
		cfg.Training.MaxDepth = 3
	}
	if cfg.Training.MinSamplesLeaf <= 0 {
		cfg.Training.MinSamplesLeaf = 1
	}

	// 计算 DB.DSN 字段
	if cfg.DB.DSN == "" && cfg.DB.Host != "" {
		if cfg.DB.Charset == "" {
			cfg.DB.Charset = "utf8mb4"
		}
		parseTime := ""
		if cfg.DB.ParseTime {
			parseTime = "&parseTime=true"
		}
		cfg.DB.DSN = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s%s",
			cfg.DB.Username,
			cfg.DB.Password,
			cfg.DB.Host,
			cfg.DB.Port,
			cfg.DB.Database,
			cfg.DB.Charset,
			parseTime)
	}
}
