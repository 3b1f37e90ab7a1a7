package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type serverConfig struct {
	Port        int    `koanf:"port" validate:"required"`
	Mode        string `koanf:"mode" validate:"required"`
	Concurrency int    `koanf:"concurrency" validate:"required"`
	BodyLimit   int    `koanf:"body_limit" validate:"required"`
	AppName     string `koanf:"app_name" validate:"required"`
}

type logLevel string

const (
	Debug logLevel = "debug"
	Info  logLevel = "info"
	Warn  logLevel = "warn"
	Error logLevel = "error"
	Fatal logLevel = "fatal"
	Panic logLevel = "panic"
)

type Module string

const (
	ModuleMilvus    Module = "milvus"
	ModuleIngest    Module = "ingest"
	ModuleDatabase  Module = "database"
	ModuleOpenAI    Module = "openai"
	ModuleS3        Module = "s3"
	ModuleCors      Module = "cors"
	ModuleServer    Module = "server"
	ModuleSetting   Module = "setting"
	ModuleUpload    Module = "upload"
	ModuleMail      Module = "mail"
	ModuleKnowledge Module = "knowledge"
	ModuleCalendar  Module = "calendar"
	ModuleDates     Module = "dates"
)

type databaseConfig struct {
	Host         string   `koanf:"host" validate:"required"`
	Port         int      `koanf:"port" validate:"required"`
	User         string   `koanf:"user" validate:"required"`
	Password     string   `koanf:"password"`
	Name         string   `koanf:"name" validate:"required"`
	MaxIdleConns int      `koanf:"max_idle_conns" validate:"required"`
	MaxOpenConns int      `koanf:"max_open_conns" validate:"required"`
	MaxLifetime  int      `koanf:"max_lifetime" validate:"required"`
	Replicas     []string `koanf:"replicas"`
}

// OpenAIConfig holds the API key, optional base URL and model names.
type OpenAIConfig struct {
	Key            string `koanf:"key"`
	BaseURL        string `koanf:"base_url"`
	Model          string `koanf:"model" validate:"required"`
	EmbeddingModel string `koanf:"embedding_model" validate:"required"`
}

type corsConfig struct {
	AllowOrigins []string `koanf:"allow_origins" validate:"required"`
	AllowMethods []string `koanf:"allow_methods" validate:"required"`
	AllowHeaders []string `koanf:"allow_headers" validate:"required"`
}

type milvusConfig struct {
	Address         string          `koanf:"address" validate:"required"`
	Collection      string          `koanf:"collection" validate:"required"`
	IndexHNSWConfig indexHNSWConfig `koanf:"index_hnsw_config"`
}

type indexHNSWConfig struct {
	MetricType     string `koanf:"metric_type" validate:"required"`
	M              int    `koanf:"m" validate:"required"`
	EfConstruction int    `koanf:"ef_construction" validate:"required"`
}

type s3Config struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Region    string `koanf:"region" validate:"required"`
	UseSSL    bool   `koanf:"use_ssl"`
	Bucket     string `koanf:"bucket"`
	LocalDir   string `koanf:"local_dir" validate:"required"`
	PresignTTL int    `koanf:"presign_ttl_s" validate:"gt=0"`
}

// ProfileConfig sizes one composition pipeline.
type ProfileConfig struct {
	ChunkSize int    `koanf:"chunk_size" validate:"gt=0"`
	MaxChunks int    `koanf:"max_chunks" validate:"gte=0"`
	PartLabel string `koanf:"part_label" validate:"required"`
}

// LayoutConfig is the page geometry of composed artifacts, in millimetres.
type LayoutConfig struct {
	Width          int     `koanf:"width" validate:"gt=0"`
	TopMargin      float64 `koanf:"top_margin"`
	LeftMargin     float64 `koanf:"left_margin"`
	PageHeight     float64 `koanf:"page_height" validate:"gt=0"`
	BottomMargin   float64 `koanf:"bottom_margin"`
	BreakThreshold float64 `koanf:"break_threshold" validate:"gt=0"`
	LineHeight     float64 `koanf:"line_height" validate:"gt=0"`
	BlankHeight    float64 `koanf:"blank_height"`
	FontSize       float64 `koanf:"font_size" validate:"gt=0"`
}

type ingestConfig struct {
	Sink          string        `koanf:"sink" validate:"oneof=vectorstore milvus"`
	VectorStoreID string        `koanf:"vector_store_id"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gt=0"`
	PollInterval  int           `koanf:"poll_interval_ms" validate:"gt=0"`
	PollTimeout   int           `koanf:"poll_timeout_s" validate:"gt=0"`
	Document      ProfileConfig `koanf:"document"`
	Email         ProfileConfig `koanf:"email"`
	Layout        LayoutConfig  `koanf:"layout"`
}

// MailConfig holds the IMAP mailbox and SMTP relay settings.
type MailConfig struct {
	IMAPAddress  string `koanf:"imap_address"`
	Address      string `koanf:"address"`
	Password     string `koanf:"password"`
	Mailbox      string `koanf:"mailbox"`
	SMTPHost     string `koanf:"smtp_host"`
	SMTPPort     int    `koanf:"smtp_port"`
	Sender       string `koanf:"sender"`
	SenderSecret string `koanf:"sender_password"`
	Receiver     string `koanf:"receiver"`
}

// Config is the whole application configuration.
type Config struct {
	Server   serverConfig   `koanf:"server"`
	Database databaseConfig `koanf:"database"`
	OpenAI   OpenAIConfig   `koanf:"openai"`
	LogLevel logLevel       `koanf:"log_level"`
	Dns      string         `koanf:"dns"`
	S3       s3Config       `koanf:"s3"`
	Cors     corsConfig     `koanf:"cors"`
	Milvus   milvusConfig   `koanf:"milvus"`
	Ingest   ingestConfig   `koanf:"ingest"`
	Mail     MailConfig     `koanf:"mail"`
}

func buildMySQLDSN(cfg databaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)
}

var defaultConfig = Config{
	Server: serverConfig{
		Port:        8000,
		Mode:        "release",
		Concurrency: 256,
		BodyLimit:   32 * 1024 * 1024,
		AppName:     "legal-assistant",
	},
	Database: databaseConfig{
		Host:         "127.0.0.1",
		Port:         3306,
		User:         "root",
		Password:     "",
		Name:         "legal",
		MaxIdleConns: 5,
		MaxOpenConns: 20,
		MaxLifetime:  30,
	},
	OpenAI: OpenAIConfig{
		Key:            "",
		Model:          "gpt-4",
		EmbeddingModel: "text-embedding-3-small",
	},
	LogLevel: Info,
	S3: s3Config{
		Endpoint:  "http://localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Region:    "us-east-1",
		UseSSL:    false,
		Bucket:     "",
		LocalDir:   "storage",
		PresignTTL: 3600,
	},
	Cors: corsConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	},
	Milvus: milvusConfig{
		Address:    "localhost:19530",
		Collection: "legal_chunks",
		IndexHNSWConfig: indexHNSWConfig{
			MetricType:     "COSINE",
			M:              16,
			EfConstruction: 200,
		},
	},
	Ingest: ingestConfig{
		Sink:          "vectorstore",
		RatePerSecond: 2,
		PollInterval:  1000,
		PollTimeout:   120,
		Document: ProfileConfig{
			ChunkSize: 1000,
			MaxChunks: 15,
			PartLabel: "Document Part",
		},
		Email: ProfileConfig{
			ChunkSize: 1200,
			MaxChunks: 10,
			PartLabel: "Part",
		},
		Layout: LayoutConfig{
			Width:          60,
			TopMargin:      15,
			LeftMargin:     15,
			PageHeight:     297,
			BottomMargin:   20,
			BreakThreshold: 250,
			LineHeight:     4,
			BlankHeight:    3,
			FontSize:       9,
		},
	},
	Mail: MailConfig{
		IMAPAddress: "imap.gmail.com:993",
		Mailbox:     "INBOX",
		SMTPHost:    "smtp.gmail.com",
		SMTPPort:    587,
	},
}

var (
	Cfg  = defaultConfig
	once sync.Once
)

func init() {
	once.Do(func() {
		if err := Init("config.yaml"); err != nil {
			log.Errorf("%v: %v", ModuleSetting, err)
		}
	})
}

// Init loads defaults, then the yaml file at path (if present), then APP_* env vars.
// Nested keys use a double underscore: APP_SERVER__PORT maps to server.port.
func Init(path string) error {
	k := koanf.New(".")
	validate := validator.New()

	Cfg = defaultConfig

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load %s: %w", path, err)
	}

	if err := k.Load(env.Provider("APP_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "APP_")), "__", ".")
	}), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", &Cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if Cfg.Dns == "" {
		Cfg.Dns = buildMySQLDSN(Cfg.Database)
	}

	if err := validate.Struct(Cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("%v config validation failed:\n", ModuleSetting))
			for _, e := range errs {
				sb.WriteString(fmt.Sprintf("  - %s: failed '%s' (value: %v)\n", e.Field(), e.Tag(), e.Value()))
			}
			return fmt.Errorf("%s", sb.String())
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
