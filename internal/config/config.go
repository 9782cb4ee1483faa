package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zhouzirui/career-companion/backend/internal/logging"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	Chat    ChatConfig
	Profile ProfileConfig
	Log     logging.Options
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Chat:    chat,
		Profile: ProfileConfig{DBPath: strings.TrimSpace(os.Getenv("PROFILE_DB_PATH"))},
		Log: logging.Options{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
			File:   strings.TrimSpace(os.Getenv("LOG_FILE")),
		},
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	origins := splitList(getEnvOrDefault("ALLOWED_ORIGINS", "*"))

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// ChatConfig 描述聊天助手相关配置。
type ChatConfig struct {
	ReplyDelay  time.Duration
	CatalogFile string
}

func loadChatConfig() (ChatConfig, error) {
	delay := 800 * time.Millisecond
	if ms, err := parseOptionalIntEnv("CHAT_REPLY_DELAY_MS"); err != nil {
		return ChatConfig{}, err
	} else if ms != nil {
		if *ms < 0 {
			return ChatConfig{}, fmt.Errorf("invalid CHAT_REPLY_DELAY_MS value %d: must not be negative", *ms)
		}
		delay = time.Duration(*ms) * time.Millisecond
	}

	return ChatConfig{
		ReplyDelay:  delay,
		CatalogFile: strings.TrimSpace(os.Getenv("REPLY_CATALOG_FILE")),
	}, nil
}

// ProfileConfig 描述学生档案的存储位置，DBPath 为空时使用内存存储。
type ProfileConfig struct {
	DBPath string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
