package config

import (
	"log"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Auth
	JWTSecret string `env:"JWT_SECRET_KEY,required"`

	// CORS
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH" envDefault:"prompts/system_prompt.txt"`

	// Chat behaviour
	ChatRateLimit        int `env:"CHAT_RATE_LIMIT" envDefault:"10"`
	ChatContextMessages  int `env:"CHAT_CONTEXT_MESSAGES" envDefault:"20"`
	ChatTimeoutSeconds   int `env:"CHAT_TIMEOUT_SECONDS" envDefault:"30"`
	ChatMaxMessageLength int `env:"CHAT_MAX_MESSAGE_LENGTH" envDefault:"2000"`

	// Storage
	TasksFilePath         string `env:"TASKS_FILE_PATH" envDefault:"data/tasks.json"`
	ConversationsFilePath string `env:"CONVERSATIONS_FILE_PATH" envDefault:"data/conversations.json"`
	LogFilePath           string `env:"LOG_FILE_PATH" envDefault:"logs/chat_log.jsonl"`

	// Telegram gateway (optional)
	TelegramBotToken     string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramUserBindings string `env:"TELEGRAM_USER_BINDINGS"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// TelegramBindings parses TELEGRAM_USER_BINDINGS ("tgID=userID:tgID=userID")
// into a telegram-account -> task-manager-user map.
func (c *Config) TelegramBindings() map[int64]int64 {
	out := make(map[int64]int64)
	for _, pair := range strings.Split(c.TelegramUserBindings, ":") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		tgID, err1 := strconv.ParseInt(parts[0], 10, 64)
		userID, err2 := strconv.ParseInt(parts[1], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out[tgID] = userID
	}
	return out
}
