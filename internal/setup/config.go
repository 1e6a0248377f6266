package setup

import (
	"os"
	"strconv"
)

const (
	ProviderBedrock   = "bedrock"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Config holds process settings read from the environment. Pipeline tuning
// lives in the YAML planner config.
type Config struct {
	LogLevel      string
	APIPort       string
	PlacesAPIKey  string
	LLMProvider   string
	AWSRegion     string
	ClaudeModelID string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModelID string

	AnthropicKey     string
	AnthropicModelID string

	GeminiKey     string
	GeminiModelID string

	RedisAddr     string
	RedisPassword string
	TraceStream   string
	TraceMaxLen   int64
	RequestStream string
	ResultStream  string
	ConsumerGroup string
	ConsumerName  string
	ResultMaxLen  int64
	ClaimIdleSecs int
	RedisRetries  int
}

func LoadConfig() *Config {
	hostname, _ := os.Hostname()

	return &Config{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		APIPort:       getEnv("PLANNER_API_PORT", "18080"),
		PlacesAPIKey:  getEnv("GOOGLE_PLACES_API_KEY", ""),
		LLMProvider:   getEnv("LLM_PROVIDER", ProviderOpenAI),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID: getEnv("CLAUDE_MODEL_ID", "anthropic.claude-3-haiku-20240307-v1:0"),

		OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModelID: getEnv("OPENAI_MODEL_ID", ""),

		AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModelID: getEnv("ANTHROPIC_MODEL_ID", "claude-3-5-haiku-latest"),

		GeminiKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-1.5-flash"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		TraceStream:   getEnv("TRACE_STREAM", ""),
		TraceMaxLen:   int64(getEnvInt("TRACE_STREAM_MAXLEN", 10000)),
		RequestStream: getEnv("REQUEST_STREAM", "planner:requests"),
		ResultStream:  getEnv("RESULT_STREAM", "planner:results"),
		ConsumerGroup: getEnv("CONSUMER_GROUP", "planner-workers"),
		ConsumerName:  getEnv("CONSUMER_NAME", "worker-"+hostname),
		ResultMaxLen:  int64(getEnvInt("RESULT_STREAM_MAXLEN", 10000)),
		ClaimIdleSecs: getEnvInt("CLAIM_MIN_IDLE_SECONDS", 60),
		RedisRetries:  getEnvInt("REDIS_MAX_RETRIES", 3),
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}

	return value
}
