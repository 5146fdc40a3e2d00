package config

import (
	"fmt"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	S3     S3Config
	LLM    LLMConfig
	App    AppConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
}

type LLMConfig struct {
	OpenRouterKey    string
	PinferenceAPIKey string
	PinferenceTeamID string
}

type AppConfig struct {
	DatabaseURL    string
	UploadPassword string
}

// Load reads configuration from the environment (a local .env file is
// picked up when present) and fails eagerly on missing or malformed
// values so the process refuses to start misconfigured.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("PINFERENCE_TEAM_ID", "cmljpmmnu000teuilp6ke3rps")

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("SERVER_PORT"),
		},
		S3: S3Config{
			Endpoint:        viper.GetString("AWS_ENDPOINT_URL"),
			AccessKeyID:     viper.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("AWS_SECRET_ACCESS_KEY"),
			BucketName:      viper.GetString("AWS_S3_BUCKET_NAME"),
			Region:          viper.GetString("AWS_DEFAULT_REGION"),
		},
		LLM: LLMConfig{
			OpenRouterKey:    viper.GetString("OPENROUTER_KEY"),
			PinferenceAPIKey: viper.GetString("PINFERENCE_API_KEY"),
			PinferenceTeamID: viper.GetString("PINFERENCE_TEAM_ID"),
		},
		App: AppConfig{
			DatabaseURL:    viper.GetString("DATABASE_URL"),
			UploadPassword: viper.GetString("UPLOAD_PASSWORD"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"DATABASE_URL", c.App.DatabaseURL},
		{"AWS_ENDPOINT_URL", c.S3.Endpoint},
		{"AWS_DEFAULT_REGION", c.S3.Region},
		{"AWS_ACCESS_KEY_ID", c.S3.AccessKeyID},
		{"AWS_SECRET_ACCESS_KEY", c.S3.SecretAccessKey},
		{"AWS_S3_BUCKET_NAME", c.S3.BucketName},
		{"UPLOAD_PASSWORD", c.App.UploadPassword},
		{"OPENROUTER_KEY", c.LLM.OpenRouterKey},
		{"PINFERENCE_API_KEY", c.LLM.PinferenceAPIKey},
	}

	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required environment variable %s", r.name)
		}
	}

	for _, u := range []struct {
		name  string
		value string
	}{
		{"DATABASE_URL", c.App.DatabaseURL},
		{"AWS_ENDPOINT_URL", c.S3.Endpoint},
	} {
		parsed, err := url.Parse(u.value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("environment variable %s is not a valid URL: %q", u.name, u.value)
		}
	}

	return nil
}
