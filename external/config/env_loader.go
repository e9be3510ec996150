package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/monogatarun/internal/config"
)

type envConfig struct {
	Env                        string `env:"ENV" envDefault:"production"`
	HTTPListenAddr             string `env:"HTTP_LISTEN_ADDR" envDefault:":8080"`
	DatabaseURL                string `env:"DATABASE_URL,required"`
	AuthJWTSecret              string `env:"AUTH_JWT_SECRET"`
	AuthDisabled               bool   `env:"AUTH_DISABLED" envDefault:"false"`
	MistralAPIKey              string `env:"MISTRAL_API_KEY,required"`
	MistralBaseURL             string `env:"MISTRAL_BASE_URL" envDefault:"https://api.mistral.ai"`
	MistralModel               string `env:"MISTRAL_MODEL" envDefault:"mistral-large-latest"`
	GoogleCloudCredentialsJSON string `env:"GOOGLE_CLOUD_CREDENTIALS_JSON,required"`
	TTSVoice                   string `env:"TTS_VOICE" envDefault:"en-US-Standard-C"`
	TTSLanguage                string `env:"TTS_LANGUAGE" envDefault:"en-US"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		HTTPListenAddr:             raw.HTTPListenAddr,
		DatabaseURL:                raw.DatabaseURL,
		AuthJWTSecret:              raw.AuthJWTSecret,
		AuthDisabled:               raw.AuthDisabled,
		MistralAPIKey:              raw.MistralAPIKey,
		MistralBaseURL:             raw.MistralBaseURL,
		MistralModel:               raw.MistralModel,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		TTSVoice:                   raw.TTSVoice,
		TTSLanguage:                raw.TTSLanguage,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
