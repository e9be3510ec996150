package config

import (
	"fmt"
)

type Config struct {
	Env                        string
	HTTPListenAddr             string
	DatabaseURL                string
	AuthJWTSecret              string
	AuthDisabled               bool
	MistralAPIKey              string
	MistralBaseURL             string
	MistralModel               string
	GoogleCloudCredentialsJSON string
	TTSVoice                   string
	TTSLanguage                string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if !c.AuthDisabled && c.AuthJWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required unless AUTH_DISABLED=true")
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "HTTP_LISTEN_ADDR", value: c.HTTPListenAddr},
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "MISTRAL_API_KEY", value: c.MistralAPIKey},
		{name: "MISTRAL_BASE_URL", value: c.MistralBaseURL},
		{name: "MISTRAL_MODEL", value: c.MistralModel},
		{name: "GOOGLE_CLOUD_CREDENTIALS_JSON", value: c.GoogleCloudCredentialsJSON},
		{name: "TTS_VOICE", value: c.TTSVoice},
		{name: "TTS_LANGUAGE", value: c.TTSLanguage},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
