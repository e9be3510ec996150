package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/auth/credentials"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/foxseedlab/monogatarun/internal/speech"
	"google.golang.org/api/option"
)

const audioDataURIPrefix = "data:audio/mp3;base64,"

type CloudTTSConfig struct {
	CredentialsJSON string
	Voice           string
	Language        string
}

type CloudTTSSynthesizer struct {
	credentialsJSON string
	voice           string
	language        string
}

func NewCloudTTSSynthesizer(cfg CloudTTSConfig) speech.Synthesizer {
	return &CloudTTSSynthesizer{
		credentialsJSON: cfg.CredentialsJSON,
		voice:           cfg.Voice,
		language:        cfg.Language,
	}
}

func (s *CloudTTSSynthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	slog.Info("starting cloud tts synthesis", "voice", s.voice, "language", s.language, "text_chars", len(text))

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(s.credentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return "", fmt.Errorf("detect credentials: %w", err)
	}

	client, err := texttospeech.NewClient(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return "", err
	}
	defer func() {
		_ = client.Close()
	}()

	resp, err := client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: s.language,
			Name:         s.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return "", fmt.Errorf("synthesize speech: %w", err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return "", errors.New("synthesized audio is empty")
	}

	return audioDataURIPrefix + base64.StdEncoding.EncodeToString(resp.GetAudioContent()), nil
}
