package speech

import (
	"github.com/foxseedlab/monogatarun/internal/config"
	"github.com/foxseedlab/monogatarun/internal/speech"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (speech.Synthesizer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewCloudTTSSynthesizer(CloudTTSConfig{
			CredentialsJSON: c.GoogleCloudCredentialsJSON,
			Voice:           c.TTSVoice,
			Language:        c.TTSLanguage,
		}), nil
	})
}
