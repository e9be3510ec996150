package story

import (
	"github.com/foxseedlab/monogatarun/internal/config"
	"github.com/foxseedlab/monogatarun/internal/story"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (story.Generator, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewMistralGenerator(MistralConfig{
			BaseURL: c.MistralBaseURL,
			APIKey:  c.MistralAPIKey,
			Model:   c.MistralModel,
		}), nil
	})
}
