package session

import (
	"github.com/foxseedlab/monogatarun/internal/repository"
	"github.com/foxseedlab/monogatarun/internal/speech"
	"github.com/foxseedlab/monogatarun/internal/story"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		repo := do.MustInvoke[repository.Repository](i)
		generator := do.MustInvoke[story.Generator](i)
		synth := do.MustInvoke[speech.Synthesizer](i)
		return NewManager(repo, generator, synth), nil
	})
}
