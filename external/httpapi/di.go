package httpapi

import (
	"github.com/foxseedlab/monogatarun/internal/config"
	"github.com/foxseedlab/monogatarun/internal/session"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		manager := do.MustInvoke[*session.Manager](i)
		handlers := NewHandlers(manager)
		router := Routes(handlers, cfg.AuthJWTSecret, cfg.AuthDisabled)
		return NewServer(cfg.HTTPListenAddr, router), nil
	})
}
