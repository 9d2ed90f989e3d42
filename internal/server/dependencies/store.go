package dependencies

import (
	"fmt"

	"github.com/facturio/facturio/internal/store"
	"github.com/facturio/facturio/internal/store/memory"
	"github.com/facturio/facturio/internal/store/pg"
)

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Dialect is "memory" or "postgres". Defaults to memory.
	Dialect string `conf:"dialect" yaml:"dialect" json:"dialect"`

	Postgres pg.Config `conf:"postgres" yaml:"postgres" json:"postgres"`
}

// NewStore opens the store selected by the config.
func NewStore(config StoreConfig) (store.Store, error) {
	switch config.Dialect {
	case "", "memory":
		return memory.New(), nil
	case "postgres":
		return pg.Open(config.Postgres)
	default:
		return nil, fmt.Errorf("unsupported store dialect: %q", config.Dialect)
	}
}
