package app

import (
	"github.com/specialistvlad/pschema/internal/backend"
	"github.com/specialistvlad/pschema/internal/backend/badger"
	"github.com/specialistvlad/pschema/internal/backend/ntriples"
	"github.com/specialistvlad/pschema/internal/backend/postgres"
	"github.com/specialistvlad/pschema/internal/backend/s3"
	"github.com/specialistvlad/pschema/internal/backend/sqlite"
)

// coreModules is the definitive list of all backends that are compiled into
// the pschema binary.
func coreModules(cfg *Config) []backend.Module {
	return []backend.Module{
		&ntriples.Module{},
		sqlite.Module{},
		badger.Module{},
		postgres.Module{},
		&s3.Module{Config: cfg.S3},
	}
}
