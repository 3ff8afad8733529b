package coa

import (
	"github.com/bizbooks/salesledger/internal/coa/registry"
	"go.uber.org/fx"
)

var Module = fx.Module("coa.registry",
	fx.Provide(registry.New),
)
