package sale

import (
	"github.com/bizbooks/salesledger/internal/sale/repository"
	"github.com/bizbooks/salesledger/internal/sale/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sale.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
