package payment

import (
	"github.com/bizbooks/salesledger/internal/payment/repository"
	"github.com/bizbooks/salesledger/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
