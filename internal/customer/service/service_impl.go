package service

import (
	"context"
	"time"

	"github.com/bizbooks/salesledger/internal/config"
	customerdomain "github.com/bizbooks/salesledger/internal/customer/domain"
	paymentdomain "github.com/bizbooks/salesledger/internal/payment/domain"
	saledomain "github.com/bizbooks/salesledger/internal/sale/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	SaleRepo    saledomain.Repository
	PaymentRepo paymentdomain.Repository
	Policy      *config.LedgerPolicyHolder
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	saleRepo    saledomain.Repository
	paymentRepo paymentdomain.Repository
	policy      *config.LedgerPolicyHolder
}

func NewService(p Params) customerdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("customer.service"),
		saleRepo:    p.SaleRepo,
		paymentRepo: p.PaymentRepo,
		policy:      p.Policy,
	}
}

func (s *Service) Balance(ctx context.Context, req customerdomain.BalanceRequest) (customerdomain.BalanceResponse, error) {
	if req.CustomerID == 0 {
		return customerdomain.BalanceResponse{}, customerdomain.ErrInvalidCustomer
	}

	// Aggregation needs the complete record sets; a capped listing would
	// silently understate the balance for customers with long histories.
	sales, err := s.saleRepo.FindAllByCustomer(ctx, s.db, req.CustomerID)
	if err != nil {
		return customerdomain.BalanceResponse{}, err
	}
	payments, err := s.paymentRepo.FindAllByCustomer(ctx, s.db, req.CustomerID)
	if err != nil {
		return customerdomain.BalanceResponse{}, err
	}

	resp := customerdomain.BalanceResponse{
		CustomerBalance: customerdomain.CalculateBalance(req.CustomerID, sales, payments),
	}
	if req.IncludeAging {
		buckets := make([]customerdomain.AgingBucketDef, 0)
		for _, bucket := range s.policy.Current().AgingBuckets {
			buckets = append(buckets, customerdomain.AgingBucketDef{
				Label:   bucket.Label,
				MinDays: bucket.MinDays,
				MaxDays: bucket.MaxDays,
			})
		}
		resp.Aging = customerdomain.AgeOutstanding(req.CustomerID, sales, buckets, time.Now().UTC())
	}
	return resp, nil
}
