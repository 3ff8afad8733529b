package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AgingBucket labels a range of days outstanding for receivables reporting.
// MaxDays nil means open-ended.
type AgingBucket struct {
	Label   string `mapstructure:"label"`
	MinDays int    `mapstructure:"minDays"`
	MaxDays *int   `mapstructure:"maxDays"`
}

// LedgerPolicy is the tunable part of the accounting core: the VAT rate and
// the aging buckets used by receivables reports. Routing and the chart of
// accounts are compiled in and not configurable.
type LedgerPolicy struct {
	VATRate      float64       `mapstructure:"vatRate"`
	AgingBuckets []AgingBucket `mapstructure:"agingBuckets"`
}

func DefaultLedgerPolicy() LedgerPolicy {
	return LedgerPolicy{
		VATRate: 0.05,
		AgingBuckets: []AgingBucket{
			{Label: "0-30", MinDays: 0, MaxDays: intPtr(30)},
			{Label: "31-60", MinDays: 31, MaxDays: intPtr(60)},
			{Label: "60+", MinDays: 61, MaxDays: nil},
		},
	}
}

func intPtr(v int) *int { return &v }

// LedgerPolicyHolder serves the current policy and hot-reloads it when the
// config file changes. Invalid updates are ignored, never applied.
type LedgerPolicyHolder struct {
	current atomic.Value // holds LedgerPolicy
}

func NewLedgerPolicyHolder() (*LedgerPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("ledger")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/salesledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SALESLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultLedgerPolicy()
	v.SetDefault("ledger.vatRate", defaults.VATRate)
	v.SetDefault("ledger.agingBuckets", defaults.AgingBuckets)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var policy LedgerPolicy
	if err := v.UnmarshalKey("ledger", &policy); err != nil {
		return nil, err
	}
	if err := validateLedgerPolicy(policy); err != nil {
		return nil, err
	}

	holder := &LedgerPolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated LedgerPolicy
		if err := v.UnmarshalKey("ledger", &updated); err != nil {
			log.Printf("[ledger-config] reload failed: %v", err)
			return
		}
		if err := validateLedgerPolicy(updated); err != nil {
			log.Printf("[ledger-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
	})

	return holder, nil
}

// NewStaticLedgerPolicyHolder returns a holder pinned to the given policy.
// No file watching; callers that need determinism use this.
func NewStaticLedgerPolicyHolder(policy LedgerPolicy) (*LedgerPolicyHolder, error) {
	if err := validateLedgerPolicy(policy); err != nil {
		return nil, err
	}
	holder := &LedgerPolicyHolder{}
	holder.current.Store(policy)
	return holder, nil
}

// Current returns the active policy.
func (h *LedgerPolicyHolder) Current() LedgerPolicy {
	return h.current.Load().(LedgerPolicy)
}

func validateLedgerPolicy(policy LedgerPolicy) error {
	if policy.VATRate < 0 || policy.VATRate >= 1 {
		return errors.New("ledger: vatRate must be in [0, 1)")
	}
	for _, bucket := range policy.AgingBuckets {
		if strings.TrimSpace(bucket.Label) == "" {
			return errors.New("ledger: aging bucket label is required")
		}
		if bucket.MinDays < 0 {
			return errors.New("ledger: aging bucket minDays must be >= 0")
		}
		if bucket.MaxDays != nil && *bucket.MaxDays < bucket.MinDays {
			return errors.New("ledger: aging bucket maxDays must be >= minDays")
		}
	}
	return nil
}
