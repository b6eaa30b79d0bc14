package crm

import (
	"time"

	"dncsweep/internal/platform/config"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration

	// Per-tenant property names on the CRM side
	CompanyNameProp   string
	CompanyDomainProp string
	CompanyStatusProp string
	ContactStatusProp string

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration

	// MinInterval is the minimum spacing between any two calls
	MinInterval time.Duration
}

// FromConf reads the SERVICE_CRM_ namespace into Options.
// Base URL, token, and the status property names are required;
// a missing one panics at startup before any run work begins
func FromConf(cfg config.Conf) Options {
	cc := cfg.Prefix("SERVICE_CRM_")
	return Options{
		BaseURL:           cc.MustURL("BASE_URL").String(),
		Token:             cc.MustString("TOKEN"),
		UserAgent:         cc.MayString("USER_AGENT", "dncsweep"),
		Timeout:           cc.MayDuration("TIMEOUT", 10*time.Second),
		CompanyNameProp:   cc.MayString("COMPANY_NAME_PROPERTY", "name"),
		CompanyDomainProp: cc.MayString("COMPANY_DOMAIN_PROPERTY", "domain"),
		CompanyStatusProp: cc.MustString("COMPANY_STATUS_PROPERTY"),
		ContactStatusProp: cc.MustString("CONTACT_STATUS_PROPERTY"),
		MaxRetries:        cc.MayInt("MAX_RETRIES", 5),
		RetryBase:         cc.MayDuration("RETRY_BASE", 500*time.Millisecond),
		MinInterval:       cc.MayDuration("MIN_INTERVAL", 100*time.Millisecond),
	}
}
