package module

import "dncsweep/internal/platform/config"

// Options holds configuration settings for the apply module
type Options struct {
	Workers       int
	BatchSize     int
	CompanyStatus string
	ContactStatus string
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("CORE_APPLY_")
	return Options{
		Workers:       ac.MayInt("WORKERS", 2),
		BatchSize:     ac.MayInt("BATCH_SIZE", 100),
		CompanyStatus: ac.MayString("COMPANY_STATUS", "Do Not Contact"),
		ContactStatus: ac.MayString("CONTACT_STATUS", "Do Not Contact"),
	}
}
