package module

import "dncsweep/internal/platform/config"

// Options holds configuration settings for the ledger module
type Options struct {
	AuditDir string
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	lc := cfg.Prefix("CORE_LEDGER_")
	return Options{
		AuditDir: lc.MayString("AUDIT_DIR", "audit"),
	}
}
