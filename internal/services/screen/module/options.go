package module

import "dncsweep/internal/platform/config"

// Options holds configuration settings for the screen module
type Options struct {
	Client          string
	Workers         int
	PageSize        int
	MatchThreshold  int
	ReviewThreshold int
	Scorer          string
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("CORE_SCREEN_")
	return Options{
		Client:          cfg.MayString("CLIENT", ""),
		Workers:         sc.MayInt("WORKERS", 4),
		PageSize:        sc.MayInt("PAGE_SIZE", 100),
		MatchThreshold:  sc.MayInt("MATCH_THRESHOLD", 90),
		ReviewThreshold: sc.MayInt("REVIEW_THRESHOLD", 85),
		Scorer:          sc.MayEnum("SCORER", "token_sort", "token_sort", "ratio"),
	}
}
