package config

const (
	defaultParentDir         = "~/.local/share/skysplit/parents"
	defaultSplitDir          = "~/.local/share/skysplit/splits"
	defaultLogDir            = "~/.local/share/skysplit/logs"
	defaultLedgerPath        = "~/.local/share/skysplit/ledger.db"
	defaultCatalogPath       = "~/.local/share/skysplit/catalog.fits"
	defaultAPIBaseURL        = "https://www.tng-project.org/api"
	defaultWorkers           = 4
	defaultDelaySeconds      = 1
	defaultMaxAttempts       = 3
	defaultBackoffSeconds    = 2
	defaultMaxBackoffSeconds = 30
	defaultTimeoutSeconds    = 300
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ParentDir:  defaultParentDir,
			SplitDir:   defaultSplitDir,
			LogDir:     defaultLogDir,
			LedgerPath: defaultLedgerPath,
		},
		API: API{
			BaseURL: defaultAPIBaseURL,
		},
		Batch: Batch{
			Workers:      defaultWorkers,
			DelaySeconds: defaultDelaySeconds,
		},
		Retry: Retry{
			MaxAttempts:       defaultMaxAttempts,
			BackoffSeconds:    defaultBackoffSeconds,
			MaxBackoffSeconds: defaultMaxBackoffSeconds,
			TimeoutSeconds:    defaultTimeoutSeconds,
		},
		Catalog: Catalog{
			Path:   defaultCatalogPath,
			Append: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
