package config

const (
	defaultWorkDir      = "."
	defaultOutputDir    = "processed_kmz"
	defaultLogFile      = "processed_kmz_log.txt"
	defaultOverlayName  = "Map"
	defaultDrawOrder    = 100
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultHistoryPath  = "history.db"
	projectConfigName   = "kmzclean.toml"
	userConfigPath      = "~/.config/kmzclean/config.toml"
	defaultHistoryLimit = 20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			LogFile:   defaultLogFile,
		},
		Overlay: Overlay{
			Name:      defaultOverlayName,
			DrawOrder: defaultDrawOrder,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: false,
			Path:    defaultHistoryPath,
			Limit:   defaultHistoryLimit,
		},
	}
}
