package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			URLMatch:          "raterhub",
			TaskParam:         "taskIds",
			SourceOffsetHours: 7,
			TargetZone:        "America/Los_Angeles",
		},
		Server: ServerConfig{
			Host:          "127.0.0.1",
			Port:          8501,
			MaxUploadSize: 32 << 20,
			Mode:          "release",
		},
		Export: ExportConfig{
			OutputDir: ".",
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}
