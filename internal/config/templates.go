package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# yield-forecaster configuration

[simulation]
default_iterations = 1000
default_confidence = 0.95
default_volatility = 0.13
# 0 lets batch runs size the worker pool from the CPU count
batch_workers = 0

[market_data]
# "none" (synthetic fallback), "static" or "csv"
source = "none"
csv_path = ""
static_volatility = 0.13
static_price = 100.0
retry_attempts = 3

[store]
enabled = true
# path = "~/.config/yield-forecaster/forecasts.db"

[logging]
level = "info"
console = true
file = true
max_size_mb = 50
max_backups = 5
max_age_days = 30
`

// createTemplateConfig writes a commented starter config so a first run
// leaves something editable behind.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
