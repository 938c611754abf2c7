// internal/config/normalize.go
package config

const (
	defaultBaudRate              = 9600
	defaultResponseTimeoutMs     = 1500
	defaultNotAlivePollingMs     = 1000
	defaultStatusTimeoutMs       = 2000
	defaultIngestTimeoutMs       = 2000
)

// Normalize fills defaults into zero-valued fields.
// It is allowed to mutate configuration.
// Load calls it before any Validate(); since it only replaces zero values,
// negative values are left in place for Validate() to reject.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for i := range cfg.Driver.Devices {
		d := &cfg.Driver.Devices[i]

		if d.Serial.BaudRate == 0 {
			d.Serial.BaudRate = defaultBaudRate
		}
		if d.CcTalk.ResponseTimeoutMs == 0 {
			d.CcTalk.ResponseTimeoutMs = defaultResponseTimeoutMs
		}
		if d.CcTalk.NotAlivePollingIntervalMs == 0 {
			d.CcTalk.NotAlivePollingIntervalMs = defaultNotAlivePollingMs
		}
		// NormalPollingIntervalMs is left at 0 when unset: the Supervisor
		// falls back to whatever interval the device itself reports.

		if d.Telemetry.Status != nil && d.Telemetry.Status.TimeoutMs == 0 {
			d.Telemetry.Status.TimeoutMs = defaultStatusTimeoutMs
		}
		if d.Telemetry.Ingest != nil && d.Telemetry.Ingest.TimeoutMs == 0 {
			d.Telemetry.Ingest.TimeoutMs = defaultIngestTimeoutMs
		}
	}
}
