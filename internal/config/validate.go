// internal/config/validate.go
package config

import "fmt"

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	seenID := make(map[string]bool)
	seenDevicePath := make(map[string]string)

	for _, d := range cfg.Driver.Devices {
		if d.ID == "" {
			return fmt.Errorf("device config: id is required")
		}
		if seenID[d.ID] {
			return fmt.Errorf("device %q: duplicate device id", d.ID)
		}
		seenID[d.ID] = true

		if d.Serial.Device == "" {
			return fmt.Errorf("device %q: serial.device is required", d.ID)
		}
		if prev, exists := seenDevicePath[d.Serial.Device]; exists {
			return fmt.Errorf("device %q: serial path %q already claimed by device %q", d.ID, d.Serial.Device, prev)
		}
		seenDevicePath[d.Serial.Device] = d.ID

		if d.Serial.BaudRate < 0 {
			return fmt.Errorf("device %q: serial.baud_rate must not be negative", d.ID)
		}

		// Neither encryption nor 16-bit checksums are supported by the
		// command/link layer; this is not a configurable feature.
		if d.CcTalk.Encrypted {
			return fmt.Errorf("device %q: cctalk.encrypted is not supported", d.ID)
		}
		if d.CcTalk.Checksum16Bit {
			return fmt.Errorf("device %q: cctalk.checksum_16bit is not supported", d.ID)
		}
		if d.CcTalk.NormalPollingIntervalMs < 0 {
			return fmt.Errorf("device %q: cctalk.normal_polling_interval_ms must not be negative", d.ID)
		}
		if d.CcTalk.NotAlivePollingIntervalMs < 0 {
			return fmt.Errorf("device %q: cctalk.not_alive_polling_interval_ms must not be negative", d.ID)
		}
		if d.CcTalk.WriteTimeoutMs < 0 {
			return fmt.Errorf("device %q: cctalk.write_timeout_ms must not be negative", d.ID)
		}
		if d.CcTalk.ResponseTimeoutMs < 0 {
			return fmt.Errorf("device %q: cctalk.response_timeout_ms must not be negative", d.ID)
		}

		seenCountry := make(map[string]bool)
		for _, c := range d.Coins {
			if c.Country == "" {
				return fmt.Errorf("device %q: coin_scaling entry missing country", d.ID)
			}
			if seenCountry[c.Country] {
				return fmt.Errorf("device %q: duplicate coin_scaling entry for country %q", d.ID, c.Country)
			}
			seenCountry[c.Country] = true
			if c.ScalingFactor == 0 && c.DecimalPlaces == 0 {
				return fmt.Errorf("device %q: coin_scaling entry for %q has no scaling data", d.ID, c.Country)
			}
		}

		if s := d.Telemetry.Status; s != nil {
			if s.Endpoint == "" {
				return fmt.Errorf("device %q: telemetry.status.endpoint is required when status telemetry is enabled", d.ID)
			}
			if s.TimeoutMs < 0 {
				return fmt.Errorf("device %q: telemetry.status.timeout_ms must not be negative", d.ID)
			}
		}
		if in := d.Telemetry.Ingest; in != nil {
			if in.Endpoint == "" {
				return fmt.Errorf("device %q: telemetry.ingest.endpoint is required when ingest telemetry is enabled", d.ID)
			}
			if in.TimeoutMs < 0 {
				return fmt.Errorf("device %q: telemetry.ingest.timeout_ms must not be negative", d.ID)
			}
		}
	}

	return nil
}
