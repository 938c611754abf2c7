// internal/config/config.go
package config

import "time"

// Config is the top-level document: one driver process, one or more
// independently-supervised ccTalk devices.
type Config struct {
	Driver DriverConfig `yaml:"driver"`
}

type DriverConfig struct {
	Devices []DeviceConfig `yaml:"devices"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	ID      string       `yaml:"id"`
	Serial  SerialConfig `yaml:"serial"`
	CcTalk  CcTalkConfig `yaml:"cctalk"`
	Coins   []CoinScalingConfig `yaml:"coin_scaling"`
	Telemetry TelemetryConfig   `yaml:"telemetry"`
	// AcceptAllBills is the bill validator's escrow-routing policy: route
	// every escrowed bill to the stacker rather than returning it. Only
	// consulted for BillValidator-category devices; coin acceptors have no
	// escrow step. Defaults to false (return every bill) so a freshly
	// deployed bill validator never stacks cash until explicitly enabled.
	AcceptAllBills bool `yaml:"accept_all_bills"`
}

// ---- SERIAL TRANSPORT ----

type SerialConfig struct {
	Device   string `yaml:"device"`
	BaudRate int    `yaml:"baud_rate"`
}

// ---- CCTALK PROTOCOL SETTINGS ----

type CcTalkConfig struct {
	Address                uint8 `yaml:"address"`
	Checksum16Bit          bool  `yaml:"checksum_16bit"`
	Encrypted              bool  `yaml:"encrypted"`
	NormalPollingIntervalMs int  `yaml:"normal_polling_interval_ms"`
	NotAlivePollingIntervalMs int `yaml:"not_alive_polling_interval_ms"`
	WriteTimeoutMs         int   `yaml:"write_timeout_ms"`
	ResponseTimeoutMs      int   `yaml:"response_timeout_ms"`
}

// NormalPollingInterval returns the configured value as a Duration, or zero
// if unset. The value replaces the Supervisor's 100ms fallback, which is
// used only when the device-reported polling interval is unusable; a usable
// device-reported interval takes precedence over it. Zero keeps the 100ms
// fallback.
func (c CcTalkConfig) NormalPollingInterval() time.Duration {
	return time.Duration(c.NormalPollingIntervalMs) * time.Millisecond
}

// NotAlivePollingInterval returns the configured override as a Duration, or
// zero if unset (the Supervisor falls back to its own default).
func (c CcTalkConfig) NotAlivePollingInterval() time.Duration {
	return time.Duration(c.NotAlivePollingIntervalMs) * time.Millisecond
}

// WriteTimeout and ResponseTimeout return the configured per-request values,
// or zero if unset. Nothing in the driver reads them: requests always use the
// Link Controller's 1500ms response timeout and a write timeout of
// 500ms + 2ms per frame byte.
func (c CcTalkConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMs) * time.Millisecond
}

func (c CcTalkConfig) ResponseTimeout() time.Duration {
	return time.Duration(c.ResponseTimeoutMs) * time.Millisecond
}

// ---- COIN COUNTRY SCALING (coin acceptors only; bills query the device) ----

type CoinScalingConfig struct {
	Country       string `yaml:"country"`
	ScalingFactor uint16 `yaml:"scaling_factor"`
	DecimalPlaces uint8  `yaml:"decimal_places"`
}

// ---- TELEMETRY SINKS ----

type TelemetryConfig struct {
	Status *StatusSinkConfig `yaml:"status"`
	Ingest  *IngestSinkConfig `yaml:"ingest"`
}

type StatusSinkConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	BaseSlot   uint16 `yaml:"base_slot"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}

func (c StatusSinkConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

type IngestSinkConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

func (c IngestSinkConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
