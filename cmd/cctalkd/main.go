// cmd/cctalkd/main.go
package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tamzrod/cctalk-driver/internal/cctalk"
	"github.com/tamzrod/cctalk-driver/internal/cctalklog"
	"github.com/tamzrod/cctalk-driver/internal/config"
	"github.com/tamzrod/cctalk-driver/internal/device"
	"github.com/tamzrod/cctalk-driver/internal/link"
	"github.com/tamzrod/cctalk-driver/internal/serialio"
	telemetryingest "github.com/tamzrod/cctalk-driver/internal/telemetry/ingest"
	telemetrymodbus "github.com/tamzrod/cctalk-driver/internal/telemetry/modbus"
	telemetrystatus "github.com/tamzrod/cctalk-driver/internal/telemetry/status"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: cctalkd <config.yaml>")
	}

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	var wg sync.WaitGroup
	supervisors := make([]*device.Supervisor, 0, len(cfg.Driver.Devices))
	var ports []*serialio.Port
	var eventChans []chan device.Event

	for _, dev := range cfg.Driver.Devices {
		sup, port, err := buildDevice(dev)
		if err != nil {
			log.Fatalf("device build failed (id=%s): %v", dev.ID, err)
		}
		supervisors = append(supervisors, sup)
		ports = append(ports, port)

		events := make(chan device.Event, 64)
		sup.Subscribe(events)
		eventChans = append(eventChans, events)

		wg.Add(1)
		go runDevice(&wg, dev, events)

		done := make(chan error, 1)
		sup.Initialize(func(err error) { done <- err })
		if err := <-done; err != nil {
			log.Printf("device initialize failed (id=%s): %v", dev.ID, err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Print("shutting down")
	for i, sup := range supervisors {
		done := make(chan error, 1)
		sup.Shutdown(func(err error) { done <- err })
		<-done
		sup.Close()
		_ = ports[i].Close()
		close(eventChans[i])
	}
	wg.Wait()
}

// buildDevice wires one ccTalk device's serial port, link controller, and
// Supervisor from its config entry. The returned Port is owned by the
// caller and must be closed after the Supervisor has shut down.
func buildDevice(dev config.DeviceConfig) (*device.Supervisor, *serialio.Port, error) {
	logger := cctalklog.New(dev.ID + ": ")

	port, err := serialio.Open(dev.Serial.Device, dev.Serial.BaudRate)
	if err != nil {
		return nil, nil, err
	}

	ctl := link.New(port, dev.CcTalk.Address, dev.CcTalk.Checksum16Bit, dev.CcTalk.Encrypted, logger)

	scaling := make(map[string]cctalk.CountryScaling, len(dev.Coins))
	for _, c := range dev.Coins {
		scaling[c.Country] = cctalk.CountryScaling{
			ScalingFactor: c.ScalingFactor,
			DecimalPlaces: c.DecimalPlaces,
		}
	}

	sup := device.New(ctl, device.Config{
		DefaultNormalPollingInterval: dev.CcTalk.NormalPollingInterval(),
		NotAlivePollingInterval:      dev.CcTalk.NotAlivePollingInterval(),
		CoinCountryScaling:           scaling,
		BillValidator:                billValidatorFor(dev),
		Logger:                       logger,
	})

	return sup, port, nil
}

// billValidatorFor builds the escrow-routing policy a BillValidator-category
// device consults for every bill held in escrow; unused for coin acceptors.
func billValidatorFor(dev config.DeviceConfig) device.BillValidationFunc {
	accept := dev.AcceptAllBills
	return func(position uint8, id cctalk.Identifier) bool {
		return accept
	}
}

// runDevice forwards one Supervisor's Event stream to its configured
// telemetry sinks until events is closed.
func runDevice(wg *sync.WaitGroup, dev config.DeviceConfig, events chan device.Event) {
	defer wg.Done()

	var statusTracker *telemetrystatus.Tracker
	if dev.Telemetry.Status != nil {
		client, err := telemetrymodbus.New(telemetrymodbus.Config{
			Endpoint: dev.Telemetry.Status.Endpoint,
			Timeout:  dev.Telemetry.Status.Timeout(),
		})
		if err != nil {
			log.Printf("status telemetry disabled (id=%s): %v", dev.ID, err)
		} else {
			defer client.Close()
			statusTracker = telemetrystatus.NewTracker(client, dev.Telemetry.Status.UnitID, dev.Telemetry.Status.BaseSlot, dev.ID)
		}
	}

	var ingestClient *telemetryingest.Client
	if dev.Telemetry.Ingest != nil {
		c, err := telemetryingest.New(telemetryingest.Config{
			Endpoint: dev.Telemetry.Ingest.Endpoint,
			Timeout:  dev.Telemetry.Ingest.Timeout(),
		})
		if err != nil {
			log.Printf("ingest telemetry disabled (id=%s): %v", dev.ID, err)
		} else {
			defer c.Close()
			ingestClient = c
		}
	}

	for ev := range events {
		switch ev.Kind {
		case device.EventLogMessage:
			// already written to the device logger by Supervisor.logf
		case device.EventResponseDecodeError:
			log.Printf("response decode error (id=%s): %s", dev.ID, ev.Text)
		case device.EventCreditAccepted:
			if ingestClient != nil {
				value, _ := ev.Identifier.Value()
				if err := ingestClient.SendCredit(dev.Telemetry.Ingest.UnitID, ev.Position, uint16(value)); err != nil {
					log.Printf("ingest send failed (id=%s): %v", dev.ID, err)
				}
			}
		}

		if statusTracker != nil {
			if err := statusTracker.HandleEvent(ev, time.Now()); err != nil {
				log.Printf("status telemetry write failed (id=%s): %v", dev.ID, err)
			}
		}
	}
}
