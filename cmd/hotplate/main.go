// Command hotplate runs the reflow hotplate controller: it reads the button,
// encoder and thermocouple, drives the heater and display, and publishes mode
// changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/reflow-hotplate/internal/config"
	"github.com/sweeney/reflow-hotplate/internal/display"
	"github.com/sweeney/reflow-hotplate/internal/gpio"
	"github.com/sweeney/reflow-hotplate/internal/logger"
	"github.com/sweeney/reflow-hotplate/internal/logic"
	"github.com/sweeney/reflow-hotplate/internal/mqtt"
	"github.com/sweeney/reflow-hotplate/internal/sensor"
	"github.com/sweeney/reflow-hotplate/internal/status"
	"github.com/sweeney/reflow-hotplate/internal/store"
	"github.com/sweeney/reflow-hotplate/internal/web"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the YAML configuration file")
	logLevel := flag.String("log-level", "", "Override log.level (debug, info, warn, error)")
	broker := flag.String("broker", "", `Override mqtt.broker ("" in the file disables MQTT)`)
	httpAddr := flag.String("http", "", "Override http.addr")
	simulate := flag.Bool("simulate", false, "Use the simulated plate instead of the thermocouple and heater")
	printConfig := flag.Bool("print-config", false, "Print the effective configuration and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(logger.ErrorLevel).Fatalw("load config", "path", *configPath, "error", err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.Log.Level = *logLevel
		case "broker":
			cfg.MQTT.Broker = *broker
		case "http":
			cfg.HTTP.Addr = *httpAddr
		case "simulate":
			cfg.Sensor.Simulate = *simulate
		}
	})

	if *printConfig {
		out, err := cfg.Marshal()
		if err != nil {
			logger.New(logger.ErrorLevel).Fatalw("marshal config", "error", err)
		}
		os.Stdout.Write(out)
		return
	}

	if err := config.Validate(cfg); err != nil {
		logger.New(logger.ErrorLevel).Fatalw("invalid config", "path", *configPath, "error", err)
	}

	log := logger.New(cfg.Log.Level)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatalw("fatal", "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	// Persisted operator configuration
	fileStore, err := store.OpenFile(cfg.Store.Path, cfg.Store.Size)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	manager := store.NewManager(fileStore, cfg.Store.Address)

	// GPIO: button, heater, encoder
	board, err := openBoard(openRealBoard, cfg, log)
	if err != nil {
		return err
	}
	defer board.Close()

	dev := devices{
		button:  board,
		heater:  board,
		encoder: board,
	}

	if cfg.Sensor.Simulate {
		plate := sensor.NewPlate(sensor.DefaultAmbient, time.Now)
		dev.sensor = plate
		dev.heater = plate
		log.Infow("simulating plate", "ambient", sensor.DefaultAmbient)
	} else {
		tc := sensor.NewSerial(cfg.Sensor.Port, cfg.Sensor.Baud, cfg.Sensor.StaleAfter, log.SugaredLogger)
		if err := tc.Connect(); err != nil {
			return fmt.Errorf("open sensor: %w", err)
		}
		defer tc.Close()
		dev.sensor = tc
	}

	// Display
	if cfg.Display.Port == "" {
		dev.display = display.NewTextDisplay(os.Stdout)
	} else {
		d, closer, err := display.OpenSerial(cfg.Display.Port, cfg.Display.Baud)
		if err != nil {
			return fmt.Errorf("open display: %w", err)
		}
		defer closer.Close()
		dev.display = d
	}

	// MQTT
	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.Discard{}
	if cfg.MQTT.Broker != "" {
		publisher = mqtt.NewRealPublisher(cfg.MQTT.Broker, log.SugaredLogger)
	} else {
		log.Infow("mqtt disabled")
	}
	defer publisher.Close()

	// Status tracker (before STARTUP so a snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      cfg.Control.Tick.Milliseconds(),
		SampleMs:    cfg.Control.SampleInterval.Milliseconds(),
		CooldownMs:  cfg.Control.Cooldown.Milliseconds(),
		HeartbeatMs: cfg.MQTT.Heartbeat.Milliseconds(),
		Hysteresis:  cfg.Control.Hysteresis,
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
		Simulated:   cfg.Sensor.Simulate,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Warnw("failed to publish startup event", "error", err)
	}

	// HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorw("http server error", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infow("http status server listening", "addr", cfg.HTTP.Addr)
	}

	log.Infow("started",
		"tick", cfg.Control.Tick,
		"sample", cfg.Control.SampleInterval,
		"hysteresis", cfg.Control.Hysteresis,
		"broker", cfg.MQTT.Broker,
		"heartbeat", cfg.MQTT.Heartbeat,
		"store", fileStore.Path())

	ticker := time.NewTicker(cfg.Control.Tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(dev, manager, publisher, publisher, tracker, log, cfg.Settings(), cfg.MQTT.Heartbeat, time.Now, ticker.C, sigCh)
}

// boardOpener opens the GPIO lines named in pins on chip.
type boardOpener func(chip string, pins gpio.Pins) (gpio.Board, error)

func openRealBoard(chip string, pins gpio.Pins) (gpio.Board, error) {
	b, err := gpio.NewRealBoard(chip, pins)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// openBoard opens the GPIO board. A bench simulation runs without a GPIO
// chip: the lines fall back to an idle fake board.
func openBoard(open boardOpener, cfg *config.Config, log *logger.Logger) (gpio.Board, error) {
	board, err := open(cfg.GPIO.Chip, cfg.Pins())
	if err == nil {
		return board, nil
	}
	if !cfg.Sensor.Simulate {
		return nil, fmt.Errorf("init gpio: %w", err)
	}
	log.Warnw("gpio unavailable, simulating without button or encoder", "chip", cfg.GPIO.Chip, "error", err)
	return gpio.NewFakeBoard(), nil
}

// devices groups the peripherals the control loop drives.
type devices struct {
	button  gpio.Button
	heater  gpio.Heater
	encoder gpio.Encoder
	sensor  sensor.Sensor
	display display.Display
}

func runLoop(dev devices, manager *store.Manager, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, log *logger.Logger, settings logic.Settings, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()

	cfg, restored, err := manager.Load()
	switch {
	case err != nil:
		cfg = logic.DefaultConfig()
		log.Errorw("load stored config, using defaults", "error", err)
	case restored:
		log.Infow("stored config missing or from another version, restored defaults",
			"preheat", cfg.PreheatTarget, "reflow", cfg.ReflowTarget)
	default:
		log.Infow("loaded stored config", "preheat", cfg.PreheatTarget, "reflow", cfg.ReflowTarget)
	}

	ctrl := logic.NewController(settings, cfg, dev.encoder, startTime)
	presenter := display.NewPresenter(dev.display)

	// Broker round trips happen on the queue's goroutine, never between
	// heater writes.
	outbox := mqtt.NewQueue(publisher, mqtt.DefaultQueueCapacity, log.SugaredLogger)
	sample := logic.NewInterval(settings.Timing.SampleInterval)

	var (
		lastView logic.View
		rendered bool
		faulted  bool
	)

	for {
		select {
		case s := <-sig:
			log.Infow("shutting down", "signal", s.String())
			if err := dev.heater.Set(false); err != nil {
				log.Errorw("heater off failed", "error", err)
			}

			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				c := control(ctrl)
				c.Heater = false
				tracker.Update(c)
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			}
			if err := outbox.PublishSystem(event); err != nil {
				log.Warnw("failed to queue shutdown event", "error", err)
			}
			if err := outbox.Close(); err != nil {
				log.Warnw("mqtt queue not flushed", "error", err)
			} else {
				log.Infow("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()

			pressed, err := dev.button.Pressed()
			if err != nil {
				log.Errorw("button read error", "error", err)
				pressed = false
			}
			if err := dev.encoder.Poll(); err != nil {
				log.Errorw("encoder read error", "error", err)
			}

			in := logic.Input{Time: t, Pressed: pressed}
			if ctrl.Mode() != logic.ModeConfig && sample.Due(t) {
				in.Sampled = true
				temp, err := dev.sensor.Read()
				if err != nil {
					in.SensorFault = true
					if !faulted {
						log.Warnw("sensor fault, heater held off", "error", err)
					}
				} else {
					in.Temperature = temp
					if faulted {
						log.Infow("sensor recovered", "temperature", temp)
					}
				}
				faulted = in.SensorFault
			}

			out := ctrl.Step(in)

			if err := dev.heater.Set(out.Heater); err != nil {
				log.Errorw("heater write error", "error", err)
			}

			if !rendered || out.View != lastView {
				if err := presenter.Render(out.View); err != nil {
					log.Errorw("display error", "error", err)
				}
				lastView = out.View
				rendered = true
			}

			if out.Save != nil {
				if err := manager.Save(*out.Save); err != nil {
					log.Errorw("save config failed", "error", err)
				} else {
					log.Infow("saved config", "preheat", out.Save.PreheatTarget, "reflow", out.Save.ReflowTarget)
				}
			}

			for _, event := range out.Events {
				log.Infow("event",
					"type", event.Type,
					"from", event.From,
					"to", event.To,
					"reason", event.Reason,
					"setpoint", event.Setpoint,
					"temperature", event.Temperature)
				if err := outbox.Publish(event); err != nil {
					log.Warnw("publish error", "error", err, "dropped", outbox.Dropped())
				}
			}

			if tracker != nil {
				tracker.Update(control(ctrl))
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if hbData := ctrl.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Infow("heartbeat",
					"uptime", hbData.Uptime,
					"transitions", hbData.Counts.Transitions,
					"reflow_cycles", hbData.Counts.ReflowCycles,
					"saves", hbData.Counts.Saves)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := outbox.PublishSystem(hbEvent); err != nil {
					log.Warnw("heartbeat publish error", "error", err)
				}
			}
		}
	}
}

// control copies the controller state for the status tracker.
func control(ctrl *logic.Controller) status.Control {
	return status.Control{
		Mode:        ctrl.Mode(),
		MenuState:   ctrl.MenuState(),
		Setpoint:    ctrl.Setpoint(),
		Temperature: ctrl.Temperature(),
		Heater:      ctrl.Heater(),
		Countdown:   ctrl.Countdown(),
		SensorFault: ctrl.SensorFault(),
		Adjusting:   ctrl.Adjusting(),
		Targets:     ctrl.Config(),
		Counts:      ctrl.CountsSnapshot(),
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
