package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"i4.energy/across/wifigw/wifi"
)

func main() {
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port to connect to the WiFi module")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.String("ssid", "", "Access point SSID")
	flag.String("password", "", "Access point password")
	flag.Int("response-buffer", 2048, "Response buffer capacity in bytes")
	flag.Duration("request-timeout", 30*time.Second, "Staleness timeout for one HTTP transaction")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	driverConfig, err := wifi.NewConfigBuilder().
		WithAccessPoint(config.SSID, config.Password).
		WithResponseBufferSize(config.ResponseBuffer).
		WithSettings(wifi.Settings{
			BaudRate: config.BaudRate,
			DataBits: 8,
			Parity:   wifi.ParityNone,
			StopBits: wifi.StopBitsOne,
		}).
		WithDialer(wifi.SerialDialer{
			PortName: config.SerialPort,
		}).
		Build()
	if err != nil {
		logger.Error("Failed to create driver config", "error", err)
		os.Exit(1)
	}

	driver, err := wifi.New(context.Background(), driverConfig)
	if err != nil {
		logger.Error("Failed to create WiFi driver", "error", err)
		os.Exit(1)
	}

	logger.Info("Associating with access point", "ssid", config.SSID)
	if err := associate(driver, config.RequestTimeout); err != nil {
		logger.Error("Failed to associate with access point", "error", err, "ssid", config.SSID)
		driver.Close()
		os.Exit(1)
	}
	logger.Info("Associated with access point", "ssid", config.SSID)

	httpServer := &http.Server{
		Addr: config.BindAddress,
		Handler: &Server{
			Logger:  logger.With("component", "server"),
			Driver:  driver,
			Timeout: config.RequestTimeout,
		},
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// The server drains first so no in-flight fetch is left polling a
	// closed transport.
	logger.Info("Closing HTTP server")
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to gracefully shutdown server", "error", err)
		driver.Close()
		os.Exit(1)
	}

	logger.Info("Closing WiFi driver")
	if err := driver.Close(); err != nil {
		logger.Error("Failed to close driver", "error", err)
	}
}

// associate polls the driver until the access-point association holds.
// Phase progress resets the clock; only a phase that stops moving for
// the whole timeout counts as failure.
func associate(driver *wifi.Driver, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	lastPhase := driver.GetStatus()
	lastChange := time.Now()

	for range ticker.C {
		phase := driver.GetStatus()
		if phase != lastPhase {
			lastPhase = phase
			lastChange = time.Now()
		}
		if driver.Connected() {
			return nil
		}
		if time.Since(lastChange) > timeout {
			return fmt.Errorf("association stuck in phase %s", phase)
		}
	}
	return nil
}
