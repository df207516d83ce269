package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// defaultBootWait is how long the simulator gets to finish booting before
// we try to install. simctl boot returns before the device is usable.
const defaultBootWait = 2 * time.Second

// Simulator drives the iOS simulator through xcrun simctl.
type Simulator struct {
	runner Runner
	logger *slog.Logger

	// BootWait is how long Boot waits after asking simctl to boot.
	BootWait time.Duration
}

// NewSimulator creates a Simulator backed by the given runner.
func NewSimulator(runner Runner, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Simulator{runner: runner, logger: logger, BootWait: defaultBootWait}
}

// Boot boots the named simulator device and waits for it to settle. A boot
// failure is not returned: the device is usually already booted, and simctl
// reports that as an error.
func (s *Simulator) Boot(ctx context.Context, device string) error {
	s.logger.Info("booting simulator", "device", device)
	if err := s.runner.Run(ctx, "", "xcrun", "simctl", "boot", device); err != nil {
		s.logger.Debug("simctl boot failed, assuming device is already booted", "device", device, "error", err)
	}
	select {
	case <-time.After(s.BootWait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Install installs the .ipa at path onto the booted simulator.
func (s *Simulator) Install(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("ipa not found at %s: %w", path, err)
	}
	s.logger.Info("installing app", "ipa", path)
	return s.runner.Run(ctx, "", "xcrun", "simctl", "install", "booted", path)
}

// Launch launches the app with the given bundle identifier on the booted
// simulator and returns the process ID simctl reports.
func (s *Simulator) Launch(ctx context.Context, bundleID string) (string, error) {
	s.logger.Info("launching app", "bundle_id", bundleID)
	out, err := s.runner.Output(ctx, "", "xcrun", "simctl", "launch", "booted", bundleID)
	if err != nil {
		return "", err
	}
	return parseLaunchPID(out), nil
}

// parseLaunchPID extracts the PID from simctl launch output, which has the
// form "com.example.app: 12345".
func parseLaunchPID(out string) string {
	out = strings.TrimSpace(out)
	if i := strings.LastIndex(out, ":"); i >= 0 {
		return strings.TrimSpace(out[i+1:])
	}
	return out
}
