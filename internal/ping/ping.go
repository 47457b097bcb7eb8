package ping

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"ping-monitor/internal/models"
)

// DefaultTimeout is used when a probe is requested without a positive timeout
const DefaultTimeout = 5 * time.Second

// ErrCommandFailed is wrapped by Command when ping exits unsuccessfully
var ErrCommandFailed = errors.New("ping command output is not a success")

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Pinger runs the system ping command and parses its output
type Pinger struct {
	binary string
	goos   string
	run    runFunc
	now    func() time.Time
}

// New creates a new Pinger using the ping binary on PATH
func New() *Pinger {
	return &Pinger{
		binary: "ping",
		goos:   runtime.GOOS,
		run:    runCommand,
		now:    time.Now,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return stdout.Bytes(), fmt.Errorf("%w: %s", err, msg)
		}
		return stdout.Bytes(), err
	}
	return stdout.Bytes(), nil
}

// CommandArgs builds single-probe ping arguments for the given OS.
//
// Unix-like systems get "-c 1 -W <seconds> host", Windows gets
// "-n 1 -w <milliseconds> host". Unknown systems get nil.
func CommandArgs(goos, host string, timeout time.Duration) []string {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch goos {
	case "windows":
		return []string{"-n", "1", "-w", strconv.FormatInt(timeout.Milliseconds(), 10), host}
	case "linux", "darwin", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris", "illumos", "aix", "android", "ios":
		seconds := int64(timeout / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		return []string{"-c", "1", "-W", strconv.FormatInt(seconds, 10), host}
	default:
		return nil
	}
}

// Command runs ping with args and returns its standard output.
// A non-zero exit status is reported as an error wrapping ErrCommandFailed.
func (p *Pinger) Command(ctx context.Context, args []string) (string, error) {
	output, err := p.run(ctx, p.binary, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}
	return string(output), nil
}

// ProbeRoundTripStatistics pings host once and parses the round-trip summary
func (p *Pinger) ProbeRoundTripStatistics(ctx context.Context, host string, timeout time.Duration) (models.RoundTripStatistics, error) {
	output, err := p.command(ctx, host, timeout)
	if err != nil {
		return models.RoundTripStatistics{}, err
	}
	return ParseRoundTripStatistics(output)
}

// Probe pings host once and returns the outcome as an event.
// Successful output without a round-trip summary still counts as success.
func (p *Pinger) Probe(ctx context.Context, host string, timeout time.Duration) models.Event {
	timestamp := p.now()

	output, err := p.command(ctx, host, timeout)
	if err != nil {
		log.WithField("host", host).Debugf("Probe failed: %v", err)
		return models.NewFailureEvent(timestamp, host, err.Error())
	}

	stats, err := ParseRoundTripStatistics(output)
	if err != nil {
		log.WithField("host", host).Debug("Probe output has no round-trip summary")
		return models.NewSuccessEvent(timestamp, host, nil)
	}
	return models.NewSuccessEvent(timestamp, host, &stats)
}

func (p *Pinger) command(ctx context.Context, host string, timeout time.Duration) (string, error) {
	args := CommandArgs(p.goos, host, timeout)
	if args == nil {
		return "", fmt.Errorf("ping arguments unknown for %s", p.goos)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	// Leave the command its own timeout before the context kills it
	ctx, cancel := context.WithTimeout(ctx, timeout+time.Second)
	defer cancel()

	return p.Command(ctx, args)
}
