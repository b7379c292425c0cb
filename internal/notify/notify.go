package notify

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/leonardotrapani/longscribe/internal/logging"
)

const appName = "Longscribe"

// Notification types accepted in config
const (
	TypeDesktop = "desktop"
	TypeLog     = "log"
	TypeNone    = "none"
)

// Notifier reports the end of a run to the user.
type Notifier interface {
	RunFinished(output string, chunks int)
	RunFailed(err error)
}

// New returns the notifier for the configured type. Disabled or unknown
// types get Nop.
func New(enabled bool, notifyType string) Notifier {
	if !enabled {
		return Nop{}
	}
	switch notifyType {
	case TypeDesktop:
		return Desktop{}
	case TypeLog:
		return Log{}
	default:
		return Nop{}
	}
}

// Desktop sends notifications through notify-send.
type Desktop struct {
	// Command defaults to notify-send.
	Command string
}

func (d Desktop) RunFinished(output string, chunks int) {
	d.send("normal", appName+": transcription done",
		fmt.Sprintf("%s (%d chunks)", filepath.Base(output), chunks))
}

func (d Desktop) RunFailed(err error) {
	d.send("critical", appName+": transcription failed", err.Error())
}

func (d Desktop) send(urgency, title, body string) {
	command := d.Command
	if command == "" {
		command = "notify-send"
	}
	cmd := exec.Command(command, "-a", appName, "-u", urgency, title, body)
	if err := cmd.Run(); err != nil {
		log := logging.Component("notify")
		log.Warn().Err(err).Msg("failed to send notification")
	}
}

// Log writes notifications to the diagnostic log.
type Log struct{}

func (Log) RunFinished(output string, chunks int) {
	log := logging.Component("notify")
	log.Info().Str("output", output).Int("chunks", chunks).Msg(appName + ": transcription done")
}

func (Log) RunFailed(err error) {
	log := logging.Component("notify")
	log.Error().Err(err).Msg(appName + ": transcription failed")
}

// Nop is a Notifier that does absolutely nothing.
// Useful in unit tests or headless runs.
type Nop struct{}

func (Nop) RunFinished(output string, chunks int) {}
func (Nop) RunFailed(err error)                   {}
