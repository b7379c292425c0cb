package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Status represents the installation status of an external tool
type Status struct {
	Name      string
	Installed bool
	Path      string
	Version   string
}

// Tool describes an external binary and how to ask it for its version
type Tool struct {
	Name        string
	Binary      string
	VersionFlag string
}

// FFmpeg returns the ffmpeg tool; empty binary means look up "ffmpeg" in PATH
func FFmpeg(binary string) Tool {
	return Tool{Name: "ffmpeg", Binary: orDefault(binary, "ffmpeg"), VersionFlag: "-version"}
}

// FFprobe returns the ffprobe tool; empty binary means look up "ffprobe" in PATH
func FFprobe(binary string) Tool {
	return Tool{Name: "ffprobe", Binary: orDefault(binary, "ffprobe"), VersionFlag: "-version"}
}

// WhisperCli returns the whisper.cpp CLI tool
func WhisperCli(binary string) Tool {
	return Tool{Name: "whisper-cli", Binary: orDefault(binary, "whisper-cli"), VersionFlag: "--version"}
}

// Check reports whether the tool is installed and returns its status
func Check(tool Tool) Status {
	path, err := exec.LookPath(tool.Binary)
	if err != nil {
		return Status{Name: tool.Name, Installed: false}
	}

	status := Status{
		Name:      tool.Name,
		Installed: true,
		Path:      path,
	}

	if tool.VersionFlag == "" {
		return status
	}

	// version info is on the first line for ffmpeg, ffprobe and whisper-cli
	cmd := exec.Command(path, tool.VersionFlag)
	output, err := cmd.Output()
	if err == nil {
		lines := strings.Split(string(output), "\n")
		if len(lines) > 0 {
			status.Version = strings.TrimSpace(lines[0])
		}
	}

	return status
}

// CheckFFmpeg checks if ffmpeg is installed and returns its status
func CheckFFmpeg(binary string) Status {
	return Check(FFmpeg(binary))
}

// CheckFFprobe checks if ffprobe is installed and returns its status
func CheckFFprobe(binary string) Status {
	return Check(FFprobe(binary))
}

// CheckWhisperCli checks if whisper-cli is installed and returns its status
func CheckWhisperCli(binary string) Status {
	return Check(WhisperCli(binary))
}

// MissingError lists tools that could not be found
type MissingError struct {
	Tools []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("required tools not found: %s", strings.Join(e.Tools, ", "))
}

// Require checks every tool and fails with a MissingError if any is absent
func Require(tools ...Tool) error {
	var missing []string
	for _, tool := range tools {
		if _, err := exec.LookPath(tool.Binary); err != nil {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.Binary))
		}
	}
	if len(missing) > 0 {
		return &MissingError{Tools: missing}
	}
	return nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
