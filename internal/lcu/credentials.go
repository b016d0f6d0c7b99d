package lcu

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/saintfish/chardet"
	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/simplifiedchinese"

	"riftwatch/internal/status"
)

var (
	tokenPattern = regexp.MustCompile(`--remoting-auth-token=([\w-]+)`)
	portPattern  = regexp.MustCompile(`--app-port=(\d+)`)
)

// DiscoveryConfig parameterizes credential discovery.
type DiscoveryConfig struct {
	// ProcessName is the client UX process to look for.
	ProcessName string
	// LogDir is the directory holding the client's launch logs.
	LogDir string
	// MinLogSize rejects log files below this many bytes as still being
	// written or empty.
	MinLogSize int64
}

// AutodetectCredentials recovers the control API token and port from a
// running client. It narrates every step to sink and never returns a partial
// pair: on any failure the result is a zero Credentials and false.
func AutodetectCredentials(cfg DiscoveryConfig, sink status.Sink) (Credentials, bool) {
	sink.Publish("info", "Detecting client credentials (process + log)...")

	if !isClientRunning(cfg.ProcessName, sink) {
		sink.Publish("warning", "Process check failed; cannot connect to the client.")
		return Credentials{}, false
	}

	logFile, ok := latestLogFile(cfg.LogDir, cfg.MinLogSize, sink)
	if !ok {
		sink.Publish("warning", "Client is running but no usable log file was found.")
		return Credentials{}, false
	}
	sink.Publish("info", fmt.Sprintf("Found log file: %s", filepath.Base(logFile)))

	cr, ok := extractLogParams(logFile, sink)
	if !ok {
		sink.Publish("warning", "Client is running but the log holds no credentials.")
		return Credentials{}, false
	}

	sink.Publish("success", "Client process and credentials detected.")
	return cr, true
}

// isClientRunning checks for the client UX process by name.
func isClientRunning(name string, sink status.Sink) bool {
	procs, err := process.Processes()
	if err != nil {
		sink.Publish("error", fmt.Sprintf("Cannot enumerate processes: %v", err))
		return false
	}
	for _, p := range procs {
		pname, err := p.Name()
		if err != nil {
			continue
		}
		if strings.EqualFold(pname, name) {
			sink.Publish("info", fmt.Sprintf("Process %s is running.", name))
			return true
		}
	}
	sink.Publish("warning", fmt.Sprintf("Process %s not found; start the client first.", name))
	return false
}

// latestLogFile picks the most recently modified launch log in dir.
func latestLogFile(dir string, minSize int64, sink status.Sink) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		sink.Publish("error", fmt.Sprintf("Log directory not found: %s", dir))
		return "", false
	}

	var (
		latest     string
		latestInfo os.FileInfo
	)
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, "_LeagueClientUx.log") || !strings.Contains(name, "T") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if latestInfo == nil || info.ModTime().After(latestInfo.ModTime()) {
			latest = filepath.Join(dir, name)
			latestInfo = info
		}
	}

	if latestInfo == nil {
		sink.Publish("warning", fmt.Sprintf("No matching log file in %s.", dir))
		return "", false
	}
	if latestInfo.Size() < minSize {
		sink.Publish("warning", fmt.Sprintf("Newest log file (%s) is too small; it may be empty or still being written.", filepath.Base(latest)))
		return "", false
	}
	return latest, true
}

// extractLogParams pulls the auth token and app port out of the log file.
// Both patterns must match.
func extractLogParams(path string, sink status.Sink) (Credentials, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		sink.Publish("error", fmt.Sprintf("Cannot read log file: %v", err))
		return Credentials{}, false
	}

	enc, encName := detectEncoding(raw)
	sink.Publish("info", fmt.Sprintf("Detected log encoding: %s", encName))

	content := decodeTolerant(raw, enc)

	tokenMatch := tokenPattern.FindStringSubmatch(content)
	portMatch := portPattern.FindStringSubmatch(content)
	if tokenMatch == nil || portMatch == nil {
		sink.Publish("warning", "Log file lacks --remoting-auth-token or --app-port.")
		return Credentials{}, false
	}

	port, err := strconv.Atoi(portMatch[1])
	if err != nil || port <= 0 {
		sink.Publish("warning", fmt.Sprintf("Invalid app port %q in log file.", portMatch[1]))
		return Credentials{}, false
	}

	token := tokenMatch[1]
	sink.Publish("info", fmt.Sprintf("Extracted credentials: token=%s..., port=%d", prefix(token, 8), port))
	return Credentials{Token: token, Port: port}, true
}

// detectEncoding sniffs the charset of the log head. Launch logs on localized
// installs are frequently GBK rather than UTF-8, so GBK is the fallback.
func detectEncoding(raw []byte) (encoding.Encoding, string) {
	head := raw
	if len(head) > 4096 {
		head = head[:4096]
	}
	result, err := chardet.NewTextDetector().DetectBest(head)
	if err == nil && result != nil {
		if enc, lookupErr := ianaindex.IANA.Encoding(result.Charset); lookupErr == nil && enc != nil {
			return enc, result.Charset
		}
	}
	return simplifiedchinese.GBK, "GBK"
}

// decodeTolerant converts raw bytes to a string, substituting the replacement
// rune for anything the decoder rejects. Token and port are plain ASCII, so
// even the byte-for-byte fallback keeps the regexes matchable.
func decodeTolerant(raw []byte, enc encoding.Encoding) string {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(bytes.ToValidUTF8(raw, []byte("�")))
	}
	return string(out)
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
