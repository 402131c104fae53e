package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/fintrack/internal/auth"
	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/logger"
	"github.com/theirongolddev/fintrack/internal/server"
	"github.com/theirongolddev/fintrack/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type serverRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	Backend   string    `json:"backend"`
}

var (
	flagServeAddr         string
	flagServeDetach       bool
	flagServePIDFile      string
	flagServeLogFile      string
	flagServeEventsBuffer int
	flagServeChild        bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with JWT auth and change events",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show API server process and status",
	RunE:  runServeStatus,
}

var serveStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running API server",
	RunE:  runServeStop,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.PersistentFlags().StringVar(&flagServePIDFile, "pid-file", "", "PID file path (default next to the database)")
	serveCmd.PersistentFlags().StringVar(&flagServeLogFile, "log-file", "", "Log file path for detached mode")
	serveCmd.PersistentFlags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	serveCmd.Flags().BoolVar(&flagServeDetach, "detach", false, "Run the server as a background process")
	serveCmd.Flags().BoolVar(&flagServeChild, "child", false, "Internal: mark detached child process")
	_ = serveCmd.Flags().MarkHidden("child")

	serveCmd.AddCommand(serveStatusCmd)
	serveCmd.AddCommand(serveStopCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr() string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return cfg.Server.Addr
}

func servePIDFile() string {
	if flagServePIDFile != "" {
		return flagServePIDFile
	}
	return filepath.Join(filepath.Dir(config.DataPath(cfg)), "fintrack-serve.pid")
}

func serveLogFile() string {
	if flagServeLogFile != "" {
		return flagServeLogFile
	}
	return filepath.Join(filepath.Dir(config.DataPath(cfg)), "fintrack-serve.log")
}

// newTokens builds the token service from config and environment.
func newTokens() (*auth.Tokens, error) {
	ttl, err := time.ParseDuration(cfg.Server.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("server.token_ttl: %w", err)
	}
	tokens, err := auth.NewTokens(config.GetJWTSecret(cfg), cfg.Server.Issuer, ttl)
	if err != nil {
		return nil, fmt.Errorf("%w: set %s or server.jwt_secret", err, config.EnvJWTSecret)
	}
	return tokens, nil
}

// providerFor returns a local identity provider when st can hold accounts.
func providerFor(st store.SnapshotStore) auth.Provider {
	creds, ok := st.(auth.Credentials)
	if !ok {
		return nil
	}
	return auth.NewLocalProvider(creds)
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagServeDetach && flagServeChild {
		return errors.New("invalid serve launch mode")
	}
	if flagServeDetach {
		return startServeDetached()
	}
	return runServeForeground()
}

func startServeDetached() error {
	pidFile, logFile := servePIDFile(), serveLogFile()
	if err := ensureServerNotRunning(pidFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(pidFile), 0o750); err != nil {
		return fmt.Errorf("create server directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o750); err != nil {
		return fmt.Errorf("create server log directory: %w", err)
	}

	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open server log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached server: %w", err)
	}

	fmt.Printf("  Started server (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", pidFile)
	fmt.Printf("  API: http://%s/v1/status\n", serveAddr())
	fmt.Printf("  Log: %s\n", logFile)
	return nil
}

func runServeForeground() error {
	pidFile := servePIDFile()
	if err := ensureServerNotRunning(pidFile); err != nil {
		return err
	}

	tokens, err := newTokens()
	if err != nil {
		return err
	}
	scenario, err := finance.ParseScenario(cfg.Profile.RiskProfile)
	if err != nil {
		return fmt.Errorf("profile.risk_profile: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := os.MkdirAll(filepath.Dir(pidFile), 0o750); err != nil {
		return fmt.Errorf("create server directory: %w", err)
	}
	pid := os.Getpid()
	if err := writePID(pidFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(pidFile) }()

	rs := serverRuntimeState{
		PID:       pid,
		Addr:      serveAddr(),
		StartedAt: time.Now(),
		Backend:   cfg.Store.Backend,
	}
	_ = writeState(statePath(pidFile), rs)
	defer func() { _ = os.Remove(statePath(pidFile)) }()

	provider := providerFor(st)
	if provider == nil {
		logger.Get().Warn("store cannot hold accounts, sign-up and login are disabled",
			zap.String("backend", cfg.Store.Backend))
	}

	svc := server.New(server.Config{
		Addr:          serveAddr(),
		EventsBuffer:  flagServeEventsBuffer,
		Currency:      cfg.General.Currency,
		CurrentAge:    cfg.Profile.CurrentAge,
		RetirementAge: cfg.Profile.RetirementAge,
		Scenario:      scenario,
	}, st, tokens, provider)

	fmt.Printf("  fintrack API listening on http://%s\n", serveAddr())
	fmt.Printf("  Store: %s\n", cfg.Store.Backend)
	fmt.Printf("  Stop with: fintrack serve stop --pid-file %s\n", pidFile)

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	pidFile := servePIDFile()
	pid, err := readPID(pidFile)
	if err != nil {
		fmt.Printf("  Server: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Server: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := serveAddr()
	backend := ""
	if st, err := readState(statePath(pidFile)); err == nil {
		if st.Addr != "" {
			addr = st.Addr
		}
		backend = st.Backend
	}

	fmt.Printf("  Server PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)
	if backend != "" {
		fmt.Printf("  Store: %s\n", backend)
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st server.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	now := time.Now()
	fmt.Printf("  Up since: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Last write: %s\n", lastWrite(st.LastWriteAt, now))
	fmt.Printf("  Writes: %d\n", st.WriteCount)
	fmt.Printf("  Events retained: %d\n", st.EventCount)
	fmt.Printf("  Subscribers: %d\n", st.SubscriberCount)
	return nil
}

func lastWrite(t, now time.Time) string {
	if t.IsZero() {
		return "none yet"
	}
	return t.Local().Format(time.RFC3339) + " (" + cli.FormatRelative(t, now) + ")"
}

func runServeStop(_ *cobra.Command, _ []string) error {
	pidFile := servePIDFile()
	pid, err := readPID(pidFile)
	if err != nil {
		return errors.New("server is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find server process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal server process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(pidFile)
			_ = os.Remove(statePath(pidFile))
			fmt.Printf("  Stopped server (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("server (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureServerNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("server already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	//nolint:gosec // pid path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

func writeState(path string, st serverRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (serverRuntimeState, error) {
	var st serverRuntimeState
	//nolint:gosec // state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}
