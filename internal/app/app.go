// Copyright 2026 The Parley Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package app assembles the process: it owns the ordered subsystem
// initialization, the shutdown controller, and the core commands (/quit,
// /upgrade). Everything runs on the cooperative main thread; the only
// concurrency is the signal bridge.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/parleychat/parley/internal/boot"
	"github.com/parleychat/parley/internal/command"
	"github.com/parleychat/parley/internal/completion"
	"github.com/parleychat/parley/internal/config"
	"github.com/parleychat/parley/internal/diagnostics"
	"github.com/parleychat/parley/internal/hook"
	"github.com/parleychat/parley/internal/home"
	"github.com/parleychat/parley/internal/introspect"
	"github.com/parleychat/parley/internal/keybind"
	"github.com/parleychat/parley/internal/layout"
	"github.com/parleychat/parley/internal/lifecycle"
	"github.com/parleychat/parley/internal/logging"
	"github.com/parleychat/parley/internal/netinit"
	"github.com/parleychat/parley/internal/plugin"
	"github.com/parleychat/parley/internal/proxy"
	"github.com/parleychat/parley/internal/secure"
	"github.com/parleychat/parley/internal/session"
	"github.com/parleychat/parley/internal/startup"
	"github.com/parleychat/parley/internal/strutil"
	"github.com/parleychat/parley/internal/ui"
	"github.com/parleychat/parley/internal/upgrade"
	"github.com/parleychat/parley/internal/version"
)

// Options injects the seams the app does not own: the terminal interface
// callbacks, the output writer, and the process-termination primitives.
// Zero values get sensible defaults; tests replace Exit and Abort.
type Options struct {
	// Out receives startup output (banner, warnings, color table). Default
	// os.Stdout.
	Out io.Writer

	// UIInit brings the terminal interface up (init step). Nil means no
	// interface (tests, headless runs).
	UIInit ui.InitFunc

	// UIEnd shuts the terminal interface down (teardown). May be nil.
	UIEnd ui.EndFunc

	// Exit terminates the process with a code. Default os.Exit.
	Exit func(code int)

	// Abort terminates the process abnormally, preserving a core dump.
	// Default raises SIGABRT.
	Abort func()
}

// App is the assembled process: every subsystem, in init order.
type App struct {
	cfg     *startup.Config
	homeDir string
	opts    Options

	state      *lifecycle.State
	bridge     *lifecycle.Bridge
	runner     *boot.Runner
	hooks      *hook.Registry
	structs    *introspect.Registry
	commands   *command.Registry
	completer  *completion.Engine
	keys       *keybind.Table
	proxies    *proxy.Manager
	sessions   *session.Manager
	confStore  *config.Store
	secStore   *secure.Store
	logFile    *logging.Log
	log        *slog.Logger
	crash      *diagnostics.Recorder
	layouts    *layout.Store
	transport  *netinit.Transport
	plugins    *plugin.Host
	upgrader   *upgrade.Controller
	homeLock   *flock.Flock
	charset    string
	baseLayout []layout.Window

	// waiting buffers output produced before the interface is up; it is
	// flushed to Out when the interface initializes, or during shutdown if
	// it never did.
	waiting []string
	uiReady bool

	restored bool
	crashing bool
	done     bool
}

// New assembles an app from a parsed startup configuration and a resolved
// home directory. Nothing is initialized yet; Init runs the sequence.
func New(cfg *startup.Config, homeDir string, opts Options) *App {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}
	if opts.Abort == nil {
		opts.Abort = func() {
			_ = syscall.Kill(os.Getpid(), syscall.SIGABRT)
		}
	}

	state := lifecycle.NewState(cfg.Args)
	state.SetUpgrading(cfg.Upgrading)

	return &App{
		cfg:     cfg,
		homeDir: homeDir,
		opts:    opts,
		state:   state,
		bridge:  lifecycle.NewBridge(state),
		log:     slog.New(slog.DiscardHandler),
	}
}

// State returns the process lifecycle state.
func (a *App) State() *lifecycle.State { return a.state }

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager { return a.sessions }

// Commands returns the command registry.
func (a *App) Commands() *command.Registry { return a.commands }

// Hooks returns the hook registry.
func (a *App) Hooks() *hook.Registry { return a.hooks }

// Logger returns the structured logger (a discard logger before the log
// file opens).
func (a *App) Logger() *slog.Logger { return a.log }

// SetLayout records the current window arrangement. The interface layer
// pushes it here; it is persisted on exit when save_layout_on_exit is set.
func (a *App) SetLayout(windows []layout.Window) {
	a.baseLayout = windows
}

// Layout returns the arrangement loaded at startup (empty after an upgrade,
// which keeps the live arrangement).
func (a *App) Layout() []layout.Window {
	return a.baseLayout
}

// Init runs the full subsystem sequence. On failure the caller is expected
// to invoke Shutdown, which tears down exactly the steps that completed.
func (a *App) Init() error {
	a.runner = boot.NewRunner(a.steps()...)
	return a.runner.Run()
}

// steps builds the init sequence. Order is load-bearing: each step may
// assume everything above it is up, and teardown replays completed steps
// in reverse.
func (a *App) steps() []boot.Step {
	return []boot.Step{
		{
			Name: "charset",
			Init: func() error {
				cs, ok := ui.DetectCharset()
				a.charset = cs
				if !ok {
					a.print("warning: locale charset not recognized, assuming UTF-8")
				}
				return nil
			},
			Shutdown: func() { a.charset = "" },
		},
		{
			Name:     "signals",
			Init:     func() error { a.bridge.Install(); return nil },
			Shutdown: a.bridge.Uninstall,
		},
		{
			Name: "registries",
			Init: func() error {
				a.hooks = hook.NewRegistry()
				a.structs = introspect.NewRegistry()
				registerCoreDescriptors(a.structs)
				return nil
			},
			Shutdown: func() {
				a.structs.End()
				a.hooks.RemoveAll()
			},
		},
		{
			Name: "commands",
			Init: func() error {
				a.commands = command.NewRegistry()
				a.registerCoreCommands()
				a.completer = completion.NewEngine(a.commands)
				a.completer.Init(a.hooks)
				a.keys = keybind.NewTable()
				a.keys.InitDefaults()
				a.sessions = session.NewManager()
				a.proxies = proxy.NewManager()
				return nil
			},
			Shutdown: func() {
				a.proxies.FreeAll()
				a.sessions.Reset()
				a.keys.End()
				a.completer.End(a.hooks)
				a.commands.End()
			},
		},
		{
			Name: "crypto",
			Init: func() error {
				if a.cfg.NoCrypto {
					return nil
				}
				return secure.InitCrypto()
			},
		},
		{
			// The lock precedes every step that touches a file under home:
			// a process that loses the lock race must not have written (and
			// must not write during its teardown) into a directory owned by
			// the winner.
			Name: "home-lock",
			Init: func() error {
				l, err := home.Lock(a.homeDir)
				if err != nil {
					return err
				}
				a.homeLock = l
				return nil
			},
			Shutdown: func() {
				home.Unlock(a.homeLock)
				a.homeLock = nil
			},
		},
		{
			// Opening the log before the stores means it closes after their
			// save-on-exit shutdowns, so persistence errors are recorded.
			Name: "logging",
			Init: func() error {
				l, err := logging.Open(a.homeDir, logging.FromEnv())
				if err != nil {
					return err
				}
				a.logFile = l
				a.log = l.Logger()
				a.log.Info("parley starting",
					"version", version.Version(),
					"home", a.homeDir,
					"upgrading", a.state.Upgrading())
				return nil
			},
			Shutdown: func() {
				a.log.Info("parley stopped")
				a.log = slog.New(slog.DiscardHandler)
				_ = a.logFile.Close()
			},
		},
		{
			Name: "diagnostics",
			Init: func() error {
				r, err := diagnostics.Init(a.homeDir)
				if err != nil {
					return err
				}
				a.crash = r
				return nil
			},
			Shutdown: func() { a.crash.End() },
		},
		{
			Name: "secure-store",
			Init: func() error {
				s, err := secure.Init(a.homeDir)
				if err != nil {
					return err
				}
				a.secStore = s
				return nil
			},
			Shutdown: func() {
				if err := a.secStore.Write(); err != nil {
					a.log.Error("cannot save secure store", "error", err)
				}
				a.secStore.Free()
			},
		},
		{
			Name: "config",
			Init: func() error {
				a.confStore = config.NewStore(a.homeDir)
				if err := a.confStore.Init(); err != nil {
					return err
				}
				if a.confStore.FirstStart() {
					a.state.MarkFirstStart()
				}
				return nil
			},
			Shutdown: func() {
				// Loaded() is true only after a successful Read: a failure
				// before then must never replace the file with the in-memory
				// defaults.
				if a.confStore.Loaded() && a.confStore.Options().Look.SaveConfigOnExit {
					if err := a.confStore.Write(); err != nil {
						a.log.Error("cannot save config", "error", err)
					}
				}
				a.confStore.Free()
			},
		},
		{
			Name: "info-hooks",
			Init: func() error { a.registerInfoHooks(); return nil },
		},
		{
			Name: "read-options",
			Init: func() error {
				if err := a.secStore.Read(); err != nil {
					return err
				}
				if err := a.confStore.Read(); err != nil {
					return err
				}
				for _, p := range a.confStore.Options().Proxies {
					a.proxies.Add(&proxy.Proxy{
						Name:    p.Name,
						Type:    p.Type,
						Address: p.Address,
						Port:    p.Port,
					})
				}
				return nil
			},
		},
		{
			Name: "layout",
			Init: func() error {
				s, err := layout.Open(a.homeDir)
				if err != nil {
					return err
				}
				a.layouts = s
				return nil
			},
			Shutdown: func() {
				if a.confStore.Options().Look.SaveLayoutOnExit && len(a.baseLayout) > 0 {
					if err := a.layouts.Save(a.baseLayout); err != nil {
						a.log.Error("cannot save layout", "error", err)
					}
				}
				if err := a.layouts.Close(); err != nil {
					a.log.Error("cannot close layout store", "error", err)
				}
			},
		},
		{
			Name: "network",
			Init: func() error {
				if a.cfg.NoCrypto {
					return nil
				}
				t, err := netinit.Init()
				if err != nil {
					return err
				}
				a.transport = t
				return nil
			},
			Shutdown: func() { a.transport.End() },
		},
		{
			Name: "interface",
			Init: func() error {
				if a.opts.UIInit != nil {
					if err := a.opts.UIInit(); err != nil {
						return err
					}
				}
				a.uiReady = true
				a.flushWaiting()
				return nil
			},
			Shutdown: func() {
				a.uiReady = false
				if a.opts.UIEnd != nil {
					a.opts.UIEnd(!a.crashing)
				}
			},
		},
		{
			Name: "upgrade-restore",
			Init: func() error {
				if !a.state.Upgrading() {
					return nil
				}
				// A failed restore is not fatal: the handoff files stay on
				// disk for recovery and startup continues without the
				// captured state.
				if err := a.upgradeController().Restore(a.state, a.sessions); err != nil {
					a.log.Warn("upgrade restore failed, continuing without restored state",
						"error", err)
					a.print("warning: upgrade restore failed (%v), handoff files kept in %s",
						err, a.homeDir)
					return nil
				}
				a.restored = true
				return nil
			},
		},
		{
			Name: "startup-output",
			Init: func() error {
				opts := a.confStore.Options()
				ui.Banner(a.opts.Out, opts.Startup.DisplayLogo, opts.Startup.DisplayVersion)
				if a.state.FirstStart() {
					ui.Welcome(a.opts.Out)
				}
				for _, w := range ui.TermWarnings() {
					a.print("%s", w)
				}
				if cmds := opts.Startup.CommandBeforePlugins; cmds != "" {
					a.commands.RunBatch(cmds, a.log)
				}
				return nil
			},
		},
		{
			Name: "plugins",
			Init: func() error {
				a.plugins = plugin.NewHost(plugin.API{
					Hooks:    a.hooks,
					Commands: a.commands,
					Sessions: a.sessions,
					Log:      a.log,
				}, a.cfg.NoPluginUnload)
				autoload := a.cfg.AutoLoadPlugins && a.confStore.Options().Plugins.AutoLoad
				if err := a.plugins.Init(autoload, a.pluginArgs()); err != nil {
					return err
				}
				if cmds := a.confStore.Options().Startup.CommandAfterPlugins; cmds != "" {
					a.commands.RunBatch(cmds, a.log)
				}
				if a.cfg.RunCommands != "" {
					a.commands.RunBatch(a.cfg.RunCommands, a.log)
				}
				return nil
			},
			Shutdown: func() { a.plugins.End() },
		},
		{
			Name: "finish",
			Init: func() error {
				if a.state.Upgrading() {
					if a.restored {
						return a.upgradeController().Finalize()
					}
					// Failed restore: the handoff stays on disk and the
					// saved layout is not applied either — an upgrade keeps
					// the live arrangement, restored or not.
					return nil
				}
				// Fresh start: apply the arrangement saved by the previous
				// run.
				windows, err := a.layouts.Load()
				if err != nil {
					a.log.Warn("cannot load saved layout", "error", err)
					return nil
				}
				a.baseLayout = windows
				if len(windows) > 0 {
					a.hooks.Send("layout_apply", "")
				}
				return nil
			},
		},
	}
}

// pluginArgs forwards the positional plugin tokens, plus a synthetic
// option telling the script-hosting plugin not to autoload when
// -s/--no-script was given.
func (a *App) pluginArgs() []string {
	args := a.cfg.PluginArgs
	if !a.cfg.AutoLoadScripts {
		args = append(append([]string(nil), args...), "script:no-autoload")
	}
	return args
}

// Shutdown tears the process down: completed init steps in reverse order,
// then process termination.
//
// crash true bypasses the ordered teardown entirely: nothing is persisted
// and no subsystem End runs from a possibly corrupted state — the waiting
// output is flushed, the log and transport are dropped, a post-mortem dump
// goes to the crash file, and the process aborts (core dump). The crash
// file stays installed so the abort trace itself is captured.
//
// Otherwise returnCode >= 0 terminates the process with that code; a
// negative code returns to the caller instead, which the upgrade re-exec
// path and tests rely on. Safe to call more than once and safe before
// Init.
func (a *App) Shutdown(returnCode int, crash bool) {
	if crash {
		if !a.done {
			a.done = true
			a.crashing = true

			a.flushWaiting()
			a.crash.Dump("abnormal termination")
			a.log.Error("abnormal termination")
			_ = a.logFile.Close()
			a.transport.End()
			strutil.End()
		}
		a.opts.Abort()
		return
	}

	if !a.done {
		a.done = true

		a.flushWaiting()
		if a.runner != nil {
			a.runner.Teardown()
		}
		strutil.End()
	}

	if returnCode >= 0 {
		a.opts.Exit(returnCode)
	}
}

// ProcessPendingSignal consumes a signal posted by the bridge, if any, and
// converts it into a quit request. Called from the main loop at safe
// points; returns the consumed signal or zero.
func (a *App) ProcessPendingSignal() syscall.Signal {
	sig := a.state.ConsumeSignal()
	if sig == 0 {
		return 0
	}
	a.log.Info("signal received, quitting", "signal", sig.String())
	a.hooks.Send("quit", sig.String())
	a.state.RequestQuit()
	return sig
}

// Run is the cooperative main loop: it waits for a quit request, polling
// the pending-signal flag at safe points, then returns so the caller can
// shut down.
func (a *App) Run() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for !a.state.QuitRequested() {
		<-ticker.C
		a.ProcessPendingSignal()
	}
}

// Upgrade captures the live state and replaces the process image. Only
// returns on failure. With refresh true the binary is first replaced by
// the latest released build; a refresh failure downgrades to a plain
// re-exec.
func (a *App) Upgrade(refresh bool) error {
	if err := a.upgradeController().Capture(a.state, a.sessions.Snapshot()); err != nil {
		return fmt.Errorf("upgrade capture: %w", err)
	}
	if refresh {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := a.upgradeController().RefreshBinary(ctx, version.Version()); err != nil {
			a.log.Warn("binary refresh failed, re-executing current binary", "error", err)
		}
	}
	a.log.Info("replacing process image", "argv0", a.state.Argv0())
	_ = a.logFile.Close()
	return upgrade.ExecSelf(a.state)
}

func (a *App) upgradeController() *upgrade.Controller {
	if a.upgrader == nil {
		a.upgrader = upgrade.New(a.homeDir, a.log)
	}
	return a.upgrader
}

// registerCoreCommands installs the commands the lifecycle core owns.
func (a *App) registerCoreCommands() {
	a.commands.Register("quit", "quit parley", func(args string) error {
		a.state.RequestQuit()
		return nil
	})
	a.commands.Register("upgrade", "save session and reload the parley binary", func(args string) error {
		refresh := strings.TrimSpace(args) == "-refresh"
		return a.Upgrade(refresh)
	})
	a.commands.Register("redraw", "redraw the terminal interface", func(args string) error {
		a.hooks.Send("redraw", "")
		return nil
	})
	a.commands.Register("version", "show parley version", func(args string) error {
		a.print("%s", version.Full())
		return nil
	})
	a.commands.Register("dump", "write a goroutine dump to the crash file", func(args string) error {
		if args == "" {
			args = "user request"
		}
		a.crash.Dump(args)
		return nil
	})
}

// registerInfoHooks exposes runtime facts to plugins through info hooks.
func (a *App) registerInfoHooks() {
	a.hooks.Add(hook.KindInfo, "version", func(string) (string, error) {
		return version.Version(), nil
	})
	a.hooks.Add(hook.KindInfo, "uptime", func(string) (string, error) {
		return time.Since(a.state.StartTime()).Truncate(time.Second).String(), nil
	})
	a.hooks.Add(hook.KindInfo, "charset", func(string) (string, error) {
		return a.charset, nil
	})
	a.hooks.Add(hook.KindInfo, "upgrade_count", func(string) (string, error) {
		return fmt.Sprintf("%d", a.state.UpgradeCount()), nil
	})
	a.hooks.Add(hook.KindInfo, "secure_backend", func(string) (string, error) {
		return a.secStore.BackendName(), nil
	})
}

// registerCoreDescriptors publishes the core structures to the
// introspection registry.
func registerCoreDescriptors(r *introspect.Registry) {
	r.Register(&introspect.Descriptor{
		Name: "session",
		Fields: map[string]string{
			"id":         "string",
			"name":       "string",
			"server":     "string",
			"buffers":    "[]string",
			"created_at": "time",
		},
	})
	r.Register(&introspect.Descriptor{
		Name: "proxy",
		Fields: map[string]string{
			"name":    "string",
			"type":    "string",
			"address": "string",
			"port":    "int",
		},
	})
	r.Register(&introspect.Descriptor{
		Name: "window",
		Fields: map[string]string{
			"slot":   "int",
			"buffer": "string",
			"width":  "int",
			"height": "int",
		},
	})
}

// print writes a line to the interface, or buffers it until the interface
// is up. Buffered lines are never lost: shutdown flushes leftovers.
func (a *App) print(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if !a.uiReady {
		a.waiting = append(a.waiting, line)
		return
	}
	fmt.Fprintln(a.opts.Out, line)
}

func (a *App) flushWaiting() {
	for _, line := range a.waiting {
		fmt.Fprintln(a.opts.Out, line)
	}
	a.waiting = nil
}

// FatalStartupError formats an init failure for stderr, unwrapping the
// failing step's name.
func FatalStartupError(err error) string {
	var stepErr *boot.StepError
	if errors.As(err, &stepErr) {
		return fmt.Sprintf("parley: startup failed at %s: %v", stepErr.Step, stepErr.Err)
	}
	return fmt.Sprintf("parley: startup failed: %v", err)
}
