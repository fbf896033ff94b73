package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/nodemobile/bridge"
	"github.com/nodemobile/bridge/engine"
	"github.com/nodemobile/bridge/host"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to TOML config file")
		wasmFile    = flag.String("wasm", "", "Path to engine guest wasm file")
		modulePath  = flag.String("module-path", "", "Module resolution path exported to the engine")
		dataDir     = flag.String("data-dir", "", "Writable data directory for the engine")
		tag         = flag.String("tag", "", "Tag on redirected stream lines")
		ceiling     = flag.Int("ceiling", 0, "Attachment ceiling (0 = default)")
		noRedirect  = flag.Bool("no-redirect", false, "Disable stdout/stderr redirection")
		interactive = flag.Bool("i", false, "Interactive message console")
	)
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags override the file.
	if *wasmFile != "" {
		cfg.Wasm = *wasmFile
	}
	if *modulePath != "" {
		cfg.ModulePath = *modulePath
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *tag != "" {
		cfg.Tag = *tag
	}
	if *ceiling > 0 {
		cfg.Ceiling = *ceiling
	}
	if *noRedirect {
		cfg.Redirect = false
	}
	if args := flag.Args(); len(args) > 0 {
		cfg.Args = args
	}

	if cfg.Wasm == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -wasm <guest.wasm> [-config file.toml] [args...]")
		fmt.Fprintln(os.Stderr, "       run -wasm <guest.wasm> -i  (interactive console)")
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	code, err := run(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

// logReceiver is the managed-side dispatch logic: it logs every inbound
// bridge message.
type logReceiver struct {
	logger *zap.Logger
}

func (r *logReceiver) OnChannelMessage(channel, message string) {
	r.logger.Info("bridge message",
		zap.String("channel", channel),
		zap.String("message", message))
}

func run(cfg runConfig) (int, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return 0, fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()
	bridge.SetLogger(logger)

	guest, err := os.ReadFile(cfg.Wasm)
	if err != nil {
		return 0, fmt.Errorf("read guest: %w", err)
	}

	eng := engine.NewWazeroEngine(guest)
	b := bridge.New(host.NewLocalRuntime(), eng, &logReceiver{logger: logger},
		bridge.WithCeiling(int32(cfg.Ceiling)),
		bridge.WithRedirectTag(cfg.Tag))

	if cfg.DataDir != "" {
		b.RegisterDataDirPath(cfg.DataDir)
	}

	args := append([]string{cfg.Wasm}, cfg.Args...)
	code := b.Start(context.Background(), args, cfg.ModulePath, cfg.Redirect)
	if code == bridge.StartNoRuntime {
		return 0, fmt.Errorf("bridge failed to start (no runtime handle)")
	}

	logger.Info("engine exited", zap.Int("code", code))
	if code < 0 || code > 255 {
		return 1, nil
	}
	return code, nil
}
