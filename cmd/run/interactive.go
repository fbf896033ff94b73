package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nodemobile/bridge"
	"github.com/nodemobile/bridge/engine"
	"github.com/nodemobile/bridge/host"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	inboundStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	outboundStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	exitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inboundMsg struct {
	channel string
	message string
}

type engineExitMsg struct {
	code int
}

// consoleReceiver forwards inbound bridge messages to the TUI.
type consoleReceiver struct {
	inbound chan inboundMsg
}

func (r *consoleReceiver) OnChannelMessage(channel, message string) {
	// Engine threads must never block on the UI.
	select {
	case r.inbound <- inboundMsg{channel: channel, message: message}:
	default:
	}
}

type consoleModel struct {
	b       *bridge.Bridge
	input   textinput.Model
	lines   []string
	inbound chan inboundMsg
	exited  chan engineExitMsg
	done    bool
	code    int
}

func newConsoleModel(b *bridge.Bridge, inbound chan inboundMsg, exited chan engineExitMsg) consoleModel {
	ti := textinput.New()
	ti.Placeholder = "channel message..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 64

	return consoleModel{
		b:       b,
		input:   ti,
		inbound: inbound,
		exited:  exited,
	}
}

func waitInbound(ch chan inboundMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func waitExit(ch chan engineExitMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m consoleModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitInbound(m.inbound), waitExit(m.exited))
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inboundMsg:
		line := inboundStyle.Render(fmt.Sprintf("<- [%s] %s", msg.channel, msg.message))
		m.lines = append(m.lines, line)
		return m, waitInbound(m.inbound)

	case engineExitMsg:
		m.done = true
		m.code = msg.code
		m.lines = append(m.lines, exitStyle.Render(fmt.Sprintf("engine exited with code %d", msg.code)))
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.done {
				return m, nil
			}
			channel, message, ok := strings.Cut(text, " ")
			if !ok {
				message = ""
			}
			m.b.NotifyChannel(channel, message)
			m.lines = append(m.lines, outboundStyle.Render(fmt.Sprintf("-> [%s] %s", channel, message)))
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m consoleModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("bridge console"))
	b.WriteString("\n\n")

	// Keep the last screenful of traffic.
	lines := m.lines
	if len(lines) > 20 {
		lines = lines[len(lines)-20:]
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: send  ·  esc: quit"))

	return b.String()
}

// runInteractive starts the engine in the background and runs a message
// console against the live bridge. Stream redirection stays off: stdout
// belongs to the terminal UI here.
func runInteractive(cfg runConfig) error {
	// The console owns the terminal; keep package logs out of it.
	bridge.SetLogger(zap.NewNop())

	guest, err := os.ReadFile(cfg.Wasm)
	if err != nil {
		return fmt.Errorf("read guest: %w", err)
	}

	inbound := make(chan inboundMsg, 64)
	exited := make(chan engineExitMsg, 1)

	eng := engine.NewWazeroEngine(guest)
	b := bridge.New(host.NewLocalRuntime(), eng, &consoleReceiver{inbound: inbound},
		bridge.WithCeiling(int32(cfg.Ceiling)))

	if cfg.DataDir != "" {
		b.RegisterDataDirPath(cfg.DataDir)
	}

	go func() {
		args := append([]string{cfg.Wasm}, cfg.Args...)
		code := b.Start(context.Background(), args, cfg.ModulePath, false)
		exited <- engineExitMsg{code: code}
	}()

	p := tea.NewProgram(newConsoleModel(b, inbound, exited))
	_, err = p.Run()
	return err
}
