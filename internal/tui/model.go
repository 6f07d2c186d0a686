package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tulinakaya/galton/internal/config"
	apperrors "github.com/tulinakaya/galton/internal/errors"
	"github.com/tulinakaya/galton/internal/galton"
	"github.com/tulinakaya/galton/internal/metrics"
	"github.com/tulinakaya/galton/internal/orchestration"
	"github.com/tulinakaya/galton/internal/sysmon"
)

// ResultHook receives every finished run before it is analyzed. The app
// uses it to write the output and metrics files in TUI mode.
type ResultHook func(orchestration.SimulationResult)

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	runner     orchestration.Runner
	generation uint64
	done       bool
	exitCode   int
	err        error
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// bodyHeight returns the available height for the main body panels.
func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

// metricsHeight returns the height allocated to the metrics panel.
func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/2)
}

// histogramHeight returns the height allocated to the histogram panel.
func (l LayoutManager) histogramHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header    HeaderModel
	metrics   MetricsModel
	histogram HistogramModel
	help      help.Model

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	config    config.AppConfig
	ref       *programRef
	onResult  ResultHook
	paused    bool
}

// NewModel creates a new TUI model.
func NewModel(parentCtx context.Context, runner orchestration.Runner, cfg config.AppConfig, version string, onResult ResultHook) Model {
	ctx, cancel := context.WithCancel(parentCtx)

	return Model{
		header:    NewHeaderModel(version, cfg.Trials, cfg.Bins),
		metrics:   NewMetricsModel(runner.Width()),
		histogram: NewHistogramModel(),
		help:      help.New(),
		keymap:    DefaultKeyMap(),
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			runner:   runner,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		config:    cfg,
		ref:       &programRef{},
		onResult:  onResult,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.startCmds())
}

// startCmds launches the run of the current generation and its watcher.
func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		startSimulationCmd(m.ref, m.ctx, m.runner, m.config, m.generation, m.onResult),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if msg.Generation == m.generation && !m.paused {
			m.metrics.UpdateProgress(msg.TrackedProgress)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ResultMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.histogram.SetResult(msg.Result.Snapshot.Bins, msg.Result.Stats)
		return m, nil

	case ErrorMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.err = msg.Err
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg.MemorySnapshot)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg.Stats)
		return m, nil

	case SimulationCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		m.done = true
		m.header.SetDone()
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		if !m.done {
			m.paused = !m.paused
		}
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		// The tick loop stops once a run is done; restart it only then.
		var tick tea.Cmd
		if m.done {
			tick = tickCmd()
		}
		if m.cancel != nil {
			m.cancel()
		}

		m.generation++
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.ctx = ctx
		m.cancel = cancel

		m.header.Reset()
		m.metrics.Reset()
		m.histogram.Reset()
		m.done = false
		m.paused = false
		m.err = nil
		m.exitCode = apperrors.ExitSuccess

		return m, tea.Batch(tick, m.startCmds())
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	body := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.histogram.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footerView())
}

// footerView renders the run status followed by the key help.
func (m Model) footerView() string {
	var status string
	switch {
	case m.err != nil:
		status = statusErrorStyle.Render("ERROR " + m.err.Error())
	case m.done:
		status = statusDoneStyle.Render("DONE")
	case m.paused:
		status = statusPausedStyle.Render("PAUSED")
	default:
		status = statusRunningStyle.Render("RUNNING")
	}
	return status + "  " + m.help.View(m.keymap)
}

// Layout constants for the TUI dashboard.
const (
	headerHeight       = 1
	footerHeight       = 1
	minBodyHeight      = 8
	MetricsPanelHeight = 9 // title, bar, three metric rows, two sparklines, borders
)

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.help.Width = m.width
	m.metrics.SetSize(m.width, m.metricsHeight())
	m.histogram.SetSize(m.width, m.histogramHeight())
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, runner orchestration.Runner, cfg config.AppConfig, version string, onResult ResultHook) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, runner, cfg, version, onResult)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startSimulationCmd returns a tea.Cmd that runs and analyzes one simulation.
func startSimulationCmd(ref *programRef, ctx context.Context, runner orchestration.Runner, cfg config.AppConfig, gen uint64, onResult ResultHook) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref, generation: gen}
		presenter := &TUIResultPresenter{ref: ref, generation: gen}

		params := galton.Params{Trials: cfg.Trials, Bins: cfg.Bins, Budget: cfg.AwaitTime}
		result := orchestration.ExecuteSimulation(ctx, runner, params, reporter, io.Discard)
		if onResult != nil {
			onResult(result)
		}
		opts := orchestration.PresentationOptions{
			Verbose:   cfg.Verbose,
			Details:   cfg.Details,
			Histogram: true,
		}
		exitCode := orchestration.AnalyzeResult(result, opts, presenter, presenter, io.Discard)

		return SimulationCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg{MemorySnapshot: metrics.NewMemoryCollector().Snapshot()}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg{Stats: sysmon.Sample()}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
