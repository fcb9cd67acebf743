package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/odebench/odebench/internal/ode"
	"github.com/odebench/odebench/internal/solver"
)

const (
	barWidth        = 40
	sparkWidth      = 50
	historyCapacity = 600
	throttle        = 512 // accepted steps between progress messages
)

type progressMsg struct {
	t     float64
	y0    float64
	steps int
}

type doneMsg struct {
	elapsed time.Duration
	stats   ode.Stats
	err     error
}

// Live is the Bubble Tea model for a solve in flight: a progress bar
// over the time span, step counters and a sparkline of the first state
// component.
type Live struct {
	prob  ode.Problem
	strat ode.Strategy

	updates chan progressMsg
	done    chan doneMsg
	cancel  context.CancelFunc

	t       float64
	steps   int
	history []float64

	finished bool
	elapsed  time.Duration
	stats    ode.Stats
	err      error
}

// NewLive starts the solve in the background and returns the model to
// hand to tea.NewProgram.
func NewLive(prob ode.Problem, strat ode.Strategy, cfg ode.Config) *Live {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Live{
		prob:    prob,
		strat:   strat,
		updates: make(chan progressMsg, 64),
		done:    make(chan doneMsg, 1),
		cancel:  cancel,
		history: make([]float64, 0, historyCapacity),
	}

	inner := cfg.OnStep
	count := 0
	cfg.OnStep = func(t float64, y []float64) bool {
		count++
		if count%throttle == 0 {
			select {
			case m.updates <- progressMsg{t: t, y0: y[0], steps: count}:
			default:
			}
		}
		if inner != nil {
			return inner(t, y)
		}
		return true
	}

	go func() {
		start := time.Now()
		sol, err := solver.Solve(ctx, prob, strat, cfg)
		msg := doneMsg{elapsed: time.Since(start), err: err}
		if sol != nil {
			msg.stats = sol.Stats
		}
		m.done <- msg
	}()

	return m
}

func (m *Live) Init() tea.Cmd {
	return m.wait()
}

func (m *Live) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.updates:
			return msg
		case msg := <-m.done:
			return msg
		}
	}
}

func (m *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}

	case progressMsg:
		m.t = msg.t
		m.steps = msg.steps
		m.history = append(m.history, msg.y0)
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
		return m, m.wait()

	case doneMsg:
		m.finished = true
		m.elapsed = msg.elapsed
		m.stats = msg.stats
		m.err = msg.err
		m.t = m.prob.T1
		return m, tea.Quit
	}
	return m, nil
}

func (m *Live) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(strings.ToUpper(m.prob.Name)) + "\n")

	frac := 0.0
	if span := m.prob.T1 - m.prob.T0; span > 0 {
		frac = (m.t - m.prob.T0) / span
	}
	s.WriteString(ProgressBar(frac, barWidth) + fmt.Sprintf(" %5.1f%%\n\n", frac*100))

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.4g / %.4g", m.t, m.prob.T1)) + "\n")
	s.WriteString(labelStyle.Render("Algorithm") + valueStyle.Render(m.strat.Algorithm) + "\n")

	if m.finished {
		s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d (%d rejected)", m.stats.Steps, m.stats.Rejected)) + "\n")
		s.WriteString(labelStyle.Render("Evals") + valueStyle.Render(fmt.Sprintf("%d", m.stats.Evals)) + "\n")
		if m.err != nil {
			s.WriteString("\n" + errStyle.Render("FAILED: "+m.err.Error()) + "\n")
		} else {
			s.WriteString("\n" + doneStyle.Render(fmt.Sprintf("DONE in %v", m.elapsed)) + "\n")
		}
	} else {
		s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.steps)) + "\n")
	}

	if len(m.history) > 1 {
		s.WriteString("\n" + labelStyle.Render("y[0]") + "\n")
		s.WriteString(graphStyle.Render(Sparkline(m.history, sparkWidth)) + "\n")
	}

	s.WriteString(helpStyle.Render("Q:Quit"))
	return s.String()
}
