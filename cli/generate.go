package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"

	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/logger"
	"github.com/postforge/postforge/session"
)

type state int

const (
	Input state = iota
	Processing
	Finished
	Failed
)

type genFlags struct {
	url          string
	platforms    []string
	instructions string
	config       string
	provider     string
}

type generateCmdModel struct {
	textInput      textinput.Model
	spinner        spinner.Model
	state          state
	flags          genFlags
	completedSteps []StepType
	engine         *Engine
	engineCtx      context.Context
	engineCancel   context.CancelFunc
	publisher      *CliStepPublisher
	logger         logger.Logger
	runErr         error
}

func newGenerateModel(f genFlags, cfg *config.Config, store session.Store) (generateCmdModel, error) {
	log := logger.GetLogger()
	log.Debug("Initializing postforge CLI")

	ti := textinput.New()
	ti.Placeholder = "https://github.com/owner/repo"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 80

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))

	publisher := NewCliStepPublisher(log)
	engine := NewEngine(cfg, publisher, log, store)

	ctx, cancel := context.WithCancel(context.Background())

	m := generateCmdModel{
		textInput:    ti,
		spinner:      s,
		state:        Input,
		flags:        f,
		logger:       log,
		engine:       engine,
		engineCtx:    ctx,
		engineCancel: cancel,
		publisher:    publisher,
	}
	if f.url != "" {
		m.state = Processing
	}
	engine.Start(ctx)
	return m, nil
}

func (m generateCmdModel) Init() tea.Cmd {
	if m.state == Processing {
		return tea.Batch(m.spinner.Tick, m.startGeneration(), m.listenForSteps())
	}
	return textinput.Blink
}

func (m generateCmdModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case StepType:
		return m.handleStep(msg)
	case error:
		m.runErr = msg
		m.state = Failed
		return m, tea.Quit
	default:
		if m.state == Processing {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m generateCmdModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if m.state != Input {
			return m, nil
		}
		v := m.textInput.Value()
		if v == "" {
			placeholderStyle := lipgloss.NewStyle().Faint(true)
			message := placeholderStyle.Render("No repository URL entered. Exiting...")
			return m, tea.Sequence(tea.Printf("%s", message), tea.Quit)
		}
		m.flags.url = v
		m.state = Processing
		return m, tea.Batch(m.spinner.Tick, m.startGeneration(), m.listenForSteps())
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m generateCmdModel) handleStep(step StepType) (tea.Model, tea.Cmd) {
	m.completedSteps = append(m.completedSteps, step)
	if step == Done {
		m.state = Finished
		return m, tea.Quit
	}
	return m, tea.Batch(m.spinner.Tick, m.listenForSteps())
}

// startGeneration queues the request on the engine worker.
func (m generateCmdModel) startGeneration() tea.Cmd {
	return func() tea.Msg {
		m.engine.AddRequest(m.flags.url, m.flags.platforms, m.flags.instructions)
		return nil
	}
}

// listenForSteps forwards engine progress into the update loop.
func (m generateCmdModel) listenForSteps() tea.Cmd {
	return func() tea.Msg {
		select {
		case step := <-m.publisher.stepChan:
			return step
		case err := <-m.publisher.errorChan:
			return err
		}
	}
}

func (m generateCmdModel) View() string {
	switch m.state {
	case Input:
		return fmt.Sprintf(
			"Which GitHub repository do you want to promote?\n\n%s\n\n%s",
			m.textInput.View(),
			"(press enter to generate posts or esc to quit)",
		)
	case Processing:
		steps := []struct {
			present string
			past    string
		}{
			{"Analyzing repository.", "Analyzed repository."},
			{"Generating posts.", "Generated posts."},
			{"Saving session.", "Saved session."},
			{"Done.", "Done."},
		}

		enumerator := func(l list.Items, i int) string {
			var e string
			if i < len(m.completedSteps) {
				checkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
				e = checkStyle.Render("✓")
			} else if i == len(m.completedSteps) {
				e = m.spinner.View()
			}
			return e
		}

		l := list.New().Enumerator(enumerator)
		for i, step := range steps {
			if i < len(m.completedSteps) {
				l.Item(step.past)
			} else if i == len(m.completedSteps) {
				l.Item(step.present)
			}
		}
		return fmt.Sprint(l)
	case Finished:
		return "Posts generated.\n"
	case Failed:
		if m.runErr != nil {
			return fmt.Sprintf("Generation failed: %v\n", m.runErr)
		}
		return "Generation failed.\n"
	default:
		return ""
	}
}

func (m *generateCmdModel) Shutdown() {
	m.engineCancel()
	m.engine.Shutdown(5 * time.Second)
}
