// printctl is an operator console for the print server: it shows the bound
// backend, the capability probe, and recent jobs, and can trigger
// initialization, test prints, and rescans.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arkwaretechnologies/laundropos-print/internal/printsvc"
)

const defaultServerURL = "http://localhost:12212"

type statusMsg struct {
	status printsvc.Status
	err    error
}

type jobsMsg struct {
	jobs []*printsvc.Job
	err  error
}

type resultMsg struct {
	action string
	result printsvc.Result
	err    error
}

type tickMsg time.Time

type model struct {
	client  *Client
	spinner spinner.Model

	status  printsvc.Status
	jobs    []*printsvc.Job
	lastMsg string
	lastErr error
	busy    bool
	width   int
}

func newModel(client *Client) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return model{client: client, spinner: s}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) refreshCmd() tea.Cmd {
	client := m.client
	return tea.Batch(
		func() tea.Msg {
			st, err := client.Status()
			return statusMsg{status: st, err: err}
		},
		func() tea.Msg {
			jobs, err := client.Jobs()
			return jobsMsg{jobs: jobs, err: err}
		},
	)
}

func (m model) actionCmd(action string, call func() (printsvc.Result, error)) tea.Cmd {
	return func() tea.Msg {
		res, err := call()
		return resultMsg{action: action, result: res, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "i":
			if !m.busy {
				m.busy = true
				return m, m.actionCmd("initialize", m.client.Initialize)
			}
		case "t":
			if !m.busy {
				m.busy = true
				return m, m.actionCmd("test print", m.client.TestPrint)
			}
		case "r":
			if !m.busy {
				m.busy = true
				return m, m.actionCmd("rescan", m.client.Rescan)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), tickCmd())

	case statusMsg:
		m.status, m.lastErr = msg.status, msg.err

	case jobsMsg:
		if msg.err == nil {
			m.jobs = msg.jobs
		}

	case resultMsg:
		m.busy = false
		if msg.err != nil {
			m.lastErr = msg.err
		} else {
			m.lastErr = nil
			if msg.result.OK() {
				m.lastMsg = fmt.Sprintf("%s ok on %s", msg.action, msg.result.Backend)
			} else {
				m.lastMsg = fmt.Sprintf("%s failed: %s", msg.action, msg.result.Message)
			}
		}
		return m, m.refreshCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("LaundroPOS Print Console"))
	b.WriteString("\n\n")

	backend := string(m.status.Backend)
	if m.status.Bound {
		b.WriteString("Backend: " + okStyle.Render(backend))
	} else {
		b.WriteString("Backend: " + errStyle.Render("none bound"))
	}
	if m.busy {
		b.WriteString("  " + m.spinner.View() + mutedStyle.Render(" working"))
	}
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("CAPABILITIES"))
	b.WriteString("\n")
	if len(m.status.Probe) == 0 {
		b.WriteString(mutedStyle.Render("  no print-capable bindings") + "\n")
	}
	for _, cap := range m.status.Probe {
		b.WriteString(fmt.Sprintf("  %s (%d methods)\n", cap.Binding, len(cap.Methods)))
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("RECENT JOBS"))
	b.WriteString("\n")
	if len(m.jobs) == 0 {
		b.WriteString(mutedStyle.Render("  none") + "\n")
	}
	for i, job := range m.jobs {
		if i >= 8 {
			break
		}
		line := fmt.Sprintf("  %-8s %-22s %-18s %s",
			job.Kind, shortID(job.ID), job.Backend, job.Code)
		if job.Code == printsvc.CodeOk {
			b.WriteString(okStyle.Render(line))
		} else {
			b.WriteString(errStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.lastErr != nil {
		b.WriteString(errStyle.Render("error: "+m.lastErr.Error()) + "\n")
	} else if m.lastMsg != "" {
		b.WriteString(mutedStyle.Render(m.lastMsg) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("i initialize  t test print  r rescan  q quit"))
	b.WriteString("\n")

	return b.String()
}

func shortID(id string) string {
	if len(id) > 20 {
		return id[:20]
	}
	return id
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8FAFC")).
			Background(lipgloss.Color("#7C3AED")).
			Padding(0, 2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#64748B"))

	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
)

func main() {
	var serverURL string
	flag.StringVar(&serverURL, "server", defaultServerURL, "Server URL")
	flag.StringVar(&serverURL, "s", defaultServerURL, "Server URL (short)")
	flag.Parse()

	p := tea.NewProgram(newModel(NewClient(serverURL)))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "printctl: %v\n", err)
		os.Exit(1)
	}
}
