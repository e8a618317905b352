// Package tui is the interactive browser: pick a project, pick a
// session, preview its history, hit enter to resume it.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kaichen/claco/internal/history"
	"github.com/kaichen/claco/internal/jsonl"
	"github.com/kaichen/claco/internal/project"
	"github.com/kaichen/claco/internal/render"
	"github.com/kaichen/claco/pkg/models"
)

type viewMode int

const (
	projectView viewMode = iota
	sessionView
)

type model struct {
	index    *project.Index
	projects []models.Project

	currentMode   viewMode
	projectCursor int
	sessionCursor int

	sessions        []models.Session
	currentMessages []string

	viewport      viewport.Model
	leftViewport  viewport.Model
	rightViewport viewport.Model
	ready         bool
	width         int
	height        int

	selected *models.Session
	err      error
}

// Run shows the browser and returns the session the user chose to
// resume, or nil when they quit.
func Run(ix *project.Index, projects []models.Project) (*models.Session, error) {
	m := model{index: ix, projects: projects, currentMode: projectView}

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}

	fm, ok := final.(model)
	if !ok {
		return nil, nil
	}
	if fm.err != nil {
		return nil, fm.err
	}
	return fm.selected, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.syncViewports()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.currentMode == projectView {
				if m.projectCursor > 0 {
					m.projectCursor--
					m.syncViewports()
				}
			} else if m.sessionCursor > 0 {
				m.sessionCursor--
				m.loadPreview()
				m.syncViewports()
			}

		case "down", "j":
			if m.currentMode == projectView {
				if m.projectCursor < len(m.projects)-1 {
					m.projectCursor++
					m.syncViewports()
				}
			} else if m.sessionCursor < len(m.sessions)-1 {
				m.sessionCursor++
				m.loadPreview()
				m.syncViewports()
			}

		case "enter":
			if m.currentMode == projectView {
				if len(m.projects) == 0 {
					break
				}
				p := m.projects[m.projectCursor]
				sessions, err := m.index.SessionsDetailed(p)
				if err != nil {
					m.err = err
					return m, tea.Quit
				}
				m.sessions = sessions
				m.sessionCursor = 0
				m.currentMode = sessionView
				m.loadPreview()
				m.syncViewports()
			} else if len(m.sessions) > 0 {
				s := m.sessions[m.sessionCursor]
				m.selected = &s
				return m, tea.Quit
			}

		case "esc", "backspace":
			if m.currentMode == sessionView {
				m.currentMode = projectView
				m.sessions = nil
				m.currentMessages = nil
				m.syncViewports()
			}
		}
	}

	return m, nil
}

func (m *model) resize() {
	viewHeight := m.height - 3
	if viewHeight < 1 {
		viewHeight = 1
	}
	leftWidth := m.width/2 - 1
	rightWidth := m.width - leftWidth - 1

	if !m.ready {
		m.viewport = viewport.New(m.width, viewHeight)
		m.leftViewport = viewport.New(leftWidth, viewHeight)
		m.rightViewport = viewport.New(rightWidth, viewHeight)
		m.ready = true
		return
	}
	m.viewport.Width = m.width
	m.viewport.Height = viewHeight
	m.leftViewport.Width = leftWidth
	m.leftViewport.Height = viewHeight
	m.rightViewport.Width = rightWidth
	m.rightViewport.Height = viewHeight
}

// loadPreview reads the highlighted session's filtered history. Sessions
// are bounded local files, so a synchronous read per cursor move keeps
// the model simple.
func (m *model) loadPreview() {
	m.currentMessages = nil
	if m.sessionCursor >= len(m.sessions) {
		return
	}

	r, err := jsonl.OpenSession(m.sessions[m.sessionCursor].FilePath)
	if err != nil {
		m.currentMessages = []string{fmt.Sprintf("(failed to open session: %v)", err)}
		return
	}
	defer r.Close()

	entries := history.Filter(r)
	for _, e := range entries {
		m.currentMessages = append(m.currentMessages, render.Line(e.Record.Timestamp, e.Text))
	}
	if len(m.currentMessages) == 0 {
		m.currentMessages = []string{"(no user messages in this session)"}
	}
}

func (m *model) syncViewports() {
	if !m.ready {
		return
	}
	switch m.currentMode {
	case projectView:
		m.viewport.SetContent(m.renderProjectList())
		m.followCursor(&m.viewport, m.projectCursor)
	case sessionView:
		m.leftViewport.SetContent(m.renderSessionList())
		m.followCursor(&m.leftViewport, m.sessionCursor)
		m.rightViewport.SetContent(strings.Join(m.currentMessages, "\n"))
		m.rightViewport.GotoTop()
	}
}

func (m *model) followCursor(vp *viewport.Model, cursor int) {
	if cursor < vp.YOffset {
		vp.SetYOffset(cursor)
	} else if cursor >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursor - vp.Height + 1)
	}
}

func (m model) renderProjectList() string {
	var b strings.Builder
	for i, p := range m.projects {
		line := fmt.Sprintf("%s  (%d sessions)", p.Path, len(p.SessionIDs))
		if i == m.projectCursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderSessionList() string {
	var b strings.Builder
	for i, s := range m.sessions {
		line := fmt.Sprintf("%s  %s",
			s.LastActivity.Format("2006-01-02 15:04"),
			render.Preview(s.SessionID, 14))
		if i == m.sessionCursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.currentMode {
	case sessionView:
		title := titleStyle.Render("Sessions")
		if m.projectCursor < len(m.projects) {
			title = titleStyle.Render("Sessions - " + m.projects[m.projectCursor].Path)
		}
		left := m.leftViewport.View()
		right := m.rightViewport.View()
		body := joinHorizontal(left, right)
		return fmt.Sprintf("%s\n%s\n%s", title, body,
			helpStyle.Render("enter: resume · esc: back · j/k: move · q: quit"))
	default:
		return fmt.Sprintf("%s\n%s\n%s",
			titleStyle.Render("Claude Code Projects"),
			m.viewport.View(),
			helpStyle.Render("enter: sessions · j/k: move · q: quit"))
	}
}

func joinHorizontal(left, right string) string {
	leftLines := strings.Split(left, "\n")
	rightLines := strings.Split(right, "\n")
	n := len(leftLines)
	if len(rightLines) > n {
		n = len(rightLines)
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		var l, r string
		if i < len(leftLines) {
			l = leftLines[i]
		}
		if i < len(rightLines) {
			r = rightLines[i]
		}
		b.WriteString(l)
		b.WriteString(dividerStyle.Render(" │ "))
		b.WriteString(r)
		if i < n-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
