// Package viz provides a terminal view of a running vehicle simulation: a
// braille-canvas trajectory trace with a live stat panel, built on Bubble
// Tea.
//
//	Space - pause/resume
//	R     - reset to the initial state
//	Q     - quit
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/vehiclesim/internal/sim"
	"github.com/san-kum/vehiclesim/internal/vehicle"
)

const (
	canvasWidth  = 70
	canvasHeight = 22
	trailCap     = 4000
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type frameMsg time.Time

type point struct{ x, y float64 }

// Model steps the vehicle model at (approximately) real time and renders the
// driven trajectory.
type Model struct {
	params   vehicle.Parameters
	initial  vehicle.State
	state    vehicle.State
	schedule []sim.ScheduleEntry
	next     int
	cmd      vehicle.Command
	t        float64

	frameRate int
	carry     float64 // unsimulated fraction of a model period

	canvas  *Canvas
	trail   []point
	running bool
}

func NewModel(params vehicle.Parameters, initial vehicle.State, schedule []sim.ScheduleEntry, frameRate int) Model {
	sched := make([]sim.ScheduleEntry, len(schedule))
	copy(sched, schedule)
	sort.SliceStable(sched, func(i, j int) bool { return sched[i].T < sched[j].T })

	if frameRate <= 0 {
		frameRate = 30
	}

	return Model{
		params:    params,
		initial:   initial,
		state:     initial,
		schedule:  sched,
		frameRate: frameRate,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		trail:     make([]point, 0, trailCap),
		running:   true,
	}
}

func (m Model) frameInterval() time.Duration {
	return time.Second / time.Duration(m.frameRate)
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(m.frameInterval(), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		}
	case frameMsg:
		if m.running {
			m.advance(m.frameInterval().Seconds())
		}
		return m, tea.Tick(m.frameInterval(), func(t time.Time) tea.Msg { return frameMsg(t) })
	}
	return m, nil
}

// advance simulates elapsed wall-clock seconds in whole model periods,
// carrying the remainder to the next frame.
func (m *Model) advance(elapsed float64) {
	m.carry += elapsed
	for m.carry >= sim.DtModel {
		m.carry -= sim.DtModel

		for m.next < len(m.schedule) && m.schedule[m.next].T <= m.t {
			m.cmd = vehicle.Command{Accel: m.schedule[m.next].Accel, Steer: m.schedule[m.next].Steer}
			m.next++
		}

		for i := 0; i < sim.DiscSteps; i++ {
			vehicle.Step(m.params, &m.state, m.cmd, sim.DeltaT)
		}
		m.t += sim.DtModel

		m.trail = append(m.trail, point{m.state.X, m.state.Y})
		if len(m.trail) > trailCap {
			m.trail = m.trail[1:]
		}
	}
}

func (m *Model) reset() {
	m.state = m.initial
	m.t = 0
	m.carry = 0
	m.next = 0
	m.cmd = vehicle.Command{}
	m.trail = m.trail[:0]
}

func (m Model) View() string {
	m.drawTrail()

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}

	var stats strings.Builder
	stats.WriteString(headerStyle.Render("VEHICLE") + "\n")
	stats.WriteString(status + "\n\n")
	rows := []struct {
		label string
		value string
	}{
		{"t", fmt.Sprintf("%8.2f s", m.t)},
		{"x", fmt.Sprintf("%8.2f m", m.state.X)},
		{"y", fmt.Sprintf("%8.2f m", m.state.Y)},
		{"psi", fmt.Sprintf("%8.3f rad", m.state.Psi)},
		{"v", fmt.Sprintf("%8.2f m/s", m.state.Vx)},
		{"a", fmt.Sprintf("%8.3f m/s2", m.state.Acc)},
		{"df", fmt.Sprintf("%8.4f rad", m.state.Df)},
		{"a_des", fmt.Sprintf("%8.3f m/s2", m.cmd.Accel)},
		{"df_des", fmt.Sprintf("%8.4f rad", m.cmd.Steer)},
	}
	for _, row := range rows {
		stats.WriteString(labelStyle.Render(row.label) + valueStyle.Render(row.value) + "\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(stats.String()),
	)

	return body + helpStyle.Render("space pause · r reset · q quit") + "\n"
}

// drawTrail fits the canvas window to the driven path plus a margin and
// replots it.
func (m Model) drawTrail() {
	m.canvas.Clear()
	if len(m.trail) == 0 {
		return
	}

	minX, maxX := m.trail[0].x, m.trail[0].x
	minY, maxY := m.trail[0].y, m.trail[0].y
	for _, p := range m.trail {
		minX, maxX = min(minX, p.x), max(maxX, p.x)
		minY, maxY = min(minY, p.y), max(maxY, p.y)
	}

	marginX := (maxX - minX) * 0.05
	marginY := (maxY - minY) * 0.05
	m.canvas.SetWindow(minX-marginX-1, maxX+marginX+1, minY-marginY-1, maxY+marginY+1)

	for _, p := range m.trail {
		m.canvas.Mark(p.x, p.y)
	}
}
