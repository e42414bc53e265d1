package tui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Gumball-code/ggpoker/internal/server"
	"github.com/Gumball-code/ggpoker/internal/table"
)

// Model is the Bubble Tea model for the poker client. All table state is
// server-authoritative: the model only renders the latest projected view.
type Model struct {
	client *Client
	input  textinput.Model

	clientID string
	state    *table.View
	log      []string
	quitting bool
}

// serverMsg wraps an incoming server message for the update loop.
type serverMsg struct {
	msg *server.Message
}

// disconnectedMsg signals the socket went away.
type disconnectedMsg struct{}

// NewModel creates the client model.
func NewModel(client *Client) *Model {
	ti := textinput.New()
	ti.Placeholder = "sit <seat> <buyIn> | owner | start | fold | check | call | raise <n> | allin"
	ti.Focus()
	ti.CharLimit = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	return &Model{
		client: client,
		input:  ti,
	}
}

// Init starts listening for server messages.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listen())
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.client.Incoming
		if !ok {
			return disconnectedMsg{}
		}
		return serverMsg{msg: msg}
	}
}

// Update handles key presses and server events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			_ = m.client.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line != "" {
				m.submit(line)
			}
			return m, nil
		}

	case serverMsg:
		m.handleServer(msg.msg)
		return m, m.listen()

	case disconnectedMsg:
		m.appendLog(ErrorStyle.Render("disconnected from server"))
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleServer(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeWelcome:
		var data server.WelcomeData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			m.clientID = data.ClientID
			m.appendLog(InfoStyle.Render("connected as " + data.ClientID))
		}
	case server.MessageTypeAck:
		var data server.AckData
		if err := json.Unmarshal(msg.Data, &data); err == nil && !data.OK {
			m.appendLog(ErrorStyle.Render("rejected: " + data.Error))
		}
	case server.MessageTypeState:
		var view table.View
		if err := json.Unmarshal(msg.Data, &view); err == nil {
			m.state = &view
		}
	}
}

// submit parses an input line into a command.
func (m *Model) submit(line string) {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	var err error
	switch cmd {
	case "name":
		if len(args) == 0 {
			err = fmt.Errorf("usage: name <username>")
			break
		}
		_, err = m.client.Send(server.MessageTypeSetUsername, server.SetUsernameData{Name: strings.Join(args, " ")})
	case "owner":
		_, err = m.client.Send(server.MessageTypeBecomeOwner, struct{}{})
	case "sit":
		var seat, buyIn int
		if seat, buyIn, err = parseSit(args); err == nil {
			_, err = m.client.Send(server.MessageTypeSit, server.SitData{Seat: seat, BuyIn: buyIn})
		}
	case "stand":
		_, err = m.client.Send(server.MessageTypeStand, struct{}{})
	case "kick":
		var seat int
		if len(args) != 1 {
			err = fmt.Errorf("usage: kick <seat>")
			break
		}
		if seat, err = strconv.Atoi(args[0]); err == nil {
			_, err = m.client.Send(server.MessageTypeKick, server.KickData{Seat: seat})
		}
	case "start":
		_, err = m.client.Send(server.MessageTypeStartHand, struct{}{})
	case "fold", "check", "call", "allin":
		_, err = m.client.Send(server.MessageTypeAction, server.ActionData{Action: cmd})
	case "bet", "raise":
		var amount int
		if len(args) != 1 {
			err = fmt.Errorf("usage: %s <amount>", cmd)
			break
		}
		if amount, err = strconv.Atoi(args[0]); err == nil {
			_, err = m.client.Send(server.MessageTypeAction, server.ActionData{Action: cmd, Amount: amount})
		}
	case "quit":
		m.quitting = true
		_ = m.client.Close()
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		m.appendLog(ErrorStyle.Render(err.Error()))
	}
}

func parseSit(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("usage: sit <seat> <buyIn>")
	}
	seat, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad seat: %s", args[0])
	}
	buyIn, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad buy-in: %s", args[1])
	}
	return seat, buyIn, nil
}

func (m *Model) appendLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > 8 {
		m.log = m.log[len(m.log)-8:]
	}
}

// View renders the table.
func (m *Model) View() string {
	if m.quitting {
		return "bye\n"
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" ggpoker ") + "\n\n")

	if m.state == nil {
		b.WriteString(InfoStyle.Render("waiting for table state...") + "\n")
	} else {
		b.WriteString(m.renderTable())
	}

	b.WriteString("\n")
	for _, line := range m.log {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.input.View() + "\n")
	return b.String()
}

func (m *Model) renderTable() string {
	v := m.state
	var b strings.Builder

	board := "--"
	if len(v.Community) > 0 {
		board = strings.Join(v.Community, " ")
	}
	b.WriteString(fmt.Sprintf("%s  board: %s  pot: %d  blinds: %d/%d\n\n",
		InfoStyle.Render(v.Phase),
		BoardStyle.Render(board),
		v.PotTotal,
		v.SmallBlind, v.BigBlind))

	for i, seat := range v.Seats {
		if seat == nil {
			b.WriteString(FoldedStyle.Render(fmt.Sprintf("  seat %d: (empty)", i)) + "\n")
			continue
		}
		marker := "  "
		if i == v.DealerButton {
			marker = "D "
		}
		line := fmt.Sprintf("%sseat %d: %-12s stack %-7d bet %-5d", marker, i, seat.Name, seat.Stack, seat.CurrentBet)
		if len(seat.Hole) == 2 {
			line += " [" + seat.Hole[0] + " " + seat.Hole[1] + "]"
		}
		switch {
		case seat.Folded:
			b.WriteString(FoldedStyle.Render(line+" (folded)") + "\n")
		case i == v.TurnSeat:
			b.WriteString(TurnStyle.Render(line+" <- to act") + "\n")
		default:
			b.WriteString(SeatStyle.Render(line) + "\n")
		}
	}
	if v.YourSeat >= 0 {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("\nyou are in seat %d", v.YourSeat)) + "\n")
	}
	return b.String()
}
