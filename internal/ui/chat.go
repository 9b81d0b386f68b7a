// Package ui is the terminal front end: a chat view that renders the
// committed transcript plus the live typing animation, and a property
// detail view with an image carousel and favorites.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"righthome-agent/internal/conversation"
	"righthome-agent/internal/domain"
	"righthome-agent/internal/listing"
	"righthome-agent/internal/sequencer"
	"righthome-agent/internal/usecase"
)

type mode int

const (
	modeChat mode = iota
	modeDetail
)

type (
	seqMsg     struct{ event sequencer.Event }
	startedMsg struct {
		resumed bool
		err     error
	}
	sendResultMsg struct{ err error }
)

// Model is the top-level Bubble Tea model.
type Model struct {
	svc      *usecase.ChatService
	store    *conversation.Store
	listings *listing.Service
	seq      *sequencer.Sequencer
	events   chan tea.Msg
	log      *zap.Logger

	input  textinput.Model
	spin   spinner.Model
	mode   mode
	width  int
	height int

	started bool
	sending bool
	banner  string

	detailProp     domain.Property
	detailImgIndex int
	detailNotFound domain.ID
}

// New assembles the model. events is the channel the sequencer listener
// feeds; wire the listener with Listener before starting playback.
func New(svc *usecase.ChatService, store *conversation.Store, listings *listing.Service, seq *sequencer.Sequencer, events chan tea.Msg, log *zap.Logger) Model {
	in := textinput.New()
	in.Placeholder = "Ask about properties"
	in.Prompt = "You> "
	in.Focus()
	in.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		svc:      svc,
		store:    store,
		listings: listings,
		seq:      seq,
		events:   events,
		log:      log,
		input:    in,
		spin:     sp,
	}
}

// Listener adapts a tea.Msg channel into a sequencer event listener.
func Listener(events chan<- tea.Msg) func(sequencer.Event) {
	return func(ev sequencer.Event) {
		events <- seqMsg{event: ev}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.startCmd(), listen(m.events))
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		resumed, err := m.svc.Start(context.Background())
		return startedMsg{resumed: resumed, err: err}
	}
}

func (m Model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return sendResultMsg{err: m.svc.Send(context.Background(), text)}
	}
}

func listen(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := msg.Width - 2; w > 10 {
			m.input.Width = w
		}
		return m, nil

	case startedMsg:
		m.started = true
		if msg.err != nil {
			m.banner = fmt.Sprintf("Error: %v", msg.err)
			m.log.Error("start failed", zap.Error(msg.err))
		}
		return m, nil

	case sendResultMsg:
		m.sending = false
		if msg.err != nil {
			switch usecase.CodeOf(msg.err) {
			case usecase.ErrorBusy:
				m.banner = "Hold on, the assistant is still replying."
			case usecase.ErrorInvalidInput:
				m.banner = "That message cannot be sent."
			default:
				m.banner = fmt.Sprintf("Error: %v", msg.err)
			}
		}
		return m, nil

	case seqMsg:
		if msg.event.Kind == sequencer.EventBatchDone {
			m.sending = false
		}
		return m, listen(m.events)

	case tea.KeyMsg:
		if m.mode == modeDetail {
			return m.updateDetail(msg)
		}
		return m.updateChat(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.spin, cmd = m.spin.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.SetValue("")
		m.banner = ""
		return m.handleInput(text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleInput(text string) (tea.Model, tea.Cmd) {
	lower := strings.ToLower(text)
	switch {
	case lower == "exit" || lower == "quit":
		return m, tea.Quit

	case lower == "/new":
		m.svc.Reset()
		m.sending = true
		return m, m.startCmd()

	case strings.HasPrefix(lower, "/view "):
		return m.openDetail(domain.ID(strings.TrimSpace(text[len("/view "):])))

	case strings.HasPrefix(lower, "/fav "):
		id := domain.ID(strings.TrimSpace(text[len("/fav "):]))
		on, err := m.listings.ToggleFavorite(id)
		if err != nil {
			m.banner = "Could not update favorites."
			return m, nil
		}
		if on {
			m.banner = fmt.Sprintf("Property %s added to favorites.", id)
		} else {
			m.banner = fmt.Sprintf("Property %s removed from favorites.", id)
		}
		return m, nil
	}

	// A bare number picks the matching visible option.
	if opts := m.visibleOptions(); len(opts) > 0 {
		if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(opts) {
			text = opts[n-1]
		}
	}

	m.sending = true
	return m, m.sendCmd(text)
}

func (m Model) openDetail(id domain.ID) (tea.Model, tea.Cmd) {
	m.mode = modeDetail
	m.detailImgIndex = 0
	prop, err := listing.Find(m.store.Properties(), id)
	if err != nil {
		m.detailNotFound = id
		m.detailProp = domain.Property{}
		return m, nil
	}
	m.detailNotFound = ""
	m.detailProp = prop
	if err := m.listings.Remember(prop); err != nil {
		m.log.Warn("remembering viewed property failed", zap.Error(err))
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q":
		m.mode = modeChat
		if err := m.listings.ClearViewed(); err != nil {
			m.log.Warn("clearing viewed property failed", zap.Error(err))
		}
		return m, nil
	case "left":
		if n := len(m.detailProp.ImageList()); n > 0 {
			m.detailImgIndex = (m.detailImgIndex - 1 + n) % n
		}
		return m, nil
	case "right":
		if n := len(m.detailProp.ImageList()); n > 0 {
			m.detailImgIndex = (m.detailImgIndex + 1) % n
		}
		return m, nil
	case "f":
		if m.detailProp.ID != "" {
			if _, err := m.listings.ToggleFavorite(m.detailProp.ID); err != nil {
				m.log.Warn("toggling favorite failed", zap.Error(err))
			}
		}
		return m, nil
	}
	return m, nil
}

// visibleOptions returns the option set number keys select: the most
// recently committed option message. Earlier committed option sets stay
// on screen but are no longer selectable by number.
func (m Model) visibleOptions() []string {
	idx := m.store.LastOptionIndex()
	if idx < 0 {
		return nil
	}
	return m.store.Transcript()[idx].Options
}

func (m Model) View() string {
	if m.mode == modeDetail {
		return m.viewDetail()
	}
	return m.viewChat()
}

func (m Model) viewChat() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("RightHomeAI") + faintStyle.Render("  your real estate assistant") + "\n\n")

	transcript := m.store.Transcript()
	optIdx := m.store.LastOptionIndex()
	for i, msg := range transcript {
		label := assistantLabel
		if msg.Role == domain.RoleUser {
			label = userLabel
		}
		b.WriteString(label + " " + msg.Content + "\n")
		if msg.HasOptions() {
			if i == optIdx {
				for n, opt := range msg.Options {
					b.WriteString(optionStyle.Render(fmt.Sprintf("  [%d] %s", n+1, opt)) + "\n")
				}
			} else {
				for _, opt := range msg.Options {
					b.WriteString(faintStyle.Render("  • "+opt) + "\n")
				}
			}
		}
		b.WriteString("\n")
	}

	snap := m.seq.Snapshot()
	switch {
	case snap.TypingMessage != nil:
		b.WriteString(assistantLabel + " " + snap.TypedPrefix + "▌\n\n")
	case m.sending || !m.started:
		b.WriteString(assistantLabel + " " + m.spin.View() + faintStyle.Render("thinking") + "\n\n")
	}

	if props := m.store.Properties(); len(props) > 0 {
		b.WriteString(m.renderPropertyCards(props))
	}

	if m.banner != "" {
		b.WriteString(errorStyle.Render(m.banner) + "\n\n")
	}

	b.WriteString(m.input.View() + "\n")
	b.WriteString(faintStyle.Render("/view <id> details · /fav <id> favorite · /new restart · exit quit"))
	return b.String()
}

func (m Model) renderPropertyCards(props []domain.Property) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Matching properties") + "\n")
	for _, p := range props {
		fav := " "
		if m.listings.IsFavorite(p.ID) {
			fav = favoriteStyle.Render("★")
		}
		card := fmt.Sprintf("%s #%s %s\n%s · %s · %s",
			fav, p.ID, p.Name,
			p.Location, priceStyle.Render(p.Price.String()), p.Status)
		b.WriteString(cardStyle.Render(card) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewDetail() string {
	var b strings.Builder
	if m.detailNotFound != "" {
		b.WriteString(titleStyle.Render("Property details") + "\n\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("No property with id %s in the current results.", m.detailNotFound)) + "\n\n")
		b.WriteString(faintStyle.Render("esc back"))
		return b.String()
	}

	p := m.detailProp
	fav := ""
	if m.listings.IsFavorite(p.ID) {
		fav = " " + favoriteStyle.Render("★ favorite")
	}
	b.WriteString(titleStyle.Render(p.Name) + fav + "\n")
	b.WriteString(faintStyle.Render(p.Location) + "\n\n")

	images := p.ImageList()
	if len(images) > 0 {
		idx := m.detailImgIndex % len(images)
		b.WriteString(fmt.Sprintf("Image %d/%d: %s\n\n", idx+1, len(images), images[idx]))
	}

	b.WriteString(priceStyle.Render(p.Price.String()) + " · " + p.Status + "\n")
	if p.Area != "" {
		b.WriteString("Area: " + p.Area + "\n")
	}
	if p.Type != "" {
		b.WriteString("Type: " + p.Type + "\n")
	}
	if p.YearBuilt != "" {
		b.WriteString("Built: " + p.YearBuilt + "\n")
	}
	if p.Parking != "" {
		b.WriteString("Parking: " + p.Parking + "\n")
	}
	if p.Description != "" {
		b.WriteString("\n" + p.Description + "\n")
	}
	if amenities := p.AmenityList(); len(amenities) > 0 {
		b.WriteString("\n" + titleStyle.Render("Amenities") + "\n")
		for _, a := range amenities {
			b.WriteString("  • " + a + "\n")
		}
	}
	if p.AgentName != "" {
		b.WriteString("\n" + titleStyle.Render("Agent") + "\n")
		b.WriteString("  " + p.AgentName + "\n")
		if p.AgentPhone != "" {
			b.WriteString("  " + p.AgentPhone + "\n")
		}
		if p.AgentEmail != "" {
			b.WriteString("  " + p.AgentEmail + "\n")
		}
	}

	b.WriteString("\n" + faintStyle.Render("←/→ images · f favorite · esc back"))
	return b.String()
}
