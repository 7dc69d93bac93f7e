package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/bucket/internal/bucket"
	"github.com/Makepad-fr/bucket/internal/imaging"
	"github.com/Makepad-fr/bucket/internal/model"
	"github.com/Makepad-fr/bucket/internal/suggest"
)

type tab int

const (
	tabPending tab = iota
	tabCompleted
	tabSuggest
)

var tabNames = []string{"Bucket list", "Done", "Ideas"}

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	ID        string
	Text      string
	Done      bool
	Suggested bool
	When      string
	Notes     int
}

func (i listItem) FilterValue() string { return i.Text }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)

	box := mutedStyle.Render(boxUnchecked)
	text := it.Text
	if it.Done {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	line := box + " " + text
	if it.Suggested {
		line += " " + suggestedStyle.Render("✨")
	}
	if it.Notes > 0 {
		line += " " + mutedStyle.Render(fmt.Sprintf("✎%d", it.Notes))
	}
	if it.When != "" {
		line += "  " + mutedStyle.Render(it.When)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type modelTUI struct {
	svc  *bucket.Service
	deck *suggest.Deck

	tab    tab
	list   list.Model
	width  int
	height int
	status string
	err    string

	// Inline add / edit share one text input
	adding  bool
	editing bool
	editID  string
	ti      textinput.Model

	// Delete asks for confirmation since notes go with the item
	confirmDelete string

	// Notes of one item, opened with enter from either list
	notesFor    string
	notesTitle  string
	noteIdx     int
	addingNote  bool
	confirmNote string
}

var (
	addBind      = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind     = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	completeBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "complete"))
	deleteBind   = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	upBind       = key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up"))
	downBind     = key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down"))
	tabBind      = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view"))
	acceptBind   = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add to list"))
	skipBind     = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "skip"))
	notesBind    = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "notes"))
	backBind     = key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back"))
	noteUpBind   = key.NewBinding(key.WithKeys("up", "k"))
	noteDownBind = key.NewBinding(key.WithKeys("down", "j"))
)

// Run starts the interactive list. Every action is written through svc as
// it happens, so quitting never loses work.
func Run(svc *bucket.Service, deck *suggest.Deck) error {
	p := tea.NewProgram(newModel(svc, deck), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(svc *bucket.Service, deck *suggest.Deck) modelTUI {
	l := list.New(nil, itemDelegate{}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{addBind, completeBind, notesBind, upBind, downBind, tabBind}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{addBind, editBind, completeBind, deleteBind, notesBind, upBind, downBind, tabBind}
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = model.MaxTitleLen

	m := modelTUI{svc: svc, deck: deck, list: l, ti: ti, width: 80, height: 24}
	m.refresh()
	return m
}

// refresh rebuilds the list from the service for the current tab.
func (m *modelTUI) refresh() {
	var (
		src  []model.Item
		done bool
	)
	switch m.tab {
	case tabCompleted:
		src, done = m.svc.Completed(), true
	default:
		src = m.svc.Pending()
	}
	items := make([]list.Item, 0, len(src))
	for _, it := range src {
		li := listItem{
			ID:        it.ID,
			Text:      it.Title,
			Done:      done,
			Suggested: it.Source == model.SourceSuggested,
			Notes:     len(m.svc.Notes.Scope(it.ID).Notes()),
		}
		if done && it.CompletedAt != nil {
			li.When = it.CompletedAt.Local().Format("2006-01-02")
		}
		items = append(items, li)
	}
	m.list.SetItems(items)
	m.list.Title = m.header()
}

func (m modelTUI) header() string {
	items := m.svc.Items.All()
	dn, pn := model.Stats(items)
	return fmt.Sprintf("%s   %s %d  %s %d  %s",
		titleStyle.Render("Bucket list"),
		successStyle.Render("✔"), dn,
		pendingStyle.Render("•"), pn,
		mutedStyle.Render(progressBar(dn, dn+pn, 16)),
	)
}

func (m modelTUI) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

// selectID moves the cursor onto the item with id, if visible.
func (m *modelTUI) selectID(id string) {
	for i, it := range m.list.Items() {
		if li, ok := it.(listItem); ok && li.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *modelTUI) fail(err error) {
	m.status = ""
	m.err = err.Error()
}

func (m *modelTUI) ok(msg string) {
	m.err = ""
	m.status = msg
}

// Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd { return nil }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}

	if m.adding || m.editing || m.addingNote {
		return m.updateInput(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		if m.notesFor != "" {
			return m.updateNotes(km)
		}
		if m.confirmDelete != "" {
			if km.String() == "y" {
				m.svc.DeleteItem(m.confirmDelete)
				m.refresh()
				m.ok("deleted")
			} else {
				m.ok("kept")
			}
			m.confirmDelete = ""
			return m, nil
		}
		if !m.list.SettingFilter() {
			if next, cmd, handled := m.handleKey(km); handled {
				return next, cmd
			}
		}
	}

	if m.tab == tabSuggest {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) handleKey(km tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(km, tabBind):
		m.tab = (m.tab + 1) % 3
		m.list.ResetFilter()
		m.refresh()
		m.status, m.err = "", ""
		return m, nil, true
	case km.String() == "q" && m.tab == tabSuggest:
		return m, tea.Quit, true
	}

	switch m.tab {
	case tabSuggest:
		switch {
		case key.Matches(km, acceptBind):
			sg := m.deck.Accept()
			if _, err := m.svc.AcceptSuggestion(sg); err != nil {
				m.fail(err)
			} else {
				m.ok("added “" + sg.Title + "”")
			}
			return m, nil, true
		case key.Matches(km, skipBind):
			m.deck.Skip()
			m.status, m.err = "", ""
			return m, nil, true
		}
		return m, nil, false

	case tabPending:
		switch {
		case key.Matches(km, addBind):
			m.adding = true
			m.err = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "Something you want to do..."
			return m, m.ti.Focus(), true
		case key.Matches(km, editBind):
			if it, ok := m.selected(); ok {
				m.editing = true
				m.editID = it.ID
				m.err = ""
				m.ti.SetValue(it.Text)
				m.ti.CursorEnd()
				m.ti.Placeholder = "New title..."
				return m, m.ti.Focus(), true
			}
			return m, nil, true
		case key.Matches(km, completeBind):
			if it, ok := m.selected(); ok {
				if _, err := m.svc.Complete(it.ID); err != nil {
					m.fail(err)
				} else {
					m.refresh()
					m.ok("🎉 completed “" + it.Text + "”")
				}
			}
			return m, nil, true
		case key.Matches(km, deleteBind):
			return m.askDelete(), nil, true
		case key.Matches(km, notesBind):
			return m.openNotes(), nil, true
		case key.Matches(km, upBind), key.Matches(km, downBind):
			return m.move(key.Matches(km, upBind)), nil, true
		}

	case tabCompleted:
		switch {
		case key.Matches(km, deleteBind):
			return m.askDelete(), nil, true
		case key.Matches(km, notesBind):
			return m.openNotes(), nil, true
		}
	}
	return m, nil, false
}

func (m modelTUI) askDelete() modelTUI {
	if it, ok := m.selected(); ok {
		m.confirmDelete = it.ID
		m.ok("delete “" + it.Text + "” and its notes? (y/N)")
	}
	return m
}

func (m modelTUI) openNotes() modelTUI {
	it, ok := m.selected()
	if !ok {
		return m
	}
	m.notesFor, m.notesTitle, m.noteIdx = it.ID, it.Text, 0
	m.status, m.err = "", ""
	return m
}

// updateNotes handles keys while the notes of one item are open.
func (m modelTUI) updateNotes(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	notes := m.svc.NotesOf(m.notesFor)
	if m.confirmNote != "" {
		if km.String() == "y" {
			m.svc.DeleteNote(m.notesFor, m.confirmNote)
			m.noteIdx = max(0, min(m.noteIdx, len(notes)-2))
			m.ok("note deleted")
		} else {
			m.ok("kept")
		}
		m.confirmNote = ""
		return m, nil
	}
	switch {
	case key.Matches(km, backBind):
		m.notesFor, m.notesTitle = "", ""
		m.refresh()
		m.status, m.err = "", ""
	case key.Matches(km, noteUpBind):
		m.noteIdx = max(0, m.noteIdx-1)
	case key.Matches(km, noteDownBind):
		m.noteIdx = max(0, min(m.noteIdx+1, len(notes)-1))
	case key.Matches(km, addBind):
		m.addingNote = true
		m.err = ""
		m.ti.SetValue("")
		m.ti.Placeholder = "Write a note..."
		m.ti.CharLimit = 0
		return m, m.ti.Focus()
	case key.Matches(km, deleteBind):
		if m.noteIdx < len(notes) {
			m.confirmNote = notes[m.noteIdx].ID
			m.ok("delete this note? (y/N)")
		}
	}
	return m, nil
}

// move shifts the selected pending item one slot up or down.
func (m modelTUI) move(up bool) modelTUI {
	if m.list.FilterState() != list.Unfiltered {
		m.fail(errors.New("clear the filter before reordering"))
		return m
	}
	it, ok := m.selected()
	if !ok {
		return m
	}
	from := m.list.Index()
	to := from + 1
	if up {
		to = from - 1
	}
	if to < 0 || to >= len(m.list.Items()) {
		return m
	}
	if err := m.svc.MovePending(from, to); err != nil {
		m.fail(err)
		return m
	}
	m.refresh()
	m.selectID(it.ID)
	m.status, m.err = "", ""
	return m
}

func (m modelTUI) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			var err error
			if m.addingNote {
				var n model.Note
				n, err = m.svc.AddTextNote(m.notesFor, m.ti.Value())
				if err == nil {
					m.noteIdx = len(m.svc.NotesOf(n.ItemID)) - 1
					m.ok("note added")
				}
			} else if m.adding {
				var it model.Item
				it, err = m.svc.AddItem(m.ti.Value())
				if err == nil {
					m.refresh()
					m.selectID(it.ID)
					m.ok("added")
				}
			} else {
				err = m.svc.Rename(m.editID, m.ti.Value())
				if err == nil {
					m.refresh()
					m.selectID(m.editID)
					m.ok("renamed")
				}
			}
			if err != nil {
				m.fail(err)
				return m, nil
			}
			m.closeInput()
			return m, nil
		case "esc":
			m.closeInput()
			m.err = ""
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *modelTUI) closeInput() {
	m.adding, m.editing, m.addingNote = false, false, false
	m.ti.CharLimit = model.MaxTitleLen
	m.editID = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m modelTUI) tabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.tab {
			parts[i] = activeTabStyle.Render(name)
		} else {
			parts[i] = inactiveTabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m modelTUI) View() string {
	var b strings.Builder
	b.WriteString(m.tabs())
	b.WriteString("\n")

	listHeight := m.height - 6
	if m.adding || m.editing || m.addingNote {
		listHeight -= 3
	}

	switch {
	case m.notesFor != "":
		b.WriteString(m.notesView())
	case m.tab == tabSuggest:
		b.WriteString(m.suggestView())
	default:
		m.list.SetSize(m.width-4, max(listHeight, 3))
		b.WriteString(m.list.View())
	}

	if m.adding || m.editing || m.addingNote {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		title := "Add to the list"
		switch {
		case m.editing:
			title = "Edit title"
		case m.addingNote:
			title = "New note"
		}
		b.WriteString("\n" + bar.Render(title+"\n"+m.ti.View()))
	}

	switch {
	case m.err != "":
		b.WriteString("\n" + errorStyle.Render("✖ "+m.err))
	case m.status != "":
		b.WriteString("\n" + successStyle.Render(m.status))
	}
	return panelString(b.String())
}

func (m modelTUI) suggestView() string {
	cur, next := m.deck.Current(), m.deck.Next()
	card := cardStyle.Render(
		accentStyle.Render(strings.ToUpper(cur.Category)) + "\n\n" + titleStyle.Render(cur.Title))
	under := nextCardStyle.Render(mutedStyle.Render("next: " + next.Title))
	help := helpStyle.Render("enter add to list • n skip • tab switch view • q quit")
	return lipgloss.JoinVertical(lipgloss.Center, "", card, under, "", help)
}

func (m modelTUI) notesView() string {
	notes := m.svc.NotesOf(m.notesFor)
	lines := []string{titleStyle.Render(m.notesTitle), ""}
	if len(notes) == 0 {
		lines = append(lines, mutedStyle.Render("no notes yet"))
	}
	for i, n := range notes {
		prefix := "  "
		if i == m.noteIdx {
			prefix = selectedStyle.Render("> ")
		}
		head := mutedStyle.Render(n.CreatedAt.Local().Format("2006-01-02 15:04"))
		if n.Image != nil {
			head += " " + accentStyle.Render(fmt.Sprintf("📷 photo %.0fKB", imaging.EncodedSizeKB(*n.Image)))
		}
		lines = append(lines, prefix+head)
		if n.Content != nil {
			for _, ln := range strings.Split(*n.Content, "\n") {
				lines = append(lines, "    "+ln)
			}
		}
	}
	lines = append(lines, "", helpStyle.Render("a add note • d delete note • ↑/↓ select • esc back"))
	return strings.Join(lines, "\n")
}
