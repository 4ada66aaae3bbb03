package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"canarycast/internal/cache"
	"canarycast/internal/config"
	"canarycast/internal/utils"
)

var browseCmd = &cobra.Command{
	Use:   "browse [namespace]",
	Short: "Interactive cache browser",
	Long: `Browse cached entries interactively with a terminal UI.

Navigate namespaces and entries with keyboard controls, inspect stored
values as an expandable JSON tree, and delete entries in place.

Examples:
  canarycast browse             # Start at the namespace list
  canarycast browse weather     # Jump straight into the weather namespace`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	var ns cache.Namespace
	if len(args) > 0 {
		ns = cache.Namespace(args[0])
		if !ns.Valid() {
			return fmt.Errorf("unknown namespace %q (valid: %v)", args[0], cache.Namespaces())
		}
	}

	c, kv, err := utils.NewCache()
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer kv.Close()

	model := newBrowserModel(c, ns)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		// Fallback to static listing if interactive mode fails
		return runStaticBrowse(c, ns)
	}

	return nil
}

// runStaticBrowse prints entries as a plain table for non-TTY use
func runStaticBrowse(c *cache.Cache, ns cache.Namespace) error {
	namespaces := []cache.Namespace{ns}
	if ns == "" {
		namespaces = cache.Namespaces()
	}

	t := prettytable.NewWriter()
	t.SetStyle(prettytable.StyleRounded)
	t.AppendHeader(prettytable.Row{"Namespace", "Key", "Age", "Size"})

	rows := 0
	for _, n := range namespaces {
		for _, e := range collectEntries(c, n) {
			t.AppendRow(prettytable.Row{string(n), e.Key, utils.FormatAge(e.Age), utils.FormatBytes(int64(e.Size))})
			rows++
		}
	}

	if rows == 0 {
		fmt.Println("Cache is empty")
		return nil
	}

	fmt.Println(t.Render())
	return nil
}

// entryInfo is one row of the entry table
type entryInfo struct {
	Namespace cache.Namespace
	Key       string
	Age       time.Duration
	TTL       time.Duration
	Size      int
}

// collectEntries lists the valid entries of a namespace with their ages
func collectEntries(c *cache.Cache, ns cache.Namespace) []entryInfo {
	items := c.NamespaceItems(ns)

	entries := make([]entryInfo, 0, len(items))
	for key, value := range items {
		info := entryInfo{Namespace: ns, Key: key, Size: len(value)}
		if age, ok := c.Age(ns, key); ok {
			info.Age = age
		}
		if entry, ok := c.Inspect(ns, key); ok {
			info.TTL = time.Duration(entry.TTL) * time.Millisecond
		}
		entries = append(entries, info)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// browserState represents the current view state
type browserState int

const (
	stateNamespaces browserState = iota
	stateEntries
	stateDetail
	stateError
)

// browserModel is the main Bubble Tea model
type browserModel struct {
	state browserState
	cache *cache.Cache

	// Namespace list state
	namespaces        []cache.Namespace
	selectedNamespace int

	// Entry list state
	namespace  cache.Namespace
	entries    []entryInfo
	tableModel table.Model

	// Detail state
	entryKey      string
	value         any
	valueNodes    []valueNode
	selectedNode  int
	expandedNodes map[string]bool

	// UI state
	err     error
	width   int
	height  int
	lastKey string // for tracking key sequences like 'yy'

	statusMessage string
	statusUntil   time.Time
}

func newBrowserModel(c *cache.Cache, ns cache.Namespace) *browserModel {
	columns := []table.Column{
		{Title: "Key", Width: config.KeyColumnWidth},
		{Title: "Age", Width: config.AgeColumnWidth},
		{Title: "TTL", Width: config.TTLColumnWidth},
		{Title: "Size", Width: config.SizeColumnWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(config.DefaultTableHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := &browserModel{
		cache:         c,
		namespaces:    cache.Namespaces(),
		namespace:     ns,
		tableModel:    t,
		expandedNodes: make(map[string]bool),
	}

	if ns != "" {
		m.state = stateEntries
	} else {
		m.state = stateNamespaces
	}

	return m
}

// Messages for data loading
type entriesLoadedMsg struct {
	entries []entryInfo
}

type entryLoadedMsg struct {
	key   string
	value any
}

type browseErrorMsg struct {
	err error
}

func loadEntries(c *cache.Cache, ns cache.Namespace) tea.Cmd {
	return func() tea.Msg {
		return entriesLoadedMsg{entries: collectEntries(c, ns)}
	}
}

func loadEntry(c *cache.Cache, ns cache.Namespace, key string) tea.Cmd {
	return func() tea.Msg {
		var raw json.RawMessage
		if !c.Get(ns, key, &raw) {
			return browseErrorMsg{fmt.Errorf("entry %s %s is gone or no longer valid", ns, key)}
		}
		value, err := decodeValue(raw)
		if err != nil {
			return browseErrorMsg{fmt.Errorf("failed to decode entry value: %w", err)}
		}
		return entryLoadedMsg{key: key, value: value}
	}
}

// Init implements tea.Model
func (m *browserModel) Init() tea.Cmd {
	if m.state == stateEntries {
		return loadEntries(m.cache, m.namespace)
	}
	return nil
}

// Update implements tea.Model
func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.state == stateEntries {
		m.tableModel, cmd = m.tableModel.Update(msg)
	}

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.state == stateEntries {
			tableHeight := m.height - 8 // header, footer, padding
			if tableHeight < config.MinTableHeight {
				tableHeight = config.MinTableHeight
			}
			m.tableModel.SetHeight(tableHeight)
		}
		return m, cmd

	case tea.KeyMsg:
		newModel, keyCmd := m.handleKeyPress(msg)
		return newModel, tea.Batch(cmd, keyCmd)

	case entriesLoadedMsg:
		m.entries = msg.entries
		m.state = stateEntries
		m.updateTableRows()
		return m, nil

	case entryLoadedMsg:
		m.entryKey = msg.key
		m.value = msg.value
		m.expandedNodes = map[string]bool{"value": true}
		m.selectedNode = 0
		m.rebuildValueTree()
		m.state = stateDetail
		return m, nil

	case browseErrorMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	return m, nil
}

func (m *browserModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.state == stateNamespaces && m.selectedNamespace > 0 {
			m.selectedNamespace--
		}
		if m.state == stateDetail && m.selectedNode > 0 {
			m.selectedNode--
		}

	case "down", "j":
		if m.state == stateNamespaces && m.selectedNamespace < len(m.namespaces)-1 {
			m.selectedNamespace++
		}
		if m.state == stateDetail && m.selectedNode < len(m.valueNodes)-1 {
			m.selectedNode++
		}

	case "enter":
		switch m.state {
		case stateNamespaces:
			m.namespace = m.namespaces[m.selectedNamespace]
			return m, loadEntries(m.cache, m.namespace)
		case stateEntries:
			if e, ok := m.selectedEntry(); ok {
				return m, loadEntry(m.cache, m.namespace, e.Key)
			}
		}

	case "space", "right", "l":
		if m.state == stateDetail && len(m.valueNodes) > 0 {
			node := m.valueNodes[m.selectedNode]
			if node.HasChildren {
				m.expandedNodes[node.Path] = !m.expandedNodes[node.Path]
				m.rebuildValueTree()
			}
		}

	case "left", "h":
		if m.state == stateDetail && len(m.valueNodes) > 0 {
			node := m.valueNodes[m.selectedNode]
			if node.HasChildren && m.expandedNodes[node.Path] {
				m.expandedNodes[node.Path] = false
				m.rebuildValueTree()
			}
		}

	case "d":
		if m.state == stateEntries {
			if e, ok := m.selectedEntry(); ok {
				if m.cache.Remove(m.namespace, e.Key) {
					m.setStatus(fmt.Sprintf("Deleted %s", e.Key))
				} else {
					m.setStatus(fmt.Sprintf("Failed to delete %s", e.Key))
				}
				return m, loadEntries(m.cache, m.namespace)
			}
		}

	case "y":
		if m.lastKey == "y" { // yy sequence - copy entry value
			m.lastKey = ""
			m.copyCurrentEntry()
			return m, nil
		}
		m.lastKey = "y"
		return m, nil

	case "r":
		if m.state == stateEntries {
			return m, loadEntries(m.cache, m.namespace)
		}

	case "b", "backspace":
		switch m.state {
		case stateDetail:
			m.state = stateEntries
			m.entryKey = ""
			m.value = nil
			m.valueNodes = nil
			m.selectedNode = 0
		case stateEntries:
			m.state = stateNamespaces
			m.namespace = ""
			m.entries = nil
			m.updateTableRows()
		case stateError:
			m.err = nil
			m.state = stateNamespaces
		}
	}

	m.lastKey = ""
	return m, nil
}

// View implements tea.Model
func (m *browserModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case stateNamespaces:
		return m.renderNamespaces()
	case stateEntries:
		return m.renderEntries()
	case stateDetail:
		return m.renderDetail()
	case stateError:
		return m.renderError()
	default:
		return "Unknown state"
	}
}

func (m *browserModel) renderNamespaces() string {
	var content strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Padding(0, 1)

	content.WriteString(headerStyle.Render("🗄  Forecast cache"))
	content.WriteString("\n\n")

	for i, ns := range m.namespaces {
		count := len(m.cache.NamespaceItems(ns))

		var style lipgloss.Style
		if i == m.selectedNamespace {
			style = lipgloss.NewStyle().
				Background(lipgloss.Color("62")).
				Foreground(lipgloss.Color("230")).
				Padding(0, 1)
		} else {
			style = lipgloss.NewStyle().Padding(0, 1)
		}

		countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
		line := fmt.Sprintf("%-14s %s", ns, countStyle.Render(fmt.Sprintf("%d entries", count)))
		content.WriteString(style.Render(line))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(m.renderFooter("⌨️  [↑↓] Navigate • [Enter] Open • [q] Quit"))

	return content.String()
}

func (m *browserModel) renderEntries() string {
	var content strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Padding(0, 1)

	content.WriteString(headerStyle.Render(fmt.Sprintf("🗄  %s", m.namespace)))
	content.WriteString("\n\n")

	if len(m.entries) == 0 {
		content.WriteString("No valid entries in this namespace")
	} else {
		content.WriteString(m.tableModel.View())
	}

	content.WriteString("\n")
	content.WriteString(m.renderFooter("⌨️  [↑↓] Navigate • [Enter] Inspect • [d] Delete • [r] Reload • [b] Back • [q] Quit"))

	return content.String()
}

func (m *browserModel) renderDetail() string {
	var content strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Padding(0, 1)

	content.WriteString(headerStyle.Render(fmt.Sprintf("🗄  %s / %s", m.namespace, m.entryKey)))
	content.WriteString("\n\n")

	if age, ok := m.cache.Age(m.namespace, m.entryKey); ok {
		metaStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Padding(0, 1)
		content.WriteString(metaStyle.Render(fmt.Sprintf("🕒 Last updated %s", utils.FormatAge(age))))
		content.WriteString("\n\n")
	}

	content.WriteString(renderValueTree(m.valueNodes, m.selectedNode, m.expandedNodes))

	content.WriteString("\n")
	content.WriteString(m.renderFooter("⌨️  [↑↓] Navigate • [Space/→] Expand • [←] Collapse • [yy] Copy • [b] Back • [q] Quit"))

	return content.String()
}

func (m *browserModel) renderError() string {
	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196"))

	return errorStyle.Render(fmt.Sprintf("❌ Error: %s\n\nPress [b] to go back or [q] to quit", m.err.Error()))
}

func (m *browserModel) renderFooter(hint string) string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(1, 1)

	if m.statusMessage != "" && time.Now().Before(m.statusUntil) {
		return footerStyle.Render(m.statusMessage + " • " + hint)
	}
	return footerStyle.Render(hint)
}

func (m *browserModel) setStatus(msg string) {
	m.statusMessage = msg
	m.statusUntil = time.Now().Add(3 * time.Second)
}

func (m *browserModel) selectedEntry() (entryInfo, bool) {
	idx := m.tableModel.Cursor()
	if idx < 0 || idx >= len(m.entries) {
		return entryInfo{}, false
	}
	return m.entries[idx], true
}

func (m *browserModel) rebuildValueTree() {
	m.valueNodes = buildValueNodes(m.value, m.expandedNodes)
	if m.selectedNode >= len(m.valueNodes) {
		m.selectedNode = 0
	}
}

// updateTableRows populates the table component with current entry data
func (m *browserModel) updateTableRows() {
	if len(m.entries) == 0 {
		m.tableModel.SetRows([]table.Row{})
		return
	}

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			e.Key,
			utils.FormatAge(e.Age),
			e.TTL.Round(time.Second).String(),
			utils.FormatBytes(int64(e.Size)),
		}
	}
	m.tableModel.SetRows(rows)
}

// copyCurrentEntry puts the inspected entry's value on the clipboard
func (m *browserModel) copyCurrentEntry() {
	if m.state != stateDetail {
		return
	}

	var raw json.RawMessage
	if !m.cache.Get(m.namespace, m.entryKey, &raw) {
		m.setStatus("Entry is gone")
		return
	}

	if err := utils.CopyToClipboard(string(raw)); err != nil {
		m.setStatus("Copy failed: " + err.Error())
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s to clipboard", m.entryKey))
}
