package cmd

import (
	"encoding/json"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"canarycast/internal/cache"
	"canarycast/internal/store"
)

func newBrowserTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	return cache.New(store.NewMemoryStore())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestDecodeValuePreservesNumbers(t *testing.T) {
	value, err := decodeValue(json.RawMessage(`{"temp": 24.50, "count": 12345678901234567890}`))
	if err != nil {
		t.Fatalf("decodeValue failed: %v", err)
	}

	obj, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("decoded to %T, want object", value)
	}
	if n, ok := obj["temp"].(json.Number); !ok || n.String() != "24.50" {
		t.Errorf("temp = %v, want json.Number 24.50", obj["temp"])
	}
}

func TestDecodeValueRejectsInvalidJSON(t *testing.T) {
	if _, err := decodeValue(json.RawMessage(`{broken`)); err == nil {
		t.Error("decodeValue accepted invalid JSON")
	}
}

func TestBuildValueNodesCollapsed(t *testing.T) {
	value, _ := decodeValue(json.RawMessage(`{"a": 1, "b": {"c": 2}}`))

	nodes := buildValueNodes(value, map[string]bool{})
	if len(nodes) != 1 {
		t.Fatalf("collapsed root produced %d nodes, want 1", len(nodes))
	}
	if nodes[0].Kind != "object" || !nodes[0].HasChildren {
		t.Errorf("root node = %+v, want expandable object", nodes[0])
	}
	if nodes[0].Preview != "{2 fields}" {
		t.Errorf("root preview = %q, want field count", nodes[0].Preview)
	}
}

func TestBuildValueNodesExpanded(t *testing.T) {
	value, _ := decodeValue(json.RawMessage(`{"b": {"c": 2}, "a": 1}`))

	nodes := buildValueNodes(value, map[string]bool{"value": true})
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want root plus two sorted fields", len(nodes))
	}
	if nodes[1].Name != "a" || nodes[2].Name != "b" {
		t.Errorf("fields not sorted: %q, %q", nodes[1].Name, nodes[2].Name)
	}
	if nodes[1].Level != 1 {
		t.Errorf("child level = %d, want 1", nodes[1].Level)
	}

	// Nested object stays collapsed until its own path is expanded
	if nodes[2].Kind != "object" {
		t.Errorf("node b kind = %q, want object", nodes[2].Kind)
	}
	nodes = buildValueNodes(value, map[string]bool{"value": true, "value.b": true})
	if len(nodes) != 4 {
		t.Errorf("got %d nodes after nested expansion, want 4", len(nodes))
	}
}

func TestBuildValueNodesArraysAndScalars(t *testing.T) {
	value, _ := decodeValue(json.RawMessage(`[true, null, "x"]`))

	nodes := buildValueNodes(value, map[string]bool{"value": true})
	if len(nodes) != 4 {
		t.Fatalf("got %d nodes, want root plus three items", len(nodes))
	}
	if nodes[0].Preview != "[3 items]" {
		t.Errorf("array preview = %q", nodes[0].Preview)
	}
	if nodes[1].Kind != "bool" || nodes[1].Preview != "true" {
		t.Errorf("item 0 = %+v, want bool true", nodes[1])
	}
	if nodes[2].Kind != "null" {
		t.Errorf("item 1 kind = %q, want null", nodes[2].Kind)
	}
	if nodes[3].Kind != "string" || nodes[3].Preview != `"x"` {
		t.Errorf("item 2 = %+v, want quoted string", nodes[3])
	}
}

func TestCollectEntriesSorted(t *testing.T) {
	c := newBrowserTestCache(t)
	c.Set(cache.Weather, "current_tenerife", map[string]any{"temp": 25}, 0)
	c.Set(cache.Weather, "current_el-paso", map[string]any{"temp": 22}, 0)

	entries := collectEntries(c, cache.Weather)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Key != "current_el-paso" || entries[1].Key != "current_tenerife" {
		t.Errorf("entries not sorted by key: %q, %q", entries[0].Key, entries[1].Key)
	}
	if entries[0].Size == 0 {
		t.Error("entry size not populated")
	}
	if entries[0].TTL <= 0 {
		t.Error("entry TTL not populated")
	}
}

func TestBrowserStartsAtNamespaceList(t *testing.T) {
	m := newBrowserModel(newBrowserTestCache(t), "")
	if m.state != stateNamespaces {
		t.Errorf("state = %v, want namespace list", m.state)
	}
	if m.Init() != nil {
		t.Error("namespace list should not load entries at init")
	}
}

func TestBrowserJumpsIntoNamespace(t *testing.T) {
	m := newBrowserModel(newBrowserTestCache(t), cache.Weather)
	if m.state != stateEntries {
		t.Errorf("state = %v, want entry list", m.state)
	}
	if m.Init() == nil {
		t.Error("entry list should load entries at init")
	}
}

func TestBrowserNamespaceNavigation(t *testing.T) {
	m := newBrowserModel(newBrowserTestCache(t), "")

	m.handleKeyPress(keyMsg("j"))
	m.handleKeyPress(keyMsg("j"))
	if m.selectedNamespace != 2 {
		t.Errorf("selected = %d after two downs, want 2", m.selectedNamespace)
	}

	m.handleKeyPress(keyMsg("k"))
	if m.selectedNamespace != 1 {
		t.Errorf("selected = %d after up, want 1", m.selectedNamespace)
	}

	// Cursor clamps at the top
	m.handleKeyPress(keyMsg("k"))
	m.handleKeyPress(keyMsg("k"))
	if m.selectedNamespace != 0 {
		t.Errorf("selected = %d, want clamped at 0", m.selectedNamespace)
	}
}

func TestBrowserEnterLoadsEntries(t *testing.T) {
	c := newBrowserTestCache(t)
	c.Set(cache.Weather, "current_tenerife", map[string]any{"temp": 25}, 0)

	m := newBrowserModel(c, "")
	_, loadCmd := m.handleKeyPress(keyMsg("enter"))
	if loadCmd == nil {
		t.Fatal("enter on a namespace did not produce a load command")
	}

	msg := loadCmd()
	loaded, ok := msg.(entriesLoadedMsg)
	if !ok {
		t.Fatalf("load produced %T, want entriesLoadedMsg", msg)
	}
	if len(loaded.entries) != 1 {
		t.Errorf("loaded %d entries, want 1", len(loaded.entries))
	}

	m.Update(msg)
	if m.state != stateEntries {
		t.Errorf("state = %v after load, want entry list", m.state)
	}
}

func TestBrowserDetailExpandCollapse(t *testing.T) {
	c := newBrowserTestCache(t)
	c.Set(cache.Weather, "current_tenerife", map[string]any{"wind": map[string]any{"kph": 17}}, 0)

	m := newBrowserModel(c, cache.Weather)
	msg := loadEntry(c, cache.Weather, "current_tenerife")()
	m.Update(msg)

	if m.state != stateDetail {
		t.Fatalf("state = %v after entry load, want detail", m.state)
	}
	// Root is pre-expanded so the top-level fields are visible
	if len(m.valueNodes) != 2 {
		t.Fatalf("got %d nodes, want expanded root plus wind", len(m.valueNodes))
	}

	m.handleKeyPress(keyMsg("j"))
	m.handleKeyPress(keyMsg("l"))
	if len(m.valueNodes) != 3 {
		t.Errorf("got %d nodes after expanding wind, want 3", len(m.valueNodes))
	}

	m.handleKeyPress(keyMsg("h"))
	if len(m.valueNodes) != 2 {
		t.Errorf("got %d nodes after collapsing wind, want 2", len(m.valueNodes))
	}

	// Back returns to the entry list and clears detail state
	m.handleKeyPress(keyMsg("b"))
	if m.state != stateEntries || m.valueNodes != nil {
		t.Error("back did not return to the entry list")
	}
}

func TestBrowserDeleteRemovesEntry(t *testing.T) {
	c := newBrowserTestCache(t)
	c.Set(cache.Weather, "current_tenerife", map[string]any{"temp": 25}, 0)

	m := newBrowserModel(c, cache.Weather)
	m.Update(loadEntries(c, cache.Weather)())

	_, reload := m.handleKeyPress(keyMsg("d"))
	if reload == nil {
		t.Fatal("delete did not trigger a reload")
	}
	if c.Has(cache.Weather, "current_tenerife") {
		t.Error("entry survived delete")
	}

	m.Update(reload())
	if len(m.entries) != 0 {
		t.Errorf("entry list has %d rows after delete, want 0", len(m.entries))
	}
}

func TestBrowserYankRequiresSequence(t *testing.T) {
	m := newBrowserModel(newBrowserTestCache(t), "")

	m.handleKeyPress(keyMsg("y"))
	if m.lastKey != "y" {
		t.Error("first y not tracked for the yy sequence")
	}

	// Any other key breaks the sequence
	m.handleKeyPress(keyMsg("j"))
	if m.lastKey != "" {
		t.Error("yy sequence not reset by an unrelated key")
	}
}

func TestBrowserErrorState(t *testing.T) {
	c := newBrowserTestCache(t)
	m := newBrowserModel(c, cache.Weather)

	msg := loadEntry(c, cache.Weather, "missing")()
	if _, ok := msg.(browseErrorMsg); !ok {
		t.Fatalf("loading a missing entry produced %T, want browseErrorMsg", msg)
	}

	m.Update(msg)
	if m.state != stateError {
		t.Errorf("state = %v, want error view", m.state)
	}

	m.handleKeyPress(keyMsg("b"))
	if m.state != stateNamespaces || m.err != nil {
		t.Error("back did not clear the error state")
	}
}
