package ui

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenSegments(t *testing.T) {
	got := parseTokenSegments("<F3>name<CR>")
	assert.Equal(t, []tokenSegment{
		{text: "<F3>", isVimKey: true},
		{text: "name"},
		{text: "<CR>", isVimKey: true},
	}, got)

	assert.Equal(t, []tokenSegment{{text: "a"}, {text: "<b"}}, parseTokenSegments("a<b"))
}

func TestKeyMsgFromToken(t *testing.T) {
	msg, ok := keyMsgFromToken("<C-d>")
	require.True(t, ok)
	assert.Equal(t, "ctrl+d", msg.String())

	msg, ok = keyMsgFromToken("<M-x>")
	require.True(t, ok)
	assert.Equal(t, "alt+x", msg.String())

	msg, ok = keyMsgFromToken("<Esc>")
	require.True(t, ok)
	assert.Equal(t, tea.KeyPressMsg{Code: tea.KeyEscape}, msg)

	_, ok = keyMsgFromToken("<Nope>")
	assert.False(t, ok)
	_, ok = keyMsgFromToken("plain")
	assert.False(t, ok)
}

func TestApplyStartupKeys(t *testing.T) {
	m := newTestModel(t, sampleDoc, Options{})
	ApplyStartupKeys(m, []string{"G", "/null<CR>"})
	assert.Equal(t, NormalMode, m.Mode())
	assert.Equal(t, "null", m.Engine().SearchTerm())
	assert.Equal(t, 4, cursorLine(m))
}

func TestApplyStartupKeysLiteral(t *testing.T) {
	m := newTestModel(t, sampleDoc, Options{})
	ApplyStartupKeys(m, []string{"/", `\<CR>`})
	assert.Equal(t, SearchMode, m.Mode())
	assert.Equal(t, "<CR>", m.input.Value())
}

func TestApplyStartupKeysNil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyStartupKeys(nil, []string{"j"}) })
}
