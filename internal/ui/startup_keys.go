package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ApplyStartupKeys replays keypresses before the first frame. Tokens are
// literal text or Vim-like keys such as <CR>, <Esc>, <Tab>, <Down>, <C-c>;
// a leading backslash forces the whole token to be literal.
func ApplyStartupKeys(m *Model, tokens []string) {
	if m == nil {
		return
	}
	for _, msg := range startupKeyMsgs(tokens) {
		m.Update(msg)
	}
}

func startupKeyMsgs(tokens []string) []tea.KeyPressMsg {
	var msgs []tea.KeyPressMsg
	for _, raw := range tokens {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, `\`) {
			msgs = append(msgs, literalKeyMsgs(strings.TrimPrefix(token, `\`))...)
			continue
		}
		for _, segment := range parseTokenSegments(token) {
			if !segment.isVimKey {
				msgs = append(msgs, literalKeyMsgs(segment.text)...)
				continue
			}
			if km, ok := keyMsgFromToken(segment.text); ok {
				msgs = append(msgs, km)
			}
		}
	}
	return msgs
}

func literalKeyMsgs(s string) []tea.KeyPressMsg {
	msgs := make([]tea.KeyPressMsg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return msgs
}

type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits "<Down><CR>x" into key and literal segments.
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token
	for len(remaining) > 0 {
		start := strings.Index(remaining, "<")
		if start == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if start > 0 {
			segments = append(segments, tokenSegment{text: remaining[:start]})
		}
		end := strings.Index(remaining[start:], ">")
		if end == -1 {
			segments = append(segments, tokenSegment{text: remaining[start:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[start : start+end+1], isVimKey: true})
		remaining = remaining[start+end+1:]
	}
	return segments
}

// keyMsgFromToken maps one <...> token to a key press.
func keyMsgFromToken(token string) (tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return tea.KeyPressMsg{}, false
	}
	switch strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")) {
	case "esc", "c-[", "escape":
		return tea.KeyPressMsg{Code: tea.KeyEscape}, true
	case "cr", "enter", "return":
		return tea.KeyPressMsg{Code: tea.KeyEnter}, true
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}, true
	case "space":
		return tea.KeyPressMsg{Code: ' ', Text: " "}, true
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}, true
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}, true
	case "pgup", "pageup":
		return tea.KeyPressMsg{Code: tea.KeyPgUp}, true
	case "pgdn", "pgdown", "pagedown":
		return tea.KeyPressMsg{Code: tea.KeyPgDown}, true
	case "home":
		return tea.KeyPressMsg{Code: tea.KeyHome}, true
	case "end":
		return tea.KeyPressMsg{Code: tea.KeyEnd}, true
	case "c-c":
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}, true
	}
	return tea.KeyPressMsg{}, false
}
