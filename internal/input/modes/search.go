package modes

import (
	"gitsandbox/internal/input/types"
	"gitsandbox/internal/linebuf"
	"gitsandbox/internal/search"
	"gitsandbox/internal/terminal"
)

// SearchMode is readline style incremental reverse history search. Its
// search state only exists between Enter and Exit.
type SearchMode struct {
	state *search.State
}

func NewSearchMode() *SearchMode {
	return &SearchMode{}
}

func (m *SearchMode) Name() string {
	return types.ModeReverseSearch.String()
}

func (m *SearchMode) Enter(ctx types.Context) []types.Action {
	m.state = search.Start(ctx.Line(), len(ctx.HistoryEntries()))
	return []types.Action{types.ShowSearchAction{View: m.state.View()}}
}

func (m *SearchMode) Exit(ctx types.Context) []types.Action {
	m.state = nil
	return []types.Action{types.RedrawLineAction{}}
}

func (m *SearchMode) HandleKey(key terminal.Key, ctx types.Context) ([]types.Action, bool) {
	if m.state == nil {
		return nil, false
	}
	entries := ctx.HistoryEntries()

	switch key.Type {
	case terminal.KeyCtrlR:
		m.state.Next(entries)
	case terminal.KeyRune:
		m.state.Type(key.Rune, entries)
	case terminal.KeyBackspace:
		if m.state.Query == "" {
			return nil, true
		}
		m.state.Backspace(entries)
	case terminal.KeyEnter:
		return []types.Action{
			types.ChangeModeAction{Mode: types.ModeNormal},
			types.SubmitAction{},
		}, true
	case terminal.KeyCancel:
		return []types.Action{
			types.LoadLineAction{Line: m.state.Saved},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	default:
		// everything else is swallowed while searching
		return nil, true
	}

	return []types.Action{
		types.LoadLineAction{Line: linebuf.Snapshot{Text: m.state.Match, Cursor: len([]rune(m.state.Match))}},
		types.ShowSearchAction{View: m.state.View()},
	}, true
}
