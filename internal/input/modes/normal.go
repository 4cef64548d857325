package modes

import (
	"gitsandbox/internal/history"
	"gitsandbox/internal/input/types"
	"gitsandbox/internal/terminal"
)

// NormalMode edits the command line
type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return types.ModeNormal.String()
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(key terminal.Key, ctx types.Context) ([]types.Action, bool) {
	switch key.Type {
	case terminal.KeyRune:
		return []types.Action{types.InsertAction{Rune: key.Rune}}, true
	case terminal.KeyBackspace:
		return []types.Action{types.DeleteBackAction{}}, true
	case terminal.KeyLeft:
		return []types.Action{types.MoveCursorAction{Direction: "left"}}, true
	case terminal.KeyRight:
		return []types.Action{types.MoveCursorAction{Direction: "right"}}, true
	case terminal.KeyUp:
		return []types.Action{types.HistoryAction{Direction: history.Older}}, true
	case terminal.KeyDown:
		return []types.Action{types.HistoryAction{Direction: history.Newer}}, true
	case terminal.KeyTab:
		return []types.Action{types.CompleteAction{}}, true
	case terminal.KeyEnter:
		return []types.Action{types.SubmitAction{}}, true
	case terminal.KeyCtrlR:
		return []types.Action{types.ChangeModeAction{Mode: types.ModeReverseSearch}}, true
	case terminal.KeyCancel:
		return []types.Action{types.CancelLineAction{}}, true
	}
	return nil, false
}
