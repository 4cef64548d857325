package input

import (
	"gitsandbox/internal/input/modes"
	"gitsandbox/internal/input/types"
	"gitsandbox/internal/terminal"
)

// Handler routes keys to the active mode and performs mode switches
type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
}

func New() *Handler {
	h := &Handler{
		currentMode: types.ModeNormal,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	// Register all mode handlers
	h.modes[types.ModeNormal] = modes.NewNormalMode()
	h.modes[types.ModeReverseSearch] = modes.NewSearchMode()

	return h
}

// HandleKey passes key to the active mode. ChangeModeActions are carried
// out here, in order, and replaced by the Exit and Enter actions of the
// modes involved.
func (h *Handler) HandleKey(key terminal.Key, ctx types.Context) []types.Action {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil
	}

	actions, consumed := handler.HandleKey(key, ctx)
	if !consumed {
		return nil
	}

	var allActions []types.Action
	for _, action := range actions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			allActions = append(allActions, action)
			continue
		}
		if changeMode.Mode == h.currentMode {
			continue
		}

		// Exit current mode
		if current := h.modes[h.currentMode]; current != nil {
			allActions = append(allActions, current.Exit(ctx)...)
		}

		h.currentMode = changeMode.Mode

		// Enter new mode
		if next := h.modes[h.currentMode]; next != nil {
			allActions = append(allActions, next.Enter(ctx)...)
		}
	}

	return allActions
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}
