package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"katagollum-tui/controller"
)

// typingFrames are the staggered dots shown while the bot is thinking.
var typingFrames = []string{"●∙∙", "∙●∙", "∙∙●"}

// ChatPanel renders the message history, the typing indicator, the
// hovered-move preview line and the chat input.
type ChatPanel struct {
	ctrl  *controller.Controller
	view  *tview.TextView
	input *tview.InputField
	flex  *tview.Flex
	frame int
	busy  bool
}

// NewChatPanel creates the chat panel.
func NewChatPanel(ctrl *controller.Controller) *ChatPanel {
	p := &ChatPanel{ctrl: ctrl}

	p.view = tview.NewTextView()
	p.view.SetDynamicColors(true)
	p.view.SetBorder(true)
	p.view.SetTitle(" Chat ")
	p.view.SetTitleAlign(tview.AlignLeft)

	p.input = tview.NewInputField()
	p.input.SetLabel(" > ")
	p.input.SetFieldBackgroundColor(tcell.ColorDefault)
	// Typing is locked out while a move or message is in flight.
	p.input.SetAcceptanceFunc(func(string, rune) bool {
		return !p.busy
	})
	p.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := p.input.GetText()
		if text == "" {
			return
		}
		// Rejected sends keep the text so nothing typed is lost.
		if p.ctrl.SendChat(text) {
			p.input.SetText("")
		}
	})

	p.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.view, 0, 1, false).
		AddItem(p.input, 1, 0, true)

	return p
}

// Flex returns the panel container.
func (p *ChatPanel) Flex() *tview.Flex {
	return p.flex
}

// Input returns the input field for focus handling.
func (p *ChatPanel) Input() *tview.InputField {
	return p.input
}

// AdvanceTyping moves the typing animation one frame. Driven by a ticker
// while the snapshot reports thinking.
func (p *ChatPanel) AdvanceTyping() {
	p.frame = (p.frame + 1) % len(typingFrames)
}

// Refresh re-renders the message list from a snapshot and auto-scrolls to
// the newest content.
func (p *ChatPanel) Refresh() {
	snap := p.ctrl.Snapshot()

	var text string
	for _, msg := range snap.Messages {
		label := "[green::b]You[-:-:-]"
		if msg.Role == "assistant" {
			label = "[yellow::b]Bot[-:-:-]"
		}
		content := tview.Escape(msg.Content)
		if msg.Pending {
			text += fmt.Sprintf("%s [dimgray]%s[-]\n", label, content)
		} else {
			text += fmt.Sprintf("%s %s\n", label, content)
		}
	}

	if snap.Thinking {
		text += fmt.Sprintf("[yellow::b]Bot[-:-:-] [dimgray]%s[-]\n", typingFrames[p.frame])
	}
	if snap.Hover != "" {
		text += fmt.Sprintf("[dimgray]  pending move: %s[-]\n", snap.Hover)
	}

	p.view.SetText(text)
	p.view.ScrollToEnd()

	p.busy = snap.Busy()
	if p.busy {
		p.input.SetLabel(" ◌ ")
	} else {
		p.input.SetLabel(" > ")
	}
}

// InputEnabled reports whether the input field currently accepts typing.
func (p *ChatPanel) InputEnabled() bool {
	return !p.busy
}
