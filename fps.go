package scenic

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// FPSWidget is a small always-on-top text node reporting the engine's
// actual FPS/TPS, refreshed twice a second rather than every frame to
// avoid relaying out the string on every single Frame call. Grounded
// on the teacher's NewFPSWidget (fps.go), rebuilt on the SDF text
// engine instead of ebitenutil.DebugPrint onto a raw custom image,
// since nodes no longer own an ebiten.Image of their own.
type FPSWidget struct {
	Node *Node
	text *TextState

	accum float64
}

// NewFPSWidget creates an FPSWidget node using fontFamily resolved
// through registry. The caller positions and attaches Node to the tree
// like any other node; NewFPSWidget sets a high z-index so it draws on
// top of ordinary content by default.
func NewFPSWidget(queue *EventQueue, registry *FontRegistry, fontFamily string, fontSize float64) *FPSWidget {
	ts := NewTextState(registry, TextParams{
		Text:       "FPS: --\nTPS: --",
		FontFamily: fontFamily,
		FontSize:   fontSize,
		TextAlign:  TextAlignLeft,
		Width:      fontSize * 6,
		Height:     fontSize * 2.4,
	})
	node := NewNode(queue, NodeConfig{
		Width: fontSize * 6, Height: fontSize * 2.4,
		Alpha: 1, Colors: SolidCornerColors(ColorWhite),
	})
	node.AttachText(ts)
	node.SetZIndex(1 << 20)
	return &FPSWidget{Node: node, text: ts}
}

// Update refreshes the widget's text roughly twice a second from
// ebiten's own actual FPS/TPS counters. Call once per frame, typically
// just before Engine.Frame.
func (w *FPSWidget) Update(dt float64) {
	w.accum += dt
	if w.accum < 0.5 {
		return
	}
	w.accum = 0
	w.text.SetText(fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}
