package scenic

// zeroWidthSpace is a valid word-break point under WordBreakNormal, same
// as an ordinary space (spec.md §4.4: "break only at whitespace/
// zero-width-space").
const zeroWidthSpace = '​'

// GlyphInfo is one font face's metrics for a single codepoint, resolved
// into SDF atlas pixel units plus normalized UV rectangle (spec.md §4.4's
// font-face contract).
type GlyphInfo struct {
	XAdvance, XOffset, YOffset float64
	Width, Height              float64
	U, V, UW, VH               float64
}

// FontFace is the signed-distance-field font-face contract spec.md §4.4
// requires: base design size, distance-field range, vertical metrics, a
// per-codepoint glyph table, kerning pairs and a backing atlas texture.
// Grounded on the teacher's BitmapFont (text.go), generalized from a fixed
// BMFont pixel atlas to an SDF atlas whose metrics scale with fontSize.
type FontFace interface {
	InfoSize() float64
	DistanceRange() float64
	Ascender() float64
	Descender() float64
	LineGap() float64
	Glyph(r rune) (GlyphInfo, bool)
	Kerning(prev, curr rune) float64
	IsLoaded() bool
	AtlasTexture() *Texture
}

// FontRegistry resolves font-family names to FontFace instances and
// retries text states that were waiting on a face that has since loaded
// (spec.md §4.4's "register a callback and return" failure semantics),
// generalized from the teacher's single-font TextBlock.Font field, which
// has no notion of a named family registry or a loading face at all.
type FontRegistry struct {
	faces   map[string]FontFace
	pending map[string][]*TextState
}

// NewFontRegistry creates an empty registry.
func NewFontRegistry() *FontRegistry {
	return &FontRegistry{faces: make(map[string]FontFace), pending: make(map[string][]*TextState)}
}

// Register associates a family name with a face. If family already has
// pending text states awaiting it, they are retried immediately.
func (r *FontRegistry) Register(family string, face FontFace) {
	r.faces[family] = face
	waiters := r.pending[family]
	delete(r.pending, family)
	for _, ts := range waiters {
		ts.ensureFace()
	}
}

func (r *FontRegistry) resolve(family string) (FontFace, bool) {
	f, ok := r.faces[family]
	return f, ok
}

func (r *FontRegistry) await(family string, ts *TextState) {
	r.pending[family] = append(r.pending[family], ts)
}

// TextParams carries spec.md §4.4's text-layout inputs.
type TextParams struct {
	Text          string
	FontFamily    string
	FontSize      float64
	LetterSpacing float64

	// LineHeight of zero means "computed from font metrics" per the
	// font-face contract's ascender/descender/lineGap.
	LineHeight float64

	MaxLines int // 0 = unlimited

	TextAlign     TextAlign
	VerticalAlign VerticalAlign
	Contain       ContainMode

	Width, Height float64
	OffsetY       float64
	ScrollY       float64
	Scrollable    bool

	WordBreak      WordBreak
	OverflowSuffix string
}

// overflowSuffix resolves TextParams.OverflowSuffix to the marker truncate
// appends after the last visible line. spec.md §8's boundary behavior reads
// an explicitly empty OverflowSuffix as "no truncation marker", but a plain
// Go string field can't distinguish "caller set it to empty on purpose"
// from "caller left TextParams at its zero value" the way a optional/
// pointer field could — so this follows spec.md §6's "overflowSuffix
// (default '...')" reading instead and always substitutes the default for
// an empty string. See sdftext_test.go's
// TestEmptyOverflowSuffixStillAppendsDefaultMarker, which pins this.
func (p TextParams) overflowSuffix() string {
	if p.OverflowSuffix == "" {
		return "..."
	}
	return p.OverflowSuffix
}

type lineCacheEntry struct {
	codepointIndex int
	maxY, maxX     float64
}

type layoutGlyph struct {
	x, y float64
	info GlyphInfo

	// fallbackTex is non-nil when this glyph was rasterized by a
	// TTFFallback rather than resolved from the SDF atlas — its own
	// standalone image covers the full quad at UV (0,0)-(1,1), instead of
	// a sub-rectangle of the shared atlas.
	fallbackTex *Texture
}

// textStatus mirrors TextureState's freed/loading/loaded/failed shape for
// a text layout's lifecycle (spec.md §4.4's failure semantics).
type textStatus uint8

const (
	textUnresolved textStatus = iota
	textAwaitingFace
	textLaidOut
	textFailed
)

// TextState holds one node's text-layout inputs, cached line layout and
// laid-out glyph quads. Grounded on the teacher's TextBlock (text.go) —
// Content/Align/WrapWidth/layoutDirty/lines/wordGlyphs generalize directly
// — reworked for an SDF atlas with a bounded render window, a line cache
// and maxLines/overflowSuffix truncation, none of which the teacher's
// fixed-size BitmapFont layout needs. The line cache is rebuilt by every
// full layout; a layout never resumes from a cached line.
type TextState struct {
	registry *FontRegistry
	Params   TextParams

	face   FontFace
	status textStatus
	err    *EngineError

	lineCache []lineCacheEntry
	glyphs    []layoutGlyph
	wordBuf   []layoutGlyph

	measuredW, measuredH float64
	numLines             int
	fullyProcessed       bool

	lastWindow Bound
	forced     bool

	fallback *TTFFallback
}

// SetFallback attaches a TTF rasterizer this text state consults for any
// codepoint missing from the SDF atlas (spec.md §4.4's auxiliary text
// source for un-atlased glyphs).
func (ts *TextState) SetFallback(f *TTFFallback) { ts.fallback = f }

// NewTextState creates a text state bound to registry, attempting an
// immediate face resolution.
func NewTextState(registry *FontRegistry, params TextParams) *TextState {
	ts := &TextState{registry: registry, Params: params}
	ts.ensureFace()
	return ts
}

// Dimensions reports the text block's last-measured size.
func (ts *TextState) Dimensions() (float64, float64) { return ts.measuredW, ts.measuredH }

// SetText replaces the displayed string and invalidates the cached
// layout and render window, so the next Relayout reflows from scratch
// instead of early-outing on a window that covered the old string.
func (ts *TextState) SetText(text string) {
	ts.Params.Text = text
	if ts.status == textLaidOut {
		ts.status = textUnresolved
	}
	ts.lastWindow = Bound{}
}

// Failed reports whether the font family could not be resolved at all
// (spec.md §4.4: "if the font face cannot be resolved ... no matching
// family ... no glyphs are emitted").
func (ts *TextState) Failed() bool { return ts.status == textFailed }

func (ts *TextState) ensureFace() bool {
	if ts.face != nil && ts.face.IsLoaded() {
		return true
	}
	face, ok := ts.registry.resolve(ts.Params.FontFamily)
	if !ok {
		ts.status = textFailed
		ts.err = newErr(ErrFontFaceUnresolved, "no font face registered for family \""+ts.Params.FontFamily+"\"", nil)
		return false
	}
	ts.face = face
	if !face.IsLoaded() {
		ts.status = textAwaitingFace
		ts.registry.await(ts.Params.FontFamily, ts)
		return false
	}
	ts.status = textUnresolved // face ready; layout still pending
	return true
}

func (ts *TextState) defaultLineHeight() float64 {
	if ts.Params.LineHeight > 0 {
		return ts.Params.LineHeight
	}
	ratio := ts.Params.FontSize / ts.face.InfoSize()
	return (ts.face.Ascender() - ts.face.Descender() + ts.face.LineGap()) * ratio
}

// ForceLoad lays the text out immediately regardless of whether a render
// window has ever been supplied, mirroring texture.go's ForceLoad for
// resources an application wants resident before they first become
// visible (the Open Question spec.md §4.4 left for per-resource forcing,
// resolved the same way as textures: forcing never implies ongoing
// renderable ownership).
func (ts *TextState) ForceLoad() error {
	ts.forced = true
	return ts.Relayout(Bound{Valid: false})
}

// Relayout implements spec.md §4.4's numbered algorithm. window is the
// currently visible rectangle in the node's local coordinate system; an
// invalid window (forced load, or no viewport information yet) always
// triggers a full layout.
func (ts *TextState) Relayout(window Bound) error {
	if ts.status == textFailed {
		// Look the family up again: it may have been registered since.
		if !ts.ensureFace() {
			if ts.status == textFailed {
				return ts.err
			}
			return nil
		}
	}
	if ts.face == nil || !ts.face.IsLoaded() {
		if !ts.ensureFace() {
			return ts.err
		}
	}
	if window.Valid && ts.status == textLaidOut && ts.lastWindow.Valid && ts.lastWindow.ContainsBound(window) {
		return nil // step 3: previous window still covers the visible rect
	}

	fontRatio := ts.Params.FontSize / ts.face.InfoSize()
	lh := ts.defaultLineHeight()
	maxW := ts.Params.Width
	wrap := ts.Params.Contain != ContainNone && maxW > 0

	ts.glyphs = ts.glyphs[:0]
	ts.lineCache = ts.lineCache[:0]
	ts.wordBuf = ts.wordBuf[:0]

	var cursorY, lineWidth, measuredW float64
	var wordWidth float64 // width of the glyphs currently buffered in ts.wordBuf, relative to their own start
	var prevRune rune
	var hasPrev bool
	lineStart := len(ts.glyphs)
	lineNo := 0

	commitLine := func() {
		if lineWidth > measuredW {
			measuredW = lineWidth
		}
		ts.applyAlign(lineStart, len(ts.glyphs), lineWidth, maxW)
		ts.lineCache = append(ts.lineCache, lineCacheEntry{codepointIndex: lineStart, maxY: cursorY + lh, maxX: lineWidth})
		lineNo++
		lineWidth = 0
		cursorY += lh
		hasPrev = false
		lineStart = len(ts.glyphs)
	}

	// commitWord appends the buffered word onto the current line at the
	// line's current width, splitting it across a fresh line first under
	// break-word if even a line of its own can't hold it (spec.md §4.4:
	// "break-word: prefer whitespace break; else break within the word").
	commitWord := func() {
		if wrap && lineWidth > 0 && lineWidth+wordWidth > maxW {
			commitLine()
		}
		if wrap && ts.Params.WordBreak == WordBreakWord && wordWidth > maxW {
			split := 0
			for split < len(ts.wordBuf) {
				g := ts.wordBuf[split]
				if g.x+g.info.Width > maxW && split > 0 {
					break
				}
				split++
			}
			if split > 0 && split < len(ts.wordBuf) {
				for _, g := range ts.wordBuf[:split] {
					g.x += lineWidth
					g.y += cursorY
					ts.glyphs = append(ts.glyphs, g)
				}
				lineWidth += ts.wordBuf[split-1].x + ts.wordBuf[split-1].info.Width
				commitLine()
				tail := append([]layoutGlyph(nil), ts.wordBuf[split:]...)
				base := tail[0].x
				for i := range tail {
					tail[i].x -= base
				}
				ts.wordBuf = tail
				wordWidth -= base
			}
		}
		for _, g := range ts.wordBuf {
			g.x += lineWidth
			g.y += cursorY
			ts.glyphs = append(ts.glyphs, g)
		}
		lineWidth += wordWidth
		ts.wordBuf = ts.wordBuf[:0]
		wordWidth = 0
	}

	appendGlyphAll := func(g layoutGlyph, advance float64) {
		if wrap && lineWidth > 0 && lineWidth+advance > maxW {
			commitLine()
		}
		g.x = lineWidth
		g.y = cursorY
		ts.glyphs = append(ts.glyphs, g)
		lineWidth += advance
	}

	content := ts.Params.Text
	for _, r := range content {
		if r == '\n' {
			commitWord()
			commitLine()
			prevRune, hasPrev = 0, false
			continue
		}

		info, ok := ts.face.Glyph(r)
		ratio := fontRatio
		var fbTex *Texture
		if !ok {
			if ts.fallback == nil {
				hasPrev = false
				continue
			}
			fbInfo, tex, fbOk := ts.fallback.Glyph(r)
			if !fbOk {
				hasPrev = false
				continue
			}
			info, fbTex, ratio = fbInfo, tex, 1 // already rasterized at the fallback's own size
		}
		kern := 0.0
		if hasPrev && fbTex == nil {
			kern = ts.face.Kerning(prevRune, r)
		}
		advance := info.XAdvance*ratio + kern + ts.Params.LetterSpacing

		switch {
		case r == ' ' || r == zeroWidthSpace:
			commitWord()
			g := layoutGlyph{info: scaleGlyph(info, ratio), fallbackTex: fbTex}
			appendGlyphAll(g, advance)
		case ts.Params.WordBreak == WordBreakAll:
			g := layoutGlyph{info: scaleGlyph(info, ratio), fallbackTex: fbTex}
			g.y = info.YOffset * ratio
			appendGlyphAll(g, advance)
		default:
			g := layoutGlyph{
				x:           wordWidth + kern + info.XOffset*ratio,
				y:           info.YOffset * ratio,
				info:        scaleGlyph(info, ratio),
				fallbackTex: fbTex,
			}
			ts.wordBuf = append(ts.wordBuf, g)
			wordWidth += advance
		}

		prevRune, hasPrev = r, true
	}
	commitWord()
	if lineWidth > 0 || len(ts.lineCache) == 0 {
		commitLine()
	}

	ts.numLines = lineNo
	ts.fullyProcessed = true
	if ts.Params.MaxLines > 0 && ts.numLines > ts.Params.MaxLines {
		ts.truncate(ts.Params.MaxLines, lh)
		ts.numLines = ts.Params.MaxLines
		ts.fullyProcessed = false
	}

	ts.measuredW = measuredW
	ts.measuredH = float64(ts.numLines) * lh
	ts.applyVerticalAlign(lh)

	ts.status = textLaidOut
	ts.lastWindow = window
	return nil
}

func scaleGlyph(info GlyphInfo, ratio float64) GlyphInfo {
	info.Width *= ratio
	info.Height *= ratio
	return info
}

func (ts *TextState) applyAlign(from, to int, lineWidth, containerW float64) {
	if ts.Params.TextAlign == TextAlignLeft || containerW <= 0 {
		return
	}
	var offset float64
	if ts.Params.TextAlign == TextAlignCenter {
		offset = (containerW - lineWidth) / 2
	} else {
		offset = containerW - lineWidth
	}
	if offset == 0 {
		return
	}
	for i := from; i < to; i++ {
		ts.glyphs[i].x += offset
	}
}

func (ts *TextState) applyVerticalAlign(lh float64) {
	if ts.Params.Contain != ContainBoth || ts.Params.Height <= 0 {
		return
	}
	var offset float64
	switch ts.Params.VerticalAlign {
	case VerticalAlignMiddle:
		offset = (ts.Params.Height - ts.measuredH) / 2
	case VerticalAlignBottom:
		offset = ts.Params.Height - ts.measuredH
	}
	if offset == 0 {
		return
	}
	for i := range ts.glyphs {
		ts.glyphs[i].y += offset
	}
}

// truncate drops glyphs past maxLines, then trims the last kept line from
// the tail until "line + overflowSuffix" fits within Width (spec.md §4.4
// step 7), using the suffix's own glyph widths so it measures correctly
// under the active font.
func (ts *TextState) truncate(maxLines int, lh float64) {
	if maxLines >= len(ts.lineCache) {
		return
	}
	cut := ts.lineCache[maxLines].codepointIndex // first glyph of the first dropped line
	ts.glyphs = ts.glyphs[:cut]
	ts.lineCache = ts.lineCache[:maxLines]

	suffix := ts.Params.overflowSuffix()
	var suffixGlyphs []layoutGlyph
	var suffixW float64
	var x float64
	var prev rune
	var hasPrev bool
	for _, r := range suffix {
		info, ok := ts.face.Glyph(r)
		if !ok {
			continue
		}
		kern := 0.0
		if hasPrev {
			kern = ts.face.Kerning(prev, r)
		}
		ratio := ts.Params.FontSize / ts.face.InfoSize()
		suffixGlyphs = append(suffixGlyphs, layoutGlyph{x: x + kern, y: 0, info: scaleGlyph(info, ratio)})
		adv := info.XAdvance*ratio + kern
		x += adv
		suffixW += adv
		prev, hasPrev = r, true
	}

	limit := ts.Params.Width
	for len(ts.glyphs) > 0 && limit > 0 {
		last := ts.glyphs[len(ts.glyphs)-1]
		lineW := last.x + last.info.Width
		if lineW+suffixW <= limit {
			break
		}
		ts.glyphs = ts.glyphs[:len(ts.glyphs)-1]
	}
	tailX := 0.0
	if len(ts.glyphs) > 0 {
		last := ts.glyphs[len(ts.glyphs)-1]
		tailX = last.x + last.info.Width
	}
	lastY := float64(maxLines-1) * lh
	for _, g := range suffixGlyphs {
		g.x += tailX
		g.y += lastY
		ts.glyphs = append(ts.glyphs, g)
	}
}
