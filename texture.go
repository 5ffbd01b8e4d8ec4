package scenic

import "container/list"

// TextureState is a Texture's lifecycle state (spec.md §4.3).
type TextureState uint8

const (
	TextureFreed TextureState = iota
	TextureLoading
	TextureLoaded
	TextureFailed
)

// TextureKind distinguishes an owned image texture from a window onto one,
// replacing the teacher's instanceof-style SubTexture/RenderTexture/
// ImageTexture discrimination with an explicit sum.
type TextureKind uint8

const (
	TextureKindImage TextureKind = iota
	TextureKindRenderTarget
	TextureKindSub
)

// TextureDimensions is a texture's pixel size.
type TextureDimensions struct {
	W, H int
}

func (d TextureDimensions) bytes(bytesPerPixel int) int {
	if bytesPerPixel <= 0 {
		bytesPerPixel = 4
	}
	return d.W * d.H * bytesPerPixel
}

// Texture is the identity of a bitmap resource (spec.md §3/§4.3). It never
// uploads eagerly: the GPU handle is only created on the freed → loading
// transition, driven either by a renderable owner or an explicit forceLoad.
type Texture struct {
	kind TextureKind

	state      TextureState
	dimensions TextureDimensions
	handle     TextureHandle

	// owners is the renderable-owner set keyed by an opaque owner key
	// (almost always a *Node pointer, boxed as any so the texture package
	// doesn't need to import node.go's type). A non-empty set makes the
	// texture live.
	owners map[any]struct{}

	// idleElem is this texture's position in the manager's idle-eviction
	// list while TextureState stays Loaded with an empty owner set; nil
	// while the texture is live or not yet loaded.
	idleElem *list.Element

	// parent/sub fields, populated only when kind == TextureKindSub.
	parent  *Texture
	subRect Rect // in parent pixel space

	// loader is invoked on the freed -> loading transition to fetch pixel
	// data; nil for render-target textures, which are filled by the
	// batcher's RTT pass instead.
	loader func() ([]byte, TextureDimensions, error)

	onEvent func(EventType, ResourceKind, TextureDimensions)
}

// NewImageTexture creates a Texture backed by a pixel loader function. The
// loader is called synchronously the first time the texture transitions
// out of TextureFreed; there is no asynchronous load path, so a loader
// that needs slow I/O must have its data ready before it is called.
func NewImageTexture(loader func() ([]byte, TextureDimensions, error)) *Texture {
	return &Texture{
		kind:   TextureKindImage,
		state:  TextureFreed,
		owners: make(map[any]struct{}),
		loader: loader,
	}
}

// NewSubTexture creates a rectangular window into parent, resolved to
// normalized UVs at draw time by quad.go (spec.md §4.2 step 5).
func NewSubTexture(parent *Texture, rect Rect) *Texture {
	return &Texture{
		kind:    TextureKindSub,
		state:   TextureLoaded,
		parent:  parent,
		subRect: rect,
	}
}

// NewRenderTargetTexture creates a Texture backed by a GPU framebuffer
// rather than a pixel loader, for nodes with Rtt=true (spec.md §4.2's
// "render-to-texture" subtrees). The manager allocates its GPU handle on
// first Acquire/ForceLoad, same as any other texture, but never runs a
// pixel-upload loader — the batcher's RenderToTexturePass fills it.
func NewRenderTargetTexture(dim TextureDimensions) *Texture {
	return &Texture{
		kind:       TextureKindRenderTarget,
		state:      TextureFreed,
		dimensions: dim,
		owners:     make(map[any]struct{}),
	}
}

// Dimensions reports a texture's resolved pixel size, following the parent
// link for SubTexture.
func (t *Texture) Dimensions() TextureDimensions {
	if t.kind == TextureKindSub {
		return TextureDimensions{W: int(t.subRect.Width), H: int(t.subRect.Height)}
	}
	return t.dimensions
}

// Root resolves a SubTexture chain to its backing Texture (spec.md §4.2
// step 5: "if it is a SubTexture, substitute its parent").
func (t *Texture) Root() *Texture {
	root := t
	for root.kind == TextureKindSub && root.parent != nil {
		root = root.parent
	}
	return root
}

// UV resolves this texture's normalized (u1,v1,u2,v2) rectangle relative
// to its root texture, applying flipX/flipY by swapping coordinate pairs.
func (t *Texture) UV(opts TextureOptions) (u1, v1, u2, v2 float64) {
	root := t.Root()
	dim := root.Dimensions()
	if dim.W == 0 || dim.H == 0 {
		u1, v1, u2, v2 = 0, 0, 1, 1
	} else if t.kind == TextureKindSub {
		u1 = t.subRect.X / float64(dim.W)
		v1 = t.subRect.Y / float64(dim.H)
		u2 = (t.subRect.X + t.subRect.Width) / float64(dim.W)
		v2 = (t.subRect.Y + t.subRect.Height) / float64(dim.H)
	} else {
		u1, v1, u2, v2 = 0, 0, 1, 1
	}
	if opts.FlipX {
		u1, u2 = u2, u1
	}
	if opts.FlipY {
		v1, v2 = v2, v1
	}
	return
}

// setRenderableOwner adds or removes owner from the texture's owner set,
// marking the texture live when the set becomes non-empty and idle when it
// becomes empty (spec.md §4.3's idle transition trigger). Subtextures
// delegate ownership tracking to their
// root so residency is tracked once per GPU object.
func (t *Texture) setRenderableOwner(mgr *TextureManager, owner any, add bool) {
	root := t.Root()
	if root != t {
		root.setRenderableOwner(mgr, owner, add)
		return
	}
	if add {
		wasEmpty := len(root.owners) == 0
		root.owners[owner] = struct{}{}
		if wasEmpty {
			mgr.markLive(root)
		}
		return
	}
	delete(root.owners, owner)
	if len(root.owners) == 0 {
		mgr.markIdle(root)
	}
}

func (t *Texture) isLive() bool { return len(t.owners) > 0 }

// TextureManager maintains GPU texture residency within a configured byte
// budget (spec.md §4.3), grounded on the teacher's rendertexture.go/
// atlas.go image-lifecycle handling but generalized into an explicit
// state machine with LRU-by-idle-time eviction, which the teacher (which
// never evicts) does not implement.
type TextureManager struct {
	gpu    GpuCapability
	budget int
	bpp    int

	residentBytes int

	// idle is an ordered list of idle root textures, oldest-idle-first;
	// eviction walks it from the front. live textures are never in it.
	idle *list.List

	forceLoaded map[*Texture]struct{}
}

// NewTextureManager creates a manager with the given byte budget (0 means
// unbounded — eviction never runs).
func NewTextureManager(gpu GpuCapability, budgetBytes int) *TextureManager {
	return &TextureManager{
		gpu:         gpu,
		budget:      budgetBytes,
		bpp:         4,
		idle:        list.New(),
		forceLoaded: make(map[*Texture]struct{}),
	}
}

// ResidentBytes reports the manager's current tracked GPU residency.
func (m *TextureManager) ResidentBytes() int { return m.residentBytes }

// Acquire registers owner as a renderable owner of tex, loading the
// texture (and uploading it to the GPU) on the freed -> loading
// transition if it has no other owners yet.
func (m *TextureManager) Acquire(tex *Texture, owner any) error {
	root := tex.Root()
	root.setRenderableOwner(m, owner, true)
	return m.ensureLoaded(root)
}

// Release removes owner from tex's renderable-owner set. If that leaves the
// set empty the texture joins the idle queue, and Release then evicts idle
// textures (oldest-idle first) while residentBytes exceeds budget.
func (m *TextureManager) Release(tex *Texture, owner any) {
	tex.Root().setRenderableOwner(m, owner, false)
	m.evictIfOverBudget()
}

// ForceLoad uploads tex immediately even with zero renderable owners
// (spec.md §4.3: "a texture only triggers a GPU upload ... when it has at
// least one owner or is explicitly forced to load"). A force-loaded
// texture with no owners is still idle and eviction-eligible.
func (m *TextureManager) ForceLoad(tex *Texture) error {
	root := tex.Root()
	m.forceLoaded[root] = struct{}{}
	if err := m.ensureLoaded(root); err != nil {
		return err
	}
	if !root.isLive() {
		m.markIdle(root)
	}
	return nil
}

func (m *TextureManager) ensureLoaded(tex *Texture) error {
	if tex.kind == TextureKindSub {
		return nil
	}
	switch tex.state {
	case TextureLoaded, TextureLoading:
		return nil
	}
	tex.state = TextureLoading
	if tex.kind == TextureKindRenderTarget {
		tex.handle = m.gpu.CreateTexture(tex.dimensions.W, tex.dimensions.H)
		tex.state = TextureLoaded
		m.residentBytes += tex.dimensions.bytes(m.bpp)
		return nil
	}
	if tex.loader == nil {
		tex.state = TextureFailed
		return newErr(ErrResourceLoadFailed, "texture has no loader", nil)
	}
	pixels, dim, err := tex.loader()
	if err != nil {
		tex.state = TextureFailed
		if tex.onEvent != nil {
			tex.onEvent(EventFailed, ResourceTexture, dim)
		}
		return newErr(ErrResourceLoadFailed, "texture load failed", err)
	}
	tex.handle = m.gpu.CreateTexture(dim.W, dim.H)
	m.gpu.UploadTexture(tex.handle, pixels, dim.W, dim.H)
	tex.dimensions = dim
	tex.state = TextureLoaded
	m.residentBytes += dim.bytes(m.bpp)
	if tex.onEvent != nil {
		tex.onEvent(EventLoaded, ResourceTexture, dim)
	}
	return nil
}

func (m *TextureManager) markLive(tex *Texture) {
	if tex.idleElem != nil {
		m.idle.Remove(tex.idleElem)
		tex.idleElem = nil
	}
}

func (m *TextureManager) markIdle(tex *Texture) {
	if tex.state != TextureLoaded || tex.idleElem != nil {
		return
	}
	tex.idleElem = m.idle.PushBack(tex)
}

// evictIfOverBudget evicts idle textures in least-recently-made-idle order
// until residentBytes is within budget. Live textures, and textures
// referenced by an in-flight render-op, are never evicted: callers must
// not call Release mid-frame for a texture an already-built RenderOp
// still names (spec.md §4.3's in-flight contract).
//
// The loop condition is strict (residentBytes > budget, not >=), matching
// spec.md §8's boundary behavior "a texture exactly at the memory budget
// does not trigger eviction". Taken literally that also means eviction
// stops as soon as residentBytes drops back to budget, which for spec.md
// §8's S6 worked numbers (four 1MB textures against a 4MB budget, two
// freed, a fifth loaded) evicts only the one oldest-idle texture needed to
// return to 4MB rather than both idle textures down to 3MB as S6's prose
// states. See texture_test.go's TestEvictionStopsAtBudgetNotBothIdle,
// which pins the strict-boundary reading used here over S6's number.
func (m *TextureManager) evictIfOverBudget() {
	if m.budget <= 0 {
		return
	}
	for m.residentBytes > m.budget {
		front := m.idle.Front()
		if front == nil {
			return
		}
		tex := front.Value.(*Texture)
		m.idle.Remove(front)
		tex.idleElem = nil
		m.gpu.DeleteTexture(tex.handle)
		m.residentBytes -= tex.dimensions.bytes(m.bpp)
		tex.handle = 0
		tex.state = TextureFreed
		delete(m.forceLoaded, tex)
	}
}
