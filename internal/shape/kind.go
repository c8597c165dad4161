package shape

// Kind is the closed set of shapes the canvas knows how to build.
type Kind int

const (
	Rect Kind = iota
	Ellipse
	Pentagon
	Triangle
	Diamond
	RoundedRect
	Arrow
)

var kindTags = [...]string{
	Rect:        "rect",
	Ellipse:     "ellipse",
	Pentagon:    "pentagon",
	Triangle:    "triangle",
	Diamond:     "diamond",
	RoundedRect: "roundedrect",
	Arrow:       "arrow",
}

// Kinds lists every kind in palette order.
var Kinds = []Kind{Rect, Ellipse, Pentagon, Triangle, Diamond, RoundedRect, Arrow}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindTags) {
		return "unknown"
	}
	return kindTags[k]
}

// ParseKind maps a type tag to its kind. Unknown tags report false.
func ParseKind(tag string) (Kind, bool) {
	for k, t := range kindTags {
		if t == tag {
			return Kind(k), true
		}
	}
	return 0, false
}

// Traits is the capability table consulted instead of probing for concrete types.
type Traits struct {
	Text    bool // carries an editable label
	Anchors bool // exposes arrow anchors and arrow spawn handles
}

func (k Kind) Traits() Traits {
	if k == Arrow {
		return Traits{}
	}
	return Traits{Text: true, Anchors: true}
}

func (k Kind) IsArrow() bool {
	return k == Arrow
}
