package canvas

// EventType identifies a canvas notification.
type EventType int

const (
	EventSelectionChanged      EventType = iota // data: selected index
	EventSelectionCleared                       // data: nil
	EventCanUndoChanged                         // data: bool
	EventCanRedoChanged                         // data: bool
	EventZoomChanged                            // data: float64
	EventGridSizeChanged                        // data: int
	EventGridVisibilityChanged                  // data: bool
	EventPageSizeChanged                        // data: geom.Size
	EventBackgroundChanged                      // data: color.RGBA
	EventTextEditingChanged                     // data: geom.Rect editor bounds in screen space, nil when editing stops
	EventChanged                                // data: nil, any change to shapes or connections
)

// EventListener is a callback for canvas events.
type EventListener func(data interface{})

// On registers a listener for the specified event type.
func (c *Canvas) On(event EventType, listener EventListener) {
	c.listeners[event] = append(c.listeners[event], listener)
}

func (c *Canvas) emit(event EventType, data interface{}) {
	for _, listener := range c.listeners[event] {
		listener(data)
	}
}

func (c *Canvas) changed() {
	c.emit(EventChanged, nil)
}
