package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xwindow"

	"gridsnap/internal/grid"
)

// Method selects how a geometry change is delivered to the target window.
// The set is closed; there is no fallback from one method to another.
type Method int

const (
	// MethodDirect resizes the window immediately, bypassing window manager
	// negotiation.
	MethodDirect Method = iota
	// MethodConfigure issues a client ConfigureRequest the window manager may
	// intercept or adjust.
	MethodConfigure
	// MethodMessage sends a _NET_MOVERESIZE_WINDOW client message to the root
	// window, tagged as coming from a pager so WMs honor it even for windows
	// that resist normal resize requests.
	MethodMessage
)

// String returns the configuration name of the method.
func (m Method) String() string {
	switch m {
	case MethodDirect:
		return "direct"
	case MethodConfigure:
		return "configure"
	case MethodMessage:
		return "message"
	default:
		return "unknown"
	}
}

// ParseMethod maps a configuration name to a Method. Unknown names are an
// unrecoverable configuration error.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "direct":
		return MethodDirect, nil
	case "configure":
		return MethodConfigure, nil
	case "message":
		return MethodMessage, nil
	default:
		return 0, fmt.Errorf("invalid method %q, must be direct, configure or message", s)
	}
}

// _NET_MOVERESIZE_WINDOW flag layout: gravity occupies the low byte, bits
// 8-11 flag the presence of x/y/width/height, bits 12-15 carry the source
// indication (2 = pager/taskbar).
const (
	moveResizePresenceAll = 0xF << 8
	moveResizeSourcePager = 2 << 12
	moveResizeAtomName    = "_NET_MOVERESIZE_WINDOW"
)

// ApplyGeometry moves and resizes target to r (root coordinates) using the
// given method, then waits for the server to process the request so a
// subsequent redraw observes the window's new state.
func (c *Connection) ApplyGeometry(target xproto.Window, r grid.Rect, method Method) error {
	var err error
	switch method {
	case MethodDirect:
		xwindow.New(c.XUtil, target).MoveResize(r.X, r.Y, r.Width, r.Height)

	case MethodConfigure:
		err = xproto.ConfigureWindowChecked(
			c.XUtil.Conn(),
			target,
			xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
			[]uint32{
				uint32(r.X),
				uint32(r.Y),
				uint32(r.Width),
				uint32(r.Height),
			},
		).Check()

	case MethodMessage:
		err = c.sendMoveResizeMessage(target, r)

	default:
		return fmt.Errorf("unsupported resize method %d", method)
	}

	if err != nil {
		return fmt.Errorf("failed to apply geometry via %s: %w", method, err)
	}

	c.Sync()
	return nil
}

// sendMoveResizeMessage builds the EWMH message by hand; the xgbutil ewmh
// request helpers panic on this library version (uint vs int type assertion).
func (c *Connection) sendMoveResizeMessage(target xproto.Window, r grid.Rect) error {
	atom, err := c.InternAtom(moveResizeAtomName)
	if err != nil {
		return err
	}

	flags := uint32(xproto.GravityNorthWest) | moveResizePresenceAll | moveResizeSourcePager
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: target,
		Type:   atom,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			flags,
			uint32(r.X),
			uint32(r.Y),
			uint32(r.Width),
			uint32(r.Height),
		}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
