// Package x11 wraps the X server connection and the window operations
// gridsnap needs: pointer queries, target resolution, focus handoff, and the
// three resize strategies.
package x11

import (
	"fmt"
	"log"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// Initialize keybind so keysyms can be resolved for the Escape key.
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// LogProtocolErrors installs logger as the sink for asynchronous X protocol
// errors delivered on the event loop. A misbehaving target window can
// produce these at any time; they are reported and otherwise ignored so the
// interactive session keeps running.
func (c *Connection) LogProtocolErrors(logger *log.Logger) {
	xevent.ErrorHandlerSet(c.XUtil, func(err xgb.Error) {
		logger.Printf("X error: %s", err.Error())
	})
}

// PointerPosition returns the pointer's position in root coordinates.
func (c *Connection) PointerPosition() (x, y int, err error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer position: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// ActiveWindow returns the window named by _NET_ACTIVE_WINDOW.
func (c *Connection) ActiveWindow() (xproto.Window, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get active window: %w", err)
	}
	if win == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return win, nil
}

// FocusWindow hands input focus to the given window.
func (c *Connection) FocusWindow(win xproto.Window) {
	xproto.SetInputFocus(c.XUtil.Conn(), xproto.InputFocusParent, win, xproto.TimeCurrentTime)
}

// InternAtom resolves an atom name to its id.
func (c *Connection) InternAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

// GrabKeyboard grabs the keyboard onto the given window so key events reach
// the session regardless of input focus.
func (c *Connection) GrabKeyboard(win xproto.Window) error {
	reply, err := xproto.GrabKeyboard(
		c.XUtil.Conn(),
		false,
		win,
		xproto.TimeCurrentTime,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
	).Reply()
	if err != nil {
		return err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("keyboard grab failed with status %d", reply.Status)
	}
	return nil
}

// UngrabKeyboard releases a keyboard grab taken with GrabKeyboard.
func (c *Connection) UngrabKeyboard() {
	xproto.UngrabKeyboard(c.XUtil.Conn(), xproto.TimeCurrentTime)
}

// Sync blocks until the X server has processed all outstanding requests.
func (c *Connection) Sync() {
	c.XUtil.Conn().Sync()
}

// Close cleanly disconnects from the X11 server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
