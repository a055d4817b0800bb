package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"golang.org/x/term"

	"gridsnap/internal/config"
	"gridsnap/internal/grid"
	"gridsnap/internal/overlay"
	"gridsnap/internal/session"
	"gridsnap/internal/x11"
)

const keysymEscape = 0xff1b

const (
	buttonPrimary   xproto.Button = 1
	buttonSecondary xproto.Button = 3
)

func main() {
	fs := flag.NewFlagSet("gridsnap", flag.ExitOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printUsage(os.Stderr, fs) }

	dimensions := fs.String("dimensions", "", "overlay geometry as x,y,width,height (default: work area of the monitor under the pointer)")
	cells := fs.String("cells", "", "grid size as vertical,horizontal")
	colorFlag := fs.String("color", "", "selection color as red,green,blue with components in [0.0, 1.0]")
	live := fs.Bool("live", false, "move and resize the window as the selection changes")
	method := fs.String("method", "", "resize method: direct, configure or message")
	configPath := fs.String("config", "", "defaults file (default ~/.config/gridsnap/config.yaml)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one window argument")
		fmt.Fprintln(os.Stderr, "")
		fs.Usage()
		os.Exit(2)
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	opts, err := buildOptions(fs.Arg(0), *dimensions, *cells, *colorFlag, *live, *method, *configPath, explicit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: gridsnap [options] <window>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Select a rectangular region of an on-screen grid and move/resize the")
	fmt.Fprintln(w, "given window to match it. <window> is an X window id (decimal or 0x-hex)")
	fmt.Fprintln(w, "or :ACTIVE: for the currently active window.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Drag with the primary button and release to apply. Pressing the")
	fmt.Fprintln(w, "secondary button re-anchors the selection. Escape cancels.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fs.PrintDefaults()
}

// buildOptions merges flags over the defaults file and validates everything.
// All parsing happens here, before any X window exists.
func buildOptions(window, dimensions, cells, colorValue string, live bool, method, configPath string, explicit map[string]bool) (config.Options, error) {
	var defaults config.Defaults
	var err error
	if configPath != "" {
		defaults, err = config.LoadDefaultsFromPath(configPath)
	} else {
		defaults, err = config.LoadDefaults()
	}
	if err != nil {
		return config.Options{}, err
	}

	if cells == "" {
		cells = defaults.Cells
	}
	if cells == "" {
		return config.Options{}, fmt.Errorf("no grid size: pass -cells or set cells in the config file")
	}

	if colorValue == "" {
		colorValue = defaults.Color
	}
	if colorValue == "" {
		colorValue = config.DefaultColor
	}

	if method == "" {
		method = defaults.Method
	}
	if method == "" {
		method = config.DefaultMethod
	}

	if !explicit["live"] && defaults.Live != nil {
		live = *defaults.Live
	}

	opts := config.Options{
		Window: window,
		Live:   live,
		Method: method,
	}

	if dimensions != "" {
		opts.Rect, err = config.ParseDimensions(dimensions)
		if err != nil {
			return config.Options{}, err
		}
		opts.HaveRect = true
	}

	opts.VerticalCells, opts.HorizontalCells, err = config.ParseCells(cells)
	if err != nil {
		return config.Options{}, err
	}

	opts.Color, err = config.ParseColor(colorValue)
	if err != nil {
		return config.Options{}, err
	}

	// Validated here so an unknown name dies before the X connection.
	if _, err := x11.ParseMethod(method); err != nil {
		return config.Options{}, err
	}

	return opts, nil
}

// resizeDispatcher applies geometry to the target window and emits the
// per-application diagnostic line.
type resizeDispatcher struct {
	conn   *x11.Connection
	target xproto.Window
	method x11.Method
	out    io.Writer
}

func (d *resizeDispatcher) Apply(r grid.Rect) error {
	fmt.Fprintf(d.out, "Resize: %dx%d+%d+%d\n", r.Width, r.Height, r.X, r.Y)
	return d.conn.ApplyGeometry(d.target, r, d.method)
}

func run(opts config.Options) error {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	conn, err := x11.NewConnection()
	if err != nil {
		return fmt.Errorf("failed to connect to X11: %w", err)
	}
	defer conn.Close()
	conn.LogProtocolErrors(logger)

	method, err := x11.ParseMethod(opts.Method)
	if err != nil {
		return err
	}

	target, err := resolveTarget(conn, opts.Window)
	if err != nil {
		return err
	}

	rect := opts.Rect
	if !opts.HaveRect {
		rect, err = conn.PointerMonitor()
		if err != nil {
			return err
		}
	}
	rect = grid.CorrectDimensions(rect, opts.VerticalCells, opts.HorizontalCells)
	g := grid.New(rect.Width, rect.Height, opts.VerticalCells, opts.HorizontalCells)

	pointerX, pointerY, err := conn.PointerPosition()
	if err != nil {
		return err
	}

	ov, err := overlay.New(conn.XUtil, rect, g, opts.Color)
	if err != nil {
		return err
	}
	defer ov.Destroy()
	// Input focus goes back to the target whichever way the session ends.
	defer conn.FocusWindow(target)

	dispatcher := &resizeDispatcher{conn: conn, target: target, method: method, out: os.Stdout}
	sess := session.New(rect, g, pointerX, pointerY, ov, dispatcher, opts.Live, logger)

	ov.Show()
	conn.Sync()
	if err := conn.GrabKeyboard(ov.Window()); err != nil {
		// Escape won't work without the grab; pointer gestures still do.
		logger.Printf("keyboard grab failed: %v", err)
	}
	defer conn.UngrabKeyboard()

	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintln(os.Stderr, "Drag to select, secondary button re-anchors, Escape cancels.")
	}

	if err := sess.Start(); err != nil {
		return err
	}

	return eventLoop(conn, ov.Window(), sess, logger)
}

func resolveTarget(conn *x11.Connection, window string) (xproto.Window, error) {
	if window == ":ACTIVE:" {
		return conn.ActiveWindow()
	}
	id, err := config.ParseWindowID(window)
	if err != nil {
		return 0, err
	}
	return xproto.Window(id), nil
}

// eventLoop runs the blocking X event loop, routing overlay input into the
// session until it stops running. Draw failures terminate the loop; they are
// carried out through drawErr because the xevent callbacks cannot return one.
func eventLoop(conn *x11.Connection, win xproto.Window, sess *session.Session, logger *log.Logger) error {
	var drawErr error

	settle := func(err error) {
		if err != nil && drawErr == nil {
			drawErr = err
		}
		if drawErr != nil || !sess.Running() {
			xevent.Quit(conn.XUtil)
		}
	}

	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		var err error
		if ev.Detail == buttonSecondary {
			err = sess.SecondaryPress(int(ev.EventX), int(ev.EventY))
		}
		settle(err)
	}).Connect(conn.XUtil, win)

	xevent.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		switch ev.Detail {
		case buttonPrimary:
			sess.PrimaryRelease()
		case buttonSecondary:
			sess.SecondaryRelease()
		}
		settle(nil)
	}).Connect(conn.XUtil, win)

	xevent.MotionNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		err := sess.Motion(int(ev.EventX), int(ev.EventY), uint32(ev.Time))
		settle(err)
	}).Connect(conn.XUtil, win)

	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		if keybind.KeysymGet(xu, ev.Detail, 0) == keysymEscape {
			sess.Escape()
		}
		settle(nil)
	}).Connect(conn.XUtil, win)

	xevent.Main(conn.XUtil)

	if drawErr != nil {
		logger.Printf("session aborted: %v", drawErr)
	}
	return drawErr
}
