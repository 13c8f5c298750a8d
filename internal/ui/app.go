// Package ui is the desktop host for the drawing board: a canvas widget, the
// tool and style panel, and the actions that talk to the drawing backend.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"pkt.systems/pslog"

	"Exacldraw/internal/config"
	"Exacldraw/internal/export"
	"Exacldraw/internal/logx"
	"Exacldraw/internal/net"
	"Exacldraw/internal/state"
)

// AppID identifies the application to fyne preferences storage.
const AppID = "systems.exacldraw.desktop"

// Options configure RunApp.
type Options struct {
	Config config.Config
	// Client is optional. Without it saving to the backend is disabled.
	Client *net.Client
	Tokens *net.TokenStore
	Logger pslog.Logger
}

// Window is the assembled main window.
type Window struct {
	ctx      context.Context
	win      fyne.Window
	board    *state.Board
	surface  *BoardWidget
	controls *ControlPanel
	status   *widget.Label
	client   *net.Client
	tokens   *net.TokenStore
	timeout  time.Duration
	log      pslog.Logger
}

// RunApp opens the main window and blocks until it is closed.
func RunApp(ctx context.Context, opts Options) error {
	a := app.NewWithID(AppID)
	w, err := NewWindow(ctx, a, opts)
	if err != nil {
		return err
	}
	defer w.Close()
	w.win.ShowAndRun()
	return nil
}

// NewWindow builds the board, the control panel and the action toolbar in a
// new window of a.
func NewWindow(ctx context.Context, a fyne.App, opts Options) (*Window, error) {
	cfg := opts.Config
	logger := logx.WithComponent(opts.Logger, "ui")

	tool, style, err := cfg.Tools.Selection()
	if err != nil {
		return nil, err
	}
	board, err := state.NewBoard(cfg.Canvas.Width, cfg.Canvas.Height, state.Options{
		HistoryLimit: cfg.History.Limit,
		Compress:     cfg.History.Compress,
		Logger:       opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	w := &Window{
		ctx:      ctx,
		win:      a.NewWindow("Exacldraw"),
		board:    board,
		controls: NewControlPanel(tool, style),
		status:   widget.NewLabel("Ready"),
		client:   opts.Client,
		tokens:   opts.Tokens,
		timeout:  cfg.Backend.Timeout(),
		log:      logger,
	}
	w.surface = NewBoardWidget(board, w.controls, w.win)
	w.surface.OnChange = w.updateStatus
	w.controls.OnEraseAll = w.eraseAll
	board.OnCommit = func(c state.Commit) {
		w.log.Debug("commit", "seq", c.Seq, "tool", c.Tool.String(), "bytes", c.Snapshot.Len())
	}

	if _, err := board.Attach(w.surface, w.controls); err != nil {
		board.Close()
		return nil, err
	}

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), w.undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), w.redo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.UploadIcon(), w.promptSave),
		widget.NewToolbarAction(theme.FolderOpenIcon(), w.showDrawings),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { w.promptExport("png") }),
		widget.NewToolbarAction(theme.FileIcon(), func() { w.promptExport("pdf") }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.AccountIcon(), w.promptSignIn),
		widget.NewToolbarAction(theme.LogoutIcon(), w.signOut),
	)

	top := container.NewVBox(container.NewHBox(actions), w.controls.Object())
	content := container.NewBorder(top, w.status, nil, nil, container.NewScroll(w.surface))
	w.win.SetContent(content)
	w.win.Resize(fyne.NewSize(float32(cfg.Canvas.Width)+40, float32(cfg.Canvas.Height)+160))

	sc := w.win.Canvas()
	sc.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { w.undo() })
	sc.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { w.redo() })
	sc.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { w.promptSave() })

	w.updateStatus()
	return w, nil
}

// Board returns the engine behind the window.
func (w *Window) Board() *state.Board { return w.board }

// Controls returns the tool and style panel.
func (w *Window) Controls() *ControlPanel { return w.controls }

// Surface returns the canvas widget.
func (w *Window) Surface() *BoardWidget { return w.surface }

// Status returns the text of the status bar.
func (w *Window) Status() string { return w.status.Text }

// Close releases the board.
func (w *Window) Close() error {
	return w.board.Close()
}

func (w *Window) updateStatus() {
	w.status.SetText(fmt.Sprintf("%s | undo %d | redo %d",
		w.controls.Tool(), w.board.UndoDepth(), w.board.RedoDepth()))
}

// SetStatus shows msg in the status bar. It may be called from any goroutine.
func (w *Window) SetStatus(msg string) {
	fyne.Do(func() { w.status.SetText(msg) })
}

func (w *Window) fail(op string, err error) {
	w.log.Error(op+" failed", "err", err)
	w.SetStatus(op + " failed: " + err.Error())
}

func (w *Window) undo() {
	if err := w.board.Undo(); err != nil {
		w.fail("undo", err)
		return
	}
	w.surface.Redraw()
}

func (w *Window) redo() {
	if err := w.board.Redo(); err != nil {
		w.fail("redo", err)
		return
	}
	w.surface.Redraw()
}

func (w *Window) eraseAll() {
	if err := w.board.EraseAll(); err != nil {
		w.fail("erase", err)
		return
	}
	w.surface.Redraw()
}

func (w *Window) requestContext() (context.Context, context.CancelFunc) {
	if w.timeout <= 0 {
		return context.WithCancel(w.ctx)
	}
	return context.WithTimeout(w.ctx, w.timeout)
}

func (w *Window) signedIn() bool {
	return w.client != nil && w.client.Token() != ""
}

func (w *Window) promptSave() {
	if w.client == nil {
		dialog.ShowInformation("Save", "No drawing backend is configured.", w.win)
		return
	}
	if !w.signedIn() {
		w.promptSignIn()
		return
	}
	name := widget.NewEntry()
	name.SetPlaceHolder("Drawing name")
	items := []*widget.FormItem{widget.NewFormItem("Name", name)}
	dialog.ShowForm("Save drawing", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		w.Save(strings.TrimSpace(name.Text))
	}, w.win)
}

// Save uploads the canvas to the backend under name. An empty name cancels.
func (w *Window) Save(name string) {
	if name == "" {
		w.status.SetText("Save cancelled")
		return
	}
	w.board.OnSave = func(png []byte) { w.upload(name, png) }
	w.status.SetText("Saving " + name + "...")
	if err := w.board.Save(); err != nil {
		w.fail("save", err)
	}
}

func (w *Window) upload(name string, png []byte) {
	ctx, cancel := w.requestContext()
	defer cancel()
	err := w.client.SaveDrawing(ctx, name, png)
	switch {
	case errors.Is(err, net.ErrUnauthorized):
		w.dropToken()
		w.SetStatus("Session expired, sign in again")
	case err != nil:
		w.fail("save", err)
	default:
		w.log.Info("drawing saved", "name", name, "bytes", len(png))
		w.SetStatus("Saved " + name)
	}
}

func (w *Window) dropToken() {
	if w.client != nil {
		w.client.SetToken("")
	}
	if w.tokens != nil {
		if err := w.tokens.Clear(); err != nil {
			w.log.Warn("clear token failed", "err", err)
		}
	}
}

func (w *Window) promptSignIn() {
	if w.client == nil {
		dialog.ShowInformation("Sign in", "No drawing backend is configured.", w.win)
		return
	}
	email := widget.NewEntry()
	password := widget.NewPasswordEntry()
	items := []*widget.FormItem{
		widget.NewFormItem("Email", email),
		widget.NewFormItem("Password", password),
	}
	dialog.ShowForm("Sign in", "Sign in", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		go w.signIn(strings.TrimSpace(email.Text), password.Text)
	}, w.win)
}

func (w *Window) signIn(email, password string) {
	ctx, cancel := w.requestContext()
	defer cancel()
	token, err := w.client.SignIn(ctx, email, password)
	if err != nil {
		w.fail("sign in", err)
		return
	}
	if w.tokens != nil {
		if err := w.tokens.Save(token); err != nil {
			w.log.Warn("store token failed", "err", err)
		}
	}
	w.SetStatus("Signed in as " + email)
}

func (w *Window) signOut() {
	w.dropToken()
	w.SetStatus("Signed out")
}

func (w *Window) showDrawings() {
	if !w.signedIn() {
		w.promptSignIn()
		return
	}
	go func() {
		ctx, cancel := w.requestContext()
		defer cancel()
		list, err := w.client.ListDrawings(ctx)
		if errors.Is(err, net.ErrUnauthorized) {
			w.dropToken()
			w.SetStatus("Session expired, sign in again")
			return
		}
		if err != nil {
			w.fail("list drawings", err)
			return
		}
		fyne.Do(func() { w.drawingsDialog(list) })
	}()
}

func (w *Window) drawingsDialog(list []net.Drawing) {
	if len(list) == 0 {
		dialog.ShowInformation("Drawings", "No saved drawings yet.", w.win)
		return
	}
	view := widget.NewList(
		func() int { return len(list) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			d := list[i]
			o.(*widget.Label).SetText(d.Name + "  " + w.client.ImageURL(d))
		},
	)
	box := container.NewGridWrap(fyne.NewSize(520, 320), view)
	dialog.ShowCustom("Drawings", "Close", box, w.win)
}

func (w *Window) promptExport(format string) {
	save := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			w.fail("export", err)
			return
		}
		if wc == nil {
			return
		}
		defer wc.Close()
		if err := w.Export(wc, format); err != nil {
			w.fail("export", err)
			return
		}
		w.SetStatus("Exported " + wc.URI().Name())
	}, w.win)
	save.SetFileName("drawing." + format)
	save.SetFilter(storage.NewExtensionFileFilter([]string{"." + format}))
	save.Show()
}

// Export writes the canvas to out as "png" or "pdf".
func (w *Window) Export(out io.Writer, format string) error {
	img := w.board.Image()
	if img == nil {
		return state.ErrSurfaceUnavailable
	}
	switch format {
	case "png":
		return export.WritePNG(out, img)
	case "pdf":
		return export.WritePDF(out, img)
	default:
		return fmt.Errorf("ui: unknown export format %q", format)
	}
}
