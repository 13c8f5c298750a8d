// Package script replays gestures described in YAML onto a board.
//
//	width: 400
//	height: 300
//	steps:
//	  - tool: pen
//	    color: "#ff0000"
//	    brush: 8
//	    points: [{x: 10, y: 10}, {x: 120, y: 40}]
//	  - tool: text
//	    font: {size: 24, weight: bold, underline: true}
//	    points: [{x: 20, y: 200}]
//	    text: hello
//	  - action: undo
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"Exacldraw/internal/state"
)

// Script is a canvas size and a list of steps.
type Script struct {
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
	Steps  []Step `yaml:"steps"`
}

// Step is either a gesture with a tool or an action.
type Step struct {
	Tool   string        `yaml:"tool,omitempty"`
	Action string        `yaml:"action,omitempty"`
	Color  string        `yaml:"color,omitempty"`
	Brush  int           `yaml:"brush,omitempty"`
	Font   *Font         `yaml:"font,omitempty"`
	Points []state.Point `yaml:"points,omitempty"`
	Text   string        `yaml:"text,omitempty"`
}

// Font changes the text style. Zero fields keep the current value.
type Font struct {
	Size      float64 `yaml:"size,omitempty"`
	Weight    string  `yaml:"weight,omitempty"`
	Italic    *bool   `yaml:"italic,omitempty"`
	Underline *bool   `yaml:"underline,omitempty"`
	Family    string  `yaml:"family,omitempty"`
}

// Parse decodes a script. Unknown fields are rejected.
func Parse(r io.Reader) (Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Script{}, errors.New("script: empty document")
		}
		return Script{}, fmt.Errorf("script: %w", err)
	}
	if s.Width < 0 || s.Height < 0 {
		return Script{}, fmt.Errorf("script: invalid canvas size %dx%d", s.Width, s.Height)
	}
	return s, nil
}

// Load reads and parses the script at path.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("script: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Replay runs every step against b, starting from the given style. Step
// styles carry over to later steps like a control panel selection does.
// Errors name the failing step, counted from 1.
func Replay(b *state.Board, s Script, style state.Style) error {
	prompt := b.PromptText
	defer func() { b.PromptText = prompt }()

	for i, step := range s.Steps {
		var err error
		style, err = step.apply(style)
		if err == nil {
			err = step.run(b, style)
		}
		if err != nil {
			return fmt.Errorf("script: step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) apply(style state.Style) (state.Style, error) {
	if st.Color != "" {
		c, err := state.ParseColor(st.Color)
		if err != nil {
			return style, err
		}
		style.Color = c
	}
	if st.Brush != 0 {
		if st.Brush < state.MinBrushSize || st.Brush > state.MaxBrushSize {
			return style, fmt.Errorf("brush must be between %d and %d, got %d",
				state.MinBrushSize, state.MaxBrushSize, st.Brush)
		}
		style.BrushSize = st.Brush
	}
	if f := st.Font; f != nil {
		if f.Size < 0 {
			return style, fmt.Errorf("invalid font size %v", f.Size)
		}
		if f.Size > 0 {
			style.Text.Size = f.Size
		}
		if f.Weight != "" {
			w, err := state.ParseWeight(f.Weight)
			if err != nil {
				return style, err
			}
			style.Text.Weight = w
		}
		if f.Italic != nil {
			style.Text.Italic = *f.Italic
		}
		if f.Underline != nil {
			style.Text.Underline = *f.Underline
		}
		if f.Family != "" {
			style.Text.Family = f.Family
		}
	}
	return style, nil
}

func (st Step) run(b *state.Board, style state.Style) error {
	switch {
	case st.Tool != "" && st.Action != "":
		return errors.New("tool and action are mutually exclusive")
	case st.Action != "":
		return runAction(b, st.Action)
	case st.Tool == "":
		if st.Color != "" || st.Brush != 0 || st.Font != nil {
			return nil
		}
		return errors.New("step needs a tool or an action")
	}

	tool, err := state.ParseTool(st.Tool)
	if err != nil {
		return err
	}
	if tool == state.ToolEraseAll {
		return b.EraseAll()
	}
	if len(st.Points) == 0 {
		return fmt.Errorf("%s needs at least one point", tool)
	}
	if tool == state.ToolText {
		if strings.TrimSpace(st.Text) == "" {
			return errors.New("text tool needs text")
		}
		text := st.Text
		b.PromptText = func() (string, bool) { return text, true }
		return b.BeginGesture(st.Points[0], tool, style)
	}

	if err := b.BeginGesture(st.Points[0], tool, style); err != nil {
		return err
	}
	for _, p := range st.Points[1:] {
		if err := b.ContinueGesture(p); err != nil {
			return err
		}
	}
	return b.EndGesture()
}

func runAction(b *state.Board, action string) error {
	switch strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(strings.TrimSpace(action))) {
	case "undo":
		return b.Undo()
	case "redo":
		return b.Redo()
	case "eraseall", "clear":
		return b.EraseAll()
	}
	return fmt.Errorf("unknown action %q", action)
}
