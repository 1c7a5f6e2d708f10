package model

import (
	"image"
	"image/color"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

const (
	gridPosEmpty = "  "

	clearCmd   = "clear"
	cursorHome = "\033[H"
)

// ErrInvalidColor is returned when a colour string cannot be parsed
var ErrInvalidColor = errors.New("invalid color")

// Surface is a pixel-settable canvas, one pixel per cell
type Surface interface {
	Size() (width, height int)
	SetPixel(x, y int, c color.Color)
	Fill(c color.Color)
}

// Resizer is implemented by surfaces that can follow grid resizes
type Resizer interface {
	Resize(width, height int)
}

// Palette maps cell states to colours
type Palette struct {
	Alive color.Color
	Dead  color.Color
}

// DefaultPalette paints live cells black on a green background
var DefaultPalette = Palette{
	Alive: color.RGBA{A: 0xff},
	Dead:  color.RGBA{G: 0x80, A: 0xff},
}

// Color returns the colour for a cell state
func (p Palette) Color(alive bool) color.Color {
	if alive {
		return p.Alive
	}
	return p.Dead
}

// Paint draws the changed cells onto the surface
func (p Palette) Paint(s Surface, changes []CellChange) {
	for _, c := range changes {
		s.SetPixel(c.X, c.Y, p.Color(c.Alive))
	}
}

// PaintGrid draws every cell of the current generation onto the surface
func (p Palette) PaintGrid(s Surface, g *Grid) {
	s.Fill(p.Dead)
	g.Cells(func(x, y int, alive bool) {
		if alive {
			s.SetPixel(x, y, p.Alive)
		}
	})
}

// ParseColor accepts "#rgb", "#rrggbb" or an SVG colour name
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, errors.Wrapf(ErrInvalidColor, "[ParseColor] %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, errors.Wrapf(ErrInvalidColor, "[ParseColor] %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(ErrInvalidColor, "[ParseColor] %q: %v", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// ImageSurface paints onto an in-memory RGBA image
type ImageSurface struct {
	img *image.RGBA
}

func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSurface) SetPixel(x, y int, c color.Color) {
	s.img.Set(x, y, c)
}

func (s *ImageSurface) Fill(c color.Color) {
	b := s.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s.img.Set(x, y, c)
		}
	}
}

// Resize replaces the image, discarding its content
func (s *ImageSurface) Resize(width, height int) {
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Image exposes the backing image
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// TerminalSurface renders cells as coloured blocks in a terminal
type TerminalSurface struct {
	out    io.Writer
	au     aurora.Aurora
	width  int
	height int
	cells  [][]uint8 // xterm-256 colour index, [y][x]
}

func NewTerminalSurface(out io.Writer, width, height int, colors bool) *TerminalSurface {
	s := &TerminalSurface{out: out, au: aurora.NewAurora(colors)}
	s.Resize(width, height)
	return s
}

func (s *TerminalSurface) Size() (int, int) {
	return s.width, s.height
}

func (s *TerminalSurface) SetPixel(x, y int, c color.Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = xterm256(c)
}

func (s *TerminalSurface) Fill(c color.Color) {
	idx := xterm256(c)
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = idx
		}
	}
}

// Resize replaces the cell buffer, discarding its content
func (s *TerminalSurface) Resize(width, height int) {
	s.width, s.height = width, height
	s.cells = make([][]uint8, height)
	for y := range s.cells {
		s.cells[y] = make([]uint8, width)
	}
}

// Display writes the whole surface, starting at the top-left corner of the terminal
func (s *TerminalSurface) Display() error {
	var b strings.Builder
	b.WriteString(cursorHome)
	for y := range s.height {
		for x := range s.width {
			b.WriteString(s.au.BgIndex(s.cells[y][x], gridPosEmpty).String())
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(s.out, b.String())
	return errors.Wrap(err, "[TerminalSurface.Display]")
}

// Clear clears the terminal screen
func (s *TerminalSurface) Clear() error {
	cmd := exec.Command(clearCmd)
	cmd.Stdout = s.out
	return errors.Wrap(cmd.Run(), "[TerminalSurface.Clear]")
}

// xterm256 maps a colour onto the 6x6x6 cube of the xterm 256-colour palette
func xterm256(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()
	scale := func(v uint32) uint8 {
		return uint8((v*5 + 0x7fff) / 0xffff)
	}
	return 16 + 36*scale(r) + 6*scale(g) + scale(b)
}
