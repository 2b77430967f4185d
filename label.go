package gamekit

// Label draws a single run of text. Its W and H are measured by the surface
// on the first draw after the text or style changes.
type Label struct {
	Entity
	Text   string
	Style  TextStyle
	Align  TextAlign
	VAlign VerticalAlign
	// DebugDrawing outlines the measured text box and marks the origin.
	DebugDrawing bool

	w, h         float64
	measured     bool
	measuredKey  labelKey
	centerOnDraw bool
}

type labelKey struct {
	text  string
	size  float64
	width float64
}

// NewLabel returns a black 12px label.
func NewLabel(text string) *Label {
	l := &Label{
		Entity: NewEntity(),
		Text:   text,
		Style:  TextStyle{Size: 12, Color: ColorBlack, StrokeColor: ColorBlack},
	}
	l.DefineProp("size", &l.Style.Size)
	l.DefineProp("strokeWidth", &l.Style.StrokeWidth)
	return l
}

// Size returns the measured text size. Zero until the label is measured.
func (l *Label) Size() (w, h float64) { return l.w, l.h }

// Measured reports whether the label has been measured for its current text
// and style.
func (l *Label) Measured() bool {
	return l.measured && l.measuredKey == l.key()
}

func (l *Label) key() labelKey {
	return labelKey{text: l.Text, size: l.Style.Size, width: l.Style.StrokeWidth}
}

// Measure updates W and H using s.
func (l *Label) Measure(s Surface) {
	l.w, l.h = s.MeasureText(l.Text, l.Style)
	l.measured = true
	l.measuredKey = l.key()
	if l.centerOnDraw {
		l.centerOnDraw = false
		l.CenterOrigin()
	}
}

// CenterOrigin moves the origin to the center of the text box. Before the
// first measurement the move is deferred to the first draw.
func (l *Label) CenterOrigin() {
	if !l.measured {
		l.centerOnDraw = true
		return
	}
	changeOrigin(&l.Entity, l.w/2, l.h/2)
}

// ChangeOrigin moves the origin to (x, y) and shifts the position so the
// label stays in place on screen.
func (l *Label) ChangeOrigin(x, y float64) {
	changeOrigin(&l.Entity, x, y)
}

// HitTest reports whether the local point is inside the text box.
func (l *Label) HitTest(x, y float64) bool {
	bx, by := l.boxOffset()
	x -= bx
	y -= by
	return x >= 0 && x < l.w && y >= 0 && y < l.h
}

// boxOffset is the top-left of the text box relative to the local origin,
// given the alignment.
func (l *Label) boxOffset() (x, y float64) {
	switch l.Align {
	case TextAlignCenter:
		x = -l.w / 2
	case TextAlignRight:
		x = -l.w
	}
	switch l.VAlign {
	case VerticalAlignMiddle:
		y = -l.h / 2
	case VerticalAlignBottom:
		y = -l.h
	}
	return x, y
}

// Draw measures the label when needed and draws its text.
func (l *Label) Draw(s Surface) {
	if !l.Measured() {
		l.Measure(s)
	}
	l.applyTransform(s)
	x, y := l.boxOffset()
	s.DrawText(l.Text, x, y, l.Style)
	if l.DebugDrawing {
		s.StrokeRect(Rect{X: x, Y: y, W: l.w, H: l.h}, Color{0, 1, 1, 1}, 1)
		s.StrokeRect(Rect{X: l.OriginX - 2, Y: l.OriginY - 2, W: 4, H: 4}, Color{1, 0, 1, 1}, 1)
	}
}
