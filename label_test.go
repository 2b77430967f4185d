package gamekit

import "testing"

func TestLabelMeasuredOnFirstDraw(t *testing.T) {
	l := NewLabel("abcd")
	if l.Measured() {
		t.Fatal("new label should not be measured")
	}
	surf := newRecSurface()
	l.Draw(surf)
	if w, h := l.Size(); w != 24 || h != 12 {
		t.Errorf("size = %gx%g, want 24x12", w, h)
	}
	l.Text = "ab"
	if l.Measured() {
		t.Error("changing the text should invalidate the measurement")
	}
	l.Draw(surf)
	if w, _ := l.Size(); w != 12 {
		t.Errorf("width = %g, want 12", w)
	}
	l.Style.Size = 20
	if l.Measured() {
		t.Error("changing the size should invalidate the measurement")
	}
}

func TestLabelAlignment(t *testing.T) {
	tests := []struct {
		align  TextAlign
		valign VerticalAlign
		want   string
	}{
		{TextAlignLeft, VerticalAlignTop, `text "abcd" 0,0`},
		{TextAlignCenter, VerticalAlignMiddle, `text "abcd" -12,-6`},
		{TextAlignRight, VerticalAlignBottom, `text "abcd" -24,-12`},
	}
	for _, tt := range tests {
		l := NewLabel("abcd")
		l.Align = tt.align
		l.VAlign = tt.valign
		surf := newRecSurface()
		l.Draw(surf)
		if surf.count(tt.want) != 1 {
			t.Errorf("align %d/%d: calls %v, want %s", tt.align, tt.valign, surf.calls, tt.want)
		}
	}
}

func TestLabelCenterOriginDeferred(t *testing.T) {
	c, trig, _ := newTestCore(t)
	l := NewLabel("abcd")
	l.SetPosition(50, 40)
	l.CenterOrigin()
	if l.OriginX != 0 {
		t.Fatal("centering should wait for the first measurement")
	}
	c.Layer(0).Attach(l)
	trig.Advance(16)
	if l.OriginX != 12 || l.OriginY != 6 || l.X != 62 || l.Y != 46 {
		t.Errorf("origin %g,%g position %g,%g", l.OriginX, l.OriginY, l.X, l.Y)
	}
	l.CenterOrigin()
	if l.X != 62 {
		t.Errorf("centering twice moved the label to %g", l.X)
	}
}

func TestLabelHitTest(t *testing.T) {
	l := NewLabel("abcd")
	l.Draw(newRecSurface())
	tests := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},
		{23, 11, true},
		{24, 5, false},
		{-1, 5, false},
	}
	for _, tt := range tests {
		if got := l.HitTest(tt.x, tt.y); got != tt.want {
			t.Errorf("HitTest(%g, %g) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	l.Align = TextAlignCenter
	if !l.HitTest(-12, 0) || l.HitTest(12, 0) {
		t.Error("centered hit box should be [-12, 12)")
	}
}

func TestLabelDebugDrawing(t *testing.T) {
	l := NewLabel("ab")
	l.DebugDrawing = true
	surf := newRecSurface()
	l.Draw(surf)
	if surf.count("stroke 0,0,12,12") != 1 {
		t.Errorf("calls = %v", surf.calls)
	}
}
