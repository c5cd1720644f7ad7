package pixelbuf

import (
	"errors"
	"testing"
)

func TestFrameSetGet(t *testing.T) {
	img := NewImage(4, 3)
	f := FrameOf(img)

	want := RGB(200, 100, 50)
	if err := f.Set(3, 2, want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := f.Get(3, 2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != want {
		t.Errorf("Get(3, 2) = %+v, want %+v", got, want)
	}
}

func TestFrameOutOfBounds(t *testing.T) {
	f := FrameOf(NewImage(4, 4))

	cases := []struct{ x, y int }{
		{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {100, 100},
	}
	for _, c := range cases {
		if _, err := f.Get(c.x, c.y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Get(%d, %d) error = %v, want ErrOutOfBounds", c.x, c.y, err)
		}
		if err := f.Set(c.x, c.y, White); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Set(%d, %d) error = %v, want ErrOutOfBounds", c.x, c.y, err)
		}
	}
}

func TestFrameMustGetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustGet out of bounds did not panic")
		}
	}()
	FrameOf(NewImage(2, 2)).MustGet(5, 5)
}

func TestFramePerPixelVisitsAllOnce(t *testing.T) {
	const w, h = 5, 4
	f := FrameOf(NewImage(w, h))

	visits := make(map[[2]int]int)
	var order [][2]int
	f.PerPixel(func(x, y int, p Pixel) Pixel {
		visits[[2]int{x, y}]++
		order = append(order, [2]int{x, y})
		return RGB(uint8(x), uint8(y), 0)
	})

	if len(visits) != w*h {
		t.Fatalf("visited %d distinct pixels, want %d", len(visits), w*h)
	}
	for at, n := range visits {
		if n != 1 {
			t.Errorf("pixel %v visited %d times", at, n)
		}
	}

	// Row-major order: y advances only after a full row of x.
	for i := 1; i < len(order); i++ {
		prev, cur := order[i-1], order[i]
		if cur[1] < prev[1] || (cur[1] == prev[1] && cur[0] != prev[0]+1) {
			t.Fatalf("order[%d] = %v after %v, not row-major", i, cur, prev)
		}
	}

	// Return values were written back.
	got := f.MustGet(3, 2)
	if got != RGB(3, 2, 0) {
		t.Errorf("pixel (3,2) after PerPixel = %+v, want %+v", got, RGB(3, 2, 0))
	}
}

func TestFrameSizeMatchesImage(t *testing.T) {
	f := FrameOf(NewImage(7, 9))
	w, h := f.Size()
	if w != 7 || h != 9 {
		t.Errorf("Size() = (%d, %d), want (7, 9)", w, h)
	}
}
