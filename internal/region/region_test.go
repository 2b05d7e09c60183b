package region

import (
	"slices"
	"testing"
)

func TestKantoSet(t *testing.T) {
	t.Run("it contains exactly the seven Kanto prefectures", func(t *testing.T) {
		s := KantoSet()
		if len(s) != 7 {
			t.Fatalf("len(KantoSet()) = %d, want 7", len(s))
		}
		for _, name := range []string{"東京都", "神奈川県", "千葉県", "埼玉県", "茨城県", "栃木県", "群馬県"} {
			if !s.Contains(name) {
				t.Errorf("KantoSet() missing %q", name)
			}
		}
	})

	t.Run("it rejects prefectures outside Kanto", func(t *testing.T) {
		s := KantoSet()
		for _, name := range []string{"大阪府", "北海道", "山梨県", "東京", ""} {
			if s.Contains(name) {
				t.Errorf("KantoSet().Contains(%q) = true, want false", name)
			}
		}
	})

	t.Run("it matches names exactly without trimming", func(t *testing.T) {
		if KantoSet().Contains(" 東京都") {
			t.Error("Contains should not trim whitespace")
		}
	})

	t.Run("it returns independent sets", func(t *testing.T) {
		a := KantoSet()
		delete(a, "東京都")
		if !KantoSet().Contains("東京都") {
			t.Error("mutating one set affected another")
		}
	})
}

func TestSetNames(t *testing.T) {
	t.Run("it lists Kanto prefectures in display order", func(t *testing.T) {
		got := KantoSet().Names()
		if !slices.Equal(got, Kanto) {
			t.Errorf("Names() = %v, want %v", got, Kanto)
		}
	})

	t.Run("it appends non-Kanto names sorted after Kanto names", func(t *testing.T) {
		got := NewSet("大阪府", "千葉県", "京都府", "東京都").Names()
		want := []string{"東京都", "千葉県", "京都府", "大阪府"}
		if !slices.Equal(got, want) {
			t.Errorf("Names() = %v, want %v", got, want)
		}
	})
}
