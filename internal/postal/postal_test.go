package postal

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// kenAllRow builds a 15-column KEN_ALL style row with the given prefecture,
// city, and town in columns 6-8.
func kenAllRow(pref, city, town string) string {
	return fmt.Sprintf(`13101,"100  ","1000005","ﾄｳｷｮｳﾄ","ﾁﾖﾀﾞｸ","ﾏﾙﾉｳﾁ","%s","%s","%s",0,0,1,0,0,0`, pref, city, town)
}

func readAll(t *testing.T, r *Reader) []Record {
	t.Helper()
	var out []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next() returned error: %v", err)
		}
		out = append(out, rec)
	}
}

func TestRecordFields(t *testing.T) {
	t.Run("it returns the prefecture, city, and town columns", func(t *testing.T) {
		rec := Record{"0", "1", "2", "3", "4", "5", "東京都", "千代田区", "丸の内"}
		pref, city, town, ok := rec.Fields()
		if !ok {
			t.Fatal("Fields() ok = false, want true")
		}
		if pref != "東京都" || city != "千代田区" || town != "丸の内" {
			t.Errorf("Fields() = (%q, %q, %q), want (東京都, 千代田区, 丸の内)", pref, city, town)
		}
	})

	t.Run("it rejects rows with fewer than nine fields", func(t *testing.T) {
		rec := Record{"0", "1", "2", "3", "4", "5", "東京都", "千代田区"}
		pref, city, town, ok := rec.Fields()
		if ok {
			t.Fatal("Fields() ok = true, want false")
		}
		if pref != "" || city != "" || town != "" {
			t.Errorf("Fields() returned values for a short row: (%q, %q, %q)", pref, city, town)
		}
	})

	t.Run("it accepts rows with exactly nine fields", func(t *testing.T) {
		rec := Record{"", "", "", "", "", "", "群馬県", "前橋市", ""}
		if _, _, _, ok := rec.Fields(); !ok {
			t.Error("Fields() ok = false for a nine-field row")
		}
	})

	t.Run("it trims ASCII and ideographic whitespace", func(t *testing.T) {
		rec := Record{"", "", "", "", "", "", " 千葉県\t", "　船橋市 ", "  本町  "}
		pref, city, town, _ := rec.Fields()
		if pref != "千葉県" || city != "船橋市" || town != "本町" {
			t.Errorf("Fields() = (%q, %q, %q), want trimmed values", pref, city, town)
		}
	})

	t.Run("it trims the information separators U+001C to U+001F", func(t *testing.T) {
		rec := Record{"", "", "", "", "", "", "\x1c千葉県\x1f", "\x1d船橋市", "本町\x1e"}
		pref, city, town, _ := rec.Fields()
		if pref != "千葉県" || city != "船橋市" || town != "本町" {
			t.Errorf("Fields() = (%q, %q, %q), want trimmed values", pref, city, town)
		}
	})

	t.Run("it keeps separators inside a value", func(t *testing.T) {
		if got := Normalize("丸\x1cの内"); got != "丸\x1cの内" {
			t.Errorf("Normalize() = %q, want the inner separator kept", got)
		}
	})

	t.Run("it normalizes the not-listed town to empty", func(t *testing.T) {
		rec := Record{"", "", "", "", "", "", "千葉県", "船橋市", TownNotListed}
		_, _, town, _ := rec.Fields()
		if town != "" {
			t.Errorf("town = %q, want empty", town)
		}
	})

	t.Run("it normalizes the not-listed town after trimming", func(t *testing.T) {
		rec := Record{"", "", "", "", "", "", "千葉県", "船橋市", " " + TownNotListed + " "}
		_, _, town, _ := rec.Fields()
		if town != "" {
			t.Errorf("town = %q, want empty", town)
		}
	})

	t.Run("it keeps towns that only contain the sentinel text", func(t *testing.T) {
		rec := Record{"", "", "", "", "", "", "千葉県", "船橋市", TownNotListed + "（一部）"}
		_, _, town, _ := rec.Fields()
		if town != TownNotListed+"（一部）" {
			t.Errorf("town = %q, want it unchanged", town)
		}
	})
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in   string
		want Encoding
	}{
		{"", EncodingUTF8},
		{"utf-8", EncodingUTF8},
		{"UTF8", EncodingUTF8},
		{"shift_jis", EncodingShiftJIS},
		{"Shift-JIS", EncodingShiftJIS},
		{"sjis", EncodingShiftJIS},
		{"cp932", EncodingShiftJIS},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("it resolves %q", tt.in), func(t *testing.T) {
			got, err := ParseEncoding(tt.in)
			if err != nil {
				t.Fatalf("ParseEncoding(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseEncoding(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	t.Run("it rejects unknown encodings", func(t *testing.T) {
		_, err := ParseEncoding("euc-jp")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), `"euc-jp"`) {
			t.Errorf("error = %q, want it to name the encoding", err)
		}
	})
}

func TestReader(t *testing.T) {
	t.Run("it reads rows with varying field counts", func(t *testing.T) {
		input := kenAllRow("東京都", "千代田区", "丸の内") + "\n" + "a,b,c\n"
		r, err := NewReader(strings.NewReader(input), EncodingUTF8)
		if err != nil {
			t.Fatalf("NewReader() returned error: %v", err)
		}
		recs := readAll(t, r)
		if len(recs) != 2 {
			t.Fatalf("got %d records, want 2", len(recs))
		}
		if len(recs[0]) != 15 || len(recs[1]) != 3 {
			t.Errorf("field counts = %d, %d, want 15, 3", len(recs[0]), len(recs[1]))
		}
		if r.Rows() != 2 {
			t.Errorf("Rows() = %d, want 2", r.Rows())
		}
	})

	t.Run("it handles CRLF line endings", func(t *testing.T) {
		input := kenAllRow("東京都", "千代田区", "丸の内") + "\r\n"
		r, _ := NewReader(strings.NewReader(input), EncodingUTF8)
		recs := readAll(t, r)
		if len(recs) != 1 {
			t.Fatalf("got %d records, want 1", len(recs))
		}
		if _, _, town, _ := recs[0].Fields(); town != "丸の内" {
			t.Errorf("town = %q, want 丸の内", town)
		}
	})

	t.Run("it drops a leading UTF-8 BOM", func(t *testing.T) {
		input := "\ufeffx,y\n"
		r, _ := NewReader(strings.NewReader(input), EncodingUTF8)
		recs := readAll(t, r)
		if recs[0][0] != "x" {
			t.Errorf("first field = %q, want %q", recs[0][0], "x")
		}
	})

	t.Run("it rejects invalid UTF-8 input", func(t *testing.T) {
		input := kenAllRow("東京都", "千代田区", "丸の内") + "\n" +
			"a,b,c,d,e,f,東京都,\xff\xfe,x\n"
		r, _ := NewReader(strings.NewReader(input), EncodingUTF8)

		var err error
		for err == nil {
			_, err = r.Next()
		}
		if !errors.Is(err, encoding.ErrInvalidUTF8) {
			t.Fatalf("Next() error = %v, want %v", err, encoding.ErrInvalidUTF8)
		}
		if !strings.HasPrefix(err.Error(), "failed to read input row ") {
			t.Errorf("error = %q, want it to name the row", err)
		}
	})

	t.Run("it tolerates stray quotes inside fields", func(t *testing.T) {
		input := `a,b"c,d` + "\n"
		r, _ := NewReader(strings.NewReader(input), EncodingUTF8)
		recs := readAll(t, r)
		if len(recs) != 1 || recs[0][1] != `b"c` {
			t.Errorf("records = %q, want the stray quote kept", recs)
		}
	})

	t.Run("it decodes Shift_JIS input", func(t *testing.T) {
		utf := kenAllRow("神奈川県", "横浜市中区", "山下町") + "\r\n"
		sjis, err := japanese.ShiftJIS.NewEncoder().String(utf)
		if err != nil {
			t.Fatalf("failed to encode fixture: %v", err)
		}
		r, _ := NewReader(strings.NewReader(sjis), EncodingShiftJIS)
		recs := readAll(t, r)
		pref, city, town, ok := recs[0].Fields()
		if !ok || pref != "神奈川県" || city != "横浜市中区" || town != "山下町" {
			t.Errorf("Fields() = (%q, %q, %q, %v), want decoded values", pref, city, town, ok)
		}
	})

	t.Run("it hashes the raw bytes of the source", func(t *testing.T) {
		input := kenAllRow("東京都", "千代田区", "丸の内") + "\n"
		r, _ := NewReader(strings.NewReader(input), EncodingUTF8)
		readAll(t, r)
		want := fmt.Sprintf("%x", sha256.Sum256([]byte(input)))
		if r.Hash() != want {
			t.Errorf("Hash() = %s, want %s", r.Hash(), want)
		}
	})

	t.Run("it returns io.EOF for empty input", func(t *testing.T) {
		r, _ := NewReader(strings.NewReader(""), EncodingUTF8)
		if _, err := r.Next(); !errors.Is(err, io.EOF) {
			t.Errorf("Next() error = %v, want io.EOF", err)
		}
	})

	t.Run("it rejects an unsupported encoding", func(t *testing.T) {
		if _, err := NewReader(strings.NewReader(""), Encoding("latin1")); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("it wraps read failures with the row number", func(t *testing.T) {
		boom := errors.New("boom")
		r, _ := NewReader(iotest.ErrReader(boom), EncodingUTF8)
		_, err := r.Next()
		if !errors.Is(err, boom) {
			t.Fatalf("Next() error = %v, want it to wrap %v", err, boom)
		}
		if !strings.Contains(err.Error(), "row 1") {
			t.Errorf("error = %q, want it to mention row 1", err)
		}
	})
}
