package argv

import (
	"bytes"
	"testing"
)

func TestBuildLayout(t *testing.T) {
	b := Build([]string{"a", "bb", "ccc"})

	if b.Len() != 9 {
		t.Fatalf("Expected 9-byte block, got %d", b.Len())
	}
	if b.Argc() != 3 {
		t.Fatalf("Expected argc 3, got %d", b.Argc())
	}

	want := []int{0, 2, 5}
	got := b.Offsets()
	if len(got) != len(want) {
		t.Fatalf("Expected offsets %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected offsets %v, got %v", want, got)
		}
	}

	if !bytes.Equal(b.Bytes(), []byte("a\x00bb\x00ccc\x00")) {
		t.Fatalf("Unexpected block contents: %q", b.Bytes())
	}
}

func TestBuildRoundTrip(t *testing.T) {
	args := []string{"node", "/data/main.js", "--flag=value", ""}
	b := Build(args)

	got := b.Args()
	if len(got) != len(args) {
		t.Fatalf("Expected %d args, got %d", len(args), len(got))
	}
	for i := range args {
		if got[i] != args[i] {
			t.Errorf("Arg %d: expected %q, got %q", i, args[i], got[i])
		}
	}
}

func TestBuildOffsetsIncreasing(t *testing.T) {
	b := Build([]string{"", "", "x", ""})

	offs := b.Offsets()
	for i := 1; i < len(offs); i++ {
		if offs[i] <= offs[i-1] {
			t.Fatalf("Offsets not strictly increasing: %v", offs)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	b := Build(nil)

	if b.Len() != 0 {
		t.Errorf("Expected zero-length block, got %d bytes", b.Len())
	}
	if b.Argc() != 0 {
		t.Errorf("Expected argc 0, got %d", b.Argc())
	}
	if len(b.Args()) != 0 {
		t.Errorf("Expected no args, got %v", b.Args())
	}
}

func TestFree(t *testing.T) {
	b := Build([]string{"a"})
	b.Free()

	if b.Len() != 0 || b.Argc() != 0 {
		t.Error("Expected empty block after Free")
	}

	// Double free is a no-op.
	b.Free()
}

func TestBuildUTF8(t *testing.T) {
	args := []string{"héllo", "wörld"}
	b := Build(args)

	// Sizing is byte length, not rune count.
	if b.Len() != len("héllo")+1+len("wörld")+1 {
		t.Fatalf("Unexpected block size %d", b.Len())
	}
	if b.Arg(0) != "héllo" || b.Arg(1) != "wörld" {
		t.Fatalf("Round trip failed: %v", b.Args())
	}
}
