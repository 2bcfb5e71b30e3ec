package checksum

import "testing"

func TestGenerateStable(t *testing.T) {
	data := map[string]any{"name": "widgets", "version": "1.2.3"}

	first, err := Generate(data)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(first) != 16 {
		t.Fatalf("digest %q has length %d; want 16 hex chars", first, len(first))
	}

	second, err := Generate(map[string]any{"version": "1.2.3", "name": "widgets"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first != second {
		t.Fatalf("digests differ for equal values: %q vs %q", first, second)
	}
}

func TestGenerateDetectsMutation(t *testing.T) {
	original, err := Generate(map[string]string{"entry": "math.js"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	mutated, err := Generate(map[string]string{"entry": "math.umd.js"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if original == mutated {
		t.Fatal("digest unchanged after mutation")
	}
}

func TestVerify(t *testing.T) {
	data := []string{"a", "b", "c"}

	digest, err := Generate(data)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !Verify(data, digest) {
		t.Fatal("Verify rejected a matching digest")
	}
	if Verify(data, "0000000000000000") {
		t.Fatal("Verify accepted a wrong digest")
	}
	if Verify([]string{"a", "b"}, digest) {
		t.Fatal("Verify accepted mutated data")
	}
}

func TestGenerateUnencodable(t *testing.T) {
	if _, err := Generate(make(chan int)); err == nil {
		t.Fatal("Generate accepted an unencodable value")
	}
	if Verify(make(chan int), "anything") {
		t.Fatal("Verify accepted an unencodable value")
	}
}
