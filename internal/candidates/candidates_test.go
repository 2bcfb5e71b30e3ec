package candidates

import (
	"net/url"
	"testing"

	"github.com/expozr/navigator/pkg/types"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsing %q: %v", raw, err)
	}
	return u
}

func allFormats() StaticEnvironment {
	return StaticEnvironment{
		types.FormatESM: true,
		types.FormatUMD: true,
		types.FormatCJS: true,
	}
}

func urls(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.URL
	}
	return out
}

func assertOrder(t *testing.T, cands []Candidate, want []string) {
	t.Helper()
	got := urls(cands)
	if len(got) != len(want) {
		t.Fatalf("got %d candidates %v; want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate[%d] = %q; want %q\nfull order: %v", i, got[i], want[i], got)
		}
	}
}

func TestGenerateDefaultOrderESMCapable(t *testing.T) {
	base := mustParse(t, "https://cdn.example.com/widgets")
	desc := types.CargoDescriptor{Name: "./math", Version: "1.0.0", Entry: "math.js"}

	cands := Generate(base, desc, types.LoadOptions{}, types.DefaultConfig(), allFormats())

	assertOrder(t, cands, []string{
		"https://cdn.example.com/widgets/math.esm.js",
		"https://cdn.example.com/widgets/math.umd.js",
		"https://cdn.example.com/widgets/math.cjs.js",
		"https://cdn.example.com/widgets/math.js",
	})
	if cands[0].Format != types.FormatESM {
		t.Fatalf("first candidate format = %s; want esm", cands[0].Format)
	}
}

func TestGenerateDefaultOrderNoESM(t *testing.T) {
	base := mustParse(t, "https://cdn.example.com/widgets")
	desc := types.CargoDescriptor{Name: "./math", Version: "1.0.0", Entry: "math.js"}
	env := StaticEnvironment{types.FormatUMD: true, types.FormatCJS: true}

	cands := Generate(base, desc, types.LoadOptions{}, types.DefaultConfig(), env)

	assertOrder(t, cands, []string{
		"https://cdn.example.com/widgets/math.cjs.js",
		"https://cdn.example.com/widgets/math.umd.js",
		"https://cdn.example.com/widgets/math.js",
	})
}

func TestGeneratePreferenceWins(t *testing.T) {
	base := mustParse(t, "https://cdn.example.com/widgets")
	desc := types.CargoDescriptor{Name: "./math", Version: "1.0.0", Entry: "math.js"}
	opts := types.LoadOptions{
		Format:          types.FormatUMD,
		FallbackFormats: []types.Format{types.FormatCJS},
	}

	cands := Generate(base, desc, opts, types.DefaultConfig(), allFormats())

	if cands[0].Format != types.FormatUMD {
		t.Fatalf("first format = %s; want umd", cands[0].Format)
	}
	if cands[1].Format != types.FormatCJS {
		t.Fatalf("second format = %s; want cjs", cands[1].Format)
	}
}

func TestGenerateHintBeatsConfigDefault(t *testing.T) {
	base := mustParse(t, "https://cdn.example.com/widgets")
	desc := types.CargoDescriptor{
		Name: "./math", Version: "1.0.0", Entry: "math.js",
		PackagingHint: types.FormatUMD,
	}
	cfg := types.DefaultConfig()
	cfg.DefaultFormat = types.FormatCJS

	cands := Generate(base, desc, types.LoadOptions{}, cfg, allFormats())

	if cands[0].Format != types.FormatUMD {
		t.Fatalf("first format = %s; want the descriptor's hint", cands[0].Format)
	}
	if cands[1].Format != types.FormatCJS {
		t.Fatalf("second format = %s; want the config default", cands[1].Format)
	}
}

func TestGenerateFiltersUnsupported(t *testing.T) {
	base := mustParse(t, "https://cdn.example.com/widgets")
	desc := types.CargoDescriptor{Name: "./math", Version: "1.0.0", Entry: "math.js"}
	opts := types.LoadOptions{Format: types.FormatESM}
	env := StaticEnvironment{types.FormatCJS: true}

	cands := Generate(base, desc, opts, types.DefaultConfig(), env)

	for _, c := range cands {
		if c.Format == types.FormatESM {
			t.Fatalf("unsupported format appeared in %v", urls(cands))
		}
	}
}

func TestGenerateNoDiscovery(t *testing.T) {
	base := mustParse(t, "https://cdn.example.com/widgets")
	desc := types.CargoDescriptor{Name: "./math", Version: "1.0.0", Entry: "math.umd.js"}

	cands := Generate(base, desc, types.LoadOptions{NoDiscovery: true}, types.DefaultConfig(), allFormats())

	assertOrder(t, cands, []string{"https://cdn.example.com/widgets/math.umd.js"})
	if cands[0].Format != types.FormatUMD {
		t.Fatalf("literal entry format = %s; want umd inferred from filename", cands[0].Format)
	}
}

func TestGenerateEntryAlreadySuffixed(t *testing.T) {
	base := mustParse(t, "https://cdn.example.com/widgets")
	desc := types.CargoDescriptor{Name: "./math", Version: "1.0.0", Entry: "math.esm.js"}

	cands := Generate(base, desc, types.LoadOptions{}, types.DefaultConfig(), allFormats())

	got := urls(cands)
	// The esm variant and the literal entry are the same URL; it must not
	// repeat.
	seen := make(map[string]int)
	for _, u := range got {
		seen[u]++
	}
	if seen["https://cdn.example.com/widgets/math.esm.js"] != 1 {
		t.Fatalf("suffixed entry duplicated in %v", got)
	}
}

func TestGenerateAbsoluteEntry(t *testing.T) {
	base := mustParse(t, "https://cdn.example.com/widgets")
	desc := types.CargoDescriptor{
		Name: "./math", Version: "1.0.0",
		Entry: "https://other.example.net/assets/math.js",
	}

	cands := Generate(base, desc, types.LoadOptions{}, types.DefaultConfig(), allFormats())

	assertOrder(t, cands, []string{
		"https://other.example.net/assets/math.esm.js",
		"https://other.example.net/assets/math.umd.js",
		"https://other.example.net/assets/math.cjs.js",
		"https://other.example.net/assets/math.js",
	})
}

func TestGenerateExtensionlessEntry(t *testing.T) {
	base := mustParse(t, "https://cdn.example.com/widgets")
	desc := types.CargoDescriptor{Name: "./math", Version: "1.0.0", Entry: "dist/math"}
	env := StaticEnvironment{types.FormatCJS: true}

	cands := Generate(base, desc, types.LoadOptions{}, types.DefaultConfig(), env)

	if cands[0].URL != "https://cdn.example.com/widgets/dist/math.cjs.js" {
		t.Fatalf("variant URL = %q; want the .js extension appended", cands[0].URL)
	}
}

func TestInferFormat(t *testing.T) {
	order := []types.Format{types.FormatUMD, types.FormatCJS}
	tests := []struct {
		entry string
		hint  types.Format
		want  types.Format
	}{
		{"math.mjs", "", types.FormatESM},
		{"math.esm.js", "", types.FormatESM},
		{"math.cjs", "", types.FormatCJS},
		{"math.cjs.js", "", types.FormatCJS},
		{"math.umd.js", "", types.FormatUMD},
		{"math.js", types.FormatCJS, types.FormatCJS},
		{"math.js", "", types.FormatUMD}, // falls back to order[0]
	}
	for _, tt := range tests {
		if got := inferFormat(tt.entry, tt.hint, order); got != tt.want {
			t.Errorf("inferFormat(%q, %q) = %q; want %q", tt.entry, tt.hint, got, tt.want)
		}
	}
}
