package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePack(t *testing.T, root, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, dir, "pack.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckReportsDataQualityWithoutFailing(t *testing.T) {
	root := t.TempDir()
	writePack(t, root, "extra", `kind: pack
schema_version: 1
pack_id: extra-pack
name: Extra
passages:
  - passage_id: p01-odd
    title: Odd prefix
    text: "The [[xy|river]] runs to the [[se|sea]]."
`)

	out, err := execute(t, "check", "--pack-dir", root)
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "extra-pack") || !strings.Contains(out, "core-reading") {
		t.Fatalf("expected both packs listed:\n%s", out)
	}
	if !strings.Contains(out, "WARN  p01-odd: blank 1") {
		t.Fatalf("expected a data-quality warning:\n%s", out)
	}
	if !strings.Contains(out, "0 errors, 1 warnings") {
		t.Fatalf("unexpected totals:\n%s", out)
	}
}

func TestCheckFailsOnBrokenPack(t *testing.T) {
	root := t.TempDir()
	writePack(t, root, "broken", `kind: pack
schema_version: 1
pack_id: broken-pack
name: Broken
passages:
  - passage_id: p01-open
    title: Unterminated
    text: "The [[ri|river runs on."
`)
	if _, err := execute(t, "check", "--pack-dir", root); err == nil {
		t.Fatalf("expected check to fail on unterminated markup")
	}
}

func TestCheckMissingPackDir(t *testing.T) {
	if _, err := execute(t, "check", "--pack-dir", filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected an error for a missing pack dir")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "clozedojo version "+Version) {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("mode: timed\nui:\n  style_variant: cozy_clean\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := rootCmd()
	if err := cmd.ParseFlags([]string{"--config", path, "--data-dir", dir, "--style", "retro_terminal"}); err != nil {
		t.Fatal(err)
	}
	fv := flagValues{configPath: path, dataDir: dir, style: "retro_terminal"}
	cfg, err := loadConfig(cmd, fv)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Mode != "timed" || cfg.UI.StyleVariant != "retro_terminal" || cfg.DataDir != dir {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
