package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cfgpkg "github.com/KaramelBytes/airq-cli/internal/config"
)

const officeCSV = `Date,Time,Temperature(°C),Humidity(%),CO2(ppm)
2024-01-01,08:00:00,20,40,600
2024-01-01,12:00:00,22,42,900
2024-01-02,08:00:00,21,oops,1300
2024-01-02,12:00:00,23,44,1400
`

// resetFlags restores every flag below c to its default so that bound
// variables do not leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its error.
func runCmd(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// mustRun is runCmd that fails the test on error.
func mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := runCmd(t, args...); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

// isolate points HOME at a temp dir and clears any loaded config.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	old := cfg
	cfg = nil
	t.Cleanup(func() { cfg = old })
	return home
}

func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestCLI_AnalyzeWritesReport(t *testing.T) {
	home := isolate(t)
	in := writeInput(t, home, "office.csv", officeCSV)
	out := filepath.Join(home, "office.md")

	mustRun(t, "analyze", in, "-o", out, "--sample-rows", "2")

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(b)
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: office.csv",
		"Rows: 4",
		"Tier: MODERATE",
		"[HEAD AND SAMPLE ROWS]",
		`row 3, humidity: "oops"`,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestCLI_AnalyzeJSONAndExport(t *testing.T) {
	home := isolate(t)
	in := writeInput(t, home, "office.csv", officeCSV)
	jsonOut := filepath.Join(home, "summary.json")
	csvOut := filepath.Join(home, "clean.csv")

	mustRun(t, "analyze", in, "--json", "-o", jsonOut, "--export", csvOut)

	b, err := os.ReadFile(jsonOut)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var sum map[string]interface{}
	if err := json.Unmarshal(b, &sum); err != nil {
		t.Fatalf("summary is not JSON: %v", err)
	}
	if sum["tier"] != "MODERATE" || sum["mean_co2"] != 1050.0 {
		t.Fatalf("unexpected summary: %v", sum)
	}

	clean, err := os.ReadFile(csvOut)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(clean)), "\n")
	if len(lines) != 5 {
		t.Fatalf("want 5 lines, got %d", len(lines))
	}
	if lines[0] != "date,time,temperature,humidity,co2,timestamp" {
		t.Fatalf("header: %q", lines[0])
	}
	if !strings.Contains(lines[3], ",42,1300,") {
		t.Fatalf("expected imputed humidity 42 in %q", lines[3])
	}
}

func TestCLI_AnalyzeRejectsMissingColumns(t *testing.T) {
	home := isolate(t)
	in := writeInput(t, home, "bad.csv", "date,time,temperature\n2024-01-01,10:00,20\n")
	err := runCmd(t, "analyze", in)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "humidity") || !strings.Contains(err.Error(), "co2") {
		t.Fatalf("error should name missing columns: %v", err)
	}
}

func TestCLI_AnalyzeFlagValidation(t *testing.T) {
	home := isolate(t)
	in := writeInput(t, home, "office.csv", officeCSV)
	cases := [][]string{
		{"analyze", in, "--delimiter", "#"},
		{"analyze", in, "--decimal", "x"},
		{"analyze", in, "--thousands", "_"},
		{"analyze", in, "--decimal", "comma", "--thousands", ","},
	}
	for _, args := range cases {
		if err := runCmd(t, args...); err == nil {
			t.Errorf("%v: expected error", args[2:])
		}
	}
}

func TestCLI_ExportFormats(t *testing.T) {
	home := isolate(t)
	in := writeInput(t, home, "office.tsv", strings.ReplaceAll(officeCSV, ",", "\t"))

	if err := runCmd(t, "export", in); err == nil {
		t.Fatal("export without -o should fail")
	}
	if err := runCmd(t, "export", in, "-o", filepath.Join(home, "out.json")); err == nil {
		t.Fatal("export to .json should fail")
	}

	xlsx := filepath.Join(home, "out.xlsx")
	mustRun(t, "export", in, "-o", xlsx, "--delimiter", "tab")
	b, err := os.ReadFile(xlsx)
	if err != nil {
		t.Fatalf("read xlsx: %v", err)
	}
	if !strings.HasPrefix(string(b), "PK") {
		t.Fatal("xlsx export is not a zip container")
	}

	// The exported workbook analyzes to the same tier.
	md := filepath.Join(home, "roundtrip.md")
	mustRun(t, "analyze", xlsx, "-o", md)
	rb, err := os.ReadFile(md)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(rb), "Tier: MODERATE") {
		t.Fatalf("round trip lost tier:\n%s", rb)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "airq.yaml")

	mustRun(t, "--config", path, "config", "set", "preview_rows", "12")
	if err := runCmd(t, "--config", path, "config", "set", "log_format", "xml"); err == nil {
		t.Fatal("invalid log_format should be rejected")
	}
	if err := runCmd(t, "--config", path, "config", "set", "nope", "1"); err == nil {
		t.Fatal("unknown key should be rejected")
	}

	c, err := cfgpkg.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if c.PreviewRows != 12 || c.LogFormat != "text" {
		t.Fatalf("unexpected saved config: %+v", c)
	}
}

func TestConfigOptionsUsesTimezone(t *testing.T) {
	isolate(t)
	cfg = &cfgpkg.Global{Timezone: "Europe/Berlin", Delimiter: ";", DateLayout: "02.01.2006 15:04"}
	opt, err := configOptions()
	if err != nil {
		t.Fatalf("configOptions: %v", err)
	}
	if opt.Location.String() != "Europe/Berlin" || opt.Delimiter != ';' || opt.DateLayout != "02.01.2006 15:04" {
		t.Fatalf("unexpected options: %+v", opt)
	}

	cfg = &cfgpkg.Global{Timezone: "Mars/Olympus"}
	if _, err := configOptions(); err == nil {
		t.Fatal("expected bad timezone error")
	}
}

func TestCLI_AnalyzePipeDelimited(t *testing.T) {
	home := isolate(t)
	in := writeInput(t, home, "office.csv", strings.ReplaceAll(officeCSV, ",", "|"))
	for _, extra := range [][]string{nil, {"--delimiter", "|"}} {
		out := filepath.Join(home, "pipe.md")
		mustRun(t, append([]string{"analyze", in, "-o", out}, extra...)...)
		b, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("read report: %v", err)
		}
		if !strings.Contains(string(b), "Tier: MODERATE") {
			t.Fatalf("pipe-delimited report (%v):\n%s", extra, b)
		}
	}
}
