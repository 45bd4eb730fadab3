package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"semdrift/domain/drift"
	"semdrift/internal/config"
	"semdrift/internal/testkit"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	kit := testkit.NewTestKit()
	record := kit.GenerateRecord("e2e-exp", []int{0, 25, 50, 75})
	artifact := filepath.Join(dir, "experiment_results.json")
	if err := kit.WriteArtifact(artifact, record); err != nil {
		t.Fatalf("artifact setup failed: %v", err)
	}

	return &config.Config{
		Paths: config.PathConfig{
			ResultsFile: artifact,
			OutputDir:   filepath.Join(dir, "analysis_output"),
		},
		Analysis: config.AnalysisConfig{
			BootstrapIterations: 500, // keep the test fast
			Seed:                42,
			ConfidenceLevel:     0.95,
			CorrectionMethod:    drift.CorrectionHolm,
			Alpha:               0.05,
			MaxFeatures:         1000,
		},
	}
}

func TestAnalysisService_Run(t *testing.T) {
	cfg := testConfig(t)
	svc := NewAnalysisService(cfg)

	run, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(run.Failures) != 0 {
		t.Errorf("unexpected category failures: %v", run.Failures)
	}

	data, err := os.ReadFile(run.ReportPath)
	if err != nil {
		t.Fatalf("report missing: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	for _, key := range []string{
		"metadata", "text_metrics", "information_theory",
		"comparative", "sensitivity", "stochastic_resonance",
	} {
		if _, ok := doc[key]; !ok {
			t.Errorf("report missing category %q", key)
		}
	}

	meta, ok := doc["metadata"].(map[string]interface{})
	if !ok {
		t.Fatal("metadata malformed")
	}
	params, ok := meta["parameters"].(map[string]interface{})
	if !ok || params["seed"].(float64) != 42 {
		t.Error("run parameters not echoed into metadata")
	}

	if _, err := os.Stat(run.SummaryPath); err != nil {
		t.Errorf("summary missing: %v", err)
	}
	if _, err := os.Stat(run.WorkbookPath); err != nil {
		t.Errorf("workbook missing: %v", err)
	}
}

func TestAnalysisService_Deterministic(t *testing.T) {
	cfg := testConfig(t)
	svc := NewAnalysisService(cfg)

	first, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	firstData, err := os.ReadFile(first.ReportPath)
	if err != nil {
		t.Fatal(err)
	}
	var firstDoc map[string]interface{}
	if err := json.Unmarshal(firstData, &firstDoc); err != nil {
		t.Fatal(err)
	}

	second, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	secondData, err := os.ReadFile(second.ReportPath)
	if err != nil {
		t.Fatal(err)
	}
	var secondDoc map[string]interface{}
	if err := json.Unmarshal(secondData, &secondDoc); err != nil {
		t.Fatal(err)
	}

	// metadata carries a fresh report ID and timestamp; every analytical
	// category must be byte-for-byte reproducible
	for _, key := range []string{
		"text_metrics", "information_theory", "comparative",
		"sensitivity", "stochastic_resonance",
	} {
		a, _ := json.Marshal(firstDoc[key])
		b, _ := json.Marshal(secondDoc[key])
		if string(a) != string(b) {
			t.Errorf("category %q not reproducible across runs", key)
		}
	}
}

func TestAnalysisService_MissingArtifact(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paths.ResultsFile = filepath.Join(t.TempDir(), "nope.json")

	if _, err := NewAnalysisService(cfg).Run(context.Background()); err == nil {
		t.Fatal("missing artifact must fail the run")
	}
}
