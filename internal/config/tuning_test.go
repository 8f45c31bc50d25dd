package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTuningConfig(t *testing.T) {
	cfg := DefaultTuningConfig()

	if cfg.BlurWire == nil || *cfg.BlurWire != 6 {
		t.Errorf("Expected BlurWire 6, got %v", cfg.BlurWire)
	}
	if cfg.SigmaTick == nil || *cfg.SigmaTick != 6 {
		t.Errorf("Expected SigmaTick 6, got %v", cfg.SigmaTick)
	}
	if len(cfg.Kernels) != 5 || cfg.Kernels[0] != 1 {
		t.Errorf("Expected Kernels [1 2 3 4 5], got %v", cfg.Kernels)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestEmptyConfigGetters(t *testing.T) {
	cfg := EmptyTuningConfig()
	def := DefaultTuningConfig()

	if cfg.GetBlurWire() != *def.BlurWire {
		t.Errorf("GetBlurWire() = %d, want %d", cfg.GetBlurWire(), *def.BlurWire)
	}
	if cfg.GetBlurTick() != *def.BlurTick {
		t.Errorf("GetBlurTick() = %d, want %d", cfg.GetBlurTick(), *def.BlurTick)
	}
	if cfg.GetSigmaWire() != *def.SigmaWire {
		t.Errorf("GetSigmaWire() = %f, want %f", cfg.GetSigmaWire(), *def.SigmaWire)
	}
	if cfg.GetTickWidthRescale() != *def.TickWidthRescale {
		t.Errorf("GetTickWidthRescale() = %f, want %f", cfg.GetTickWidthRescale(), *def.TickWidthRescale)
	}
	if cfg.GetMaxTickWidthScale() != *def.MaxTickWidthScale {
		t.Errorf("GetMaxTickWidthScale() = %d, want %d", cfg.GetMaxTickWidthScale(), *def.MaxTickWidthScale)
	}
	if cfg.GetMinSize() != *def.MinSize {
		t.Errorf("GetMinSize() = %d, want %d", cfg.GetMinSize(), *def.MinSize)
	}
	if cfg.GetMinSeed() != *def.MinSeed {
		t.Errorf("GetMinSeed() = %f, want %f", cfg.GetMinSeed(), *def.MinSeed)
	}
	if cfg.GetTimeThreshold() != *def.TimeThreshold {
		t.Errorf("GetTimeThreshold() = %f, want %f", cfg.GetTimeThreshold(), *def.TimeThreshold)
	}
	if cfg.GetChargeThreshold() != *def.ChargeThreshold {
		t.Errorf("GetChargeThreshold() = %f, want %f", cfg.GetChargeThreshold(), *def.ChargeThreshold)
	}
}

func TestGetKernelsReturnsCopy(t *testing.T) {
	cfg := &TuningConfig{Kernels: []int{1, 3}}
	k := cfg.GetKernels()
	k[0] = 99
	if cfg.Kernels[0] != 1 {
		t.Errorf("GetKernels leaked internal slice: %v", cfg.Kernels)
	}
}

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "blur_wire": 3,
  "sigma_tick": 2.5,
  "kernels": [1, 2],
  "min_size": 4,
  "time_threshold": 20
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetBlurWire() != 3 {
		t.Errorf("GetBlurWire() = %d, want 3", cfg.GetBlurWire())
	}
	if cfg.GetSigmaTick() != 2.5 {
		t.Errorf("GetSigmaTick() = %f, want 2.5", cfg.GetSigmaTick())
	}
	if got := cfg.GetKernels(); len(got) != 2 || got[1] != 2 {
		t.Errorf("GetKernels() = %v, want [1 2]", got)
	}
	if cfg.GetMinSize() != 4 {
		t.Errorf("GetMinSize() = %d, want 4", cfg.GetMinSize())
	}
	// Omitted fields keep defaults.
	if cfg.GetBlurTick() != 12 {
		t.Errorf("GetBlurTick() = %d, want default 12", cfg.GetBlurTick())
	}
}

func TestLoadTuningConfigMissing(t *testing.T) {
	_, err := LoadTuningConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadTuningConfigWrongExtension(t *testing.T) {
	_, err := LoadTuningConfig("/tmp/config.yaml")
	if err == nil {
		t.Error("Expected error for non-json extension, got nil")
	}
}

func TestLoadTuningConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.json")

	if err := os.WriteFile(configPath, []byte(`{"blur_wire": "six"`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadTuningConfig(configPath); err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestLoadTuningConfigRejectsMissingUnitKernel(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "kernels.json")

	if err := os.WriteFile(configPath, []byte(`{"kernels": [2, 3]}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadTuningConfig(configPath)
	if !errors.Is(err, ErrMissingUnitKernel) {
		t.Errorf("LoadTuningConfig() error = %v, want ErrMissingUnitKernel", err)
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	def := DefaultTuningConfig()
	if cfg.GetBlurWire() != def.GetBlurWire() || cfg.GetSigmaWire() != def.GetSigmaWire() {
		t.Errorf("defaults file disagrees with DefaultTuningConfig: %+v", cfg)
	}
	if cfg.GetChargeThreshold() != def.GetChargeThreshold() {
		t.Errorf("charge_threshold = %f, want %f", cfg.GetChargeThreshold(), def.GetChargeThreshold())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TuningConfig
		wantErr bool
	}{
		{name: "valid config", cfg: DefaultTuningConfig()},
		{name: "empty config is valid", cfg: &TuningConfig{}},
		{name: "kernels without 1", cfg: &TuningConfig{Kernels: []int{2, 4}}, wantErr: true},
		{name: "empty kernel list", cfg: &TuningConfig{Kernels: []int{}}, wantErr: true},
		{name: "zero multiplier", cfg: &TuningConfig{Kernels: []int{1, 0}}, wantErr: true},
		{name: "negative blur wire", cfg: &TuningConfig{BlurWire: ptrInt(-1)}, wantErr: true},
		{name: "negative sigma tick", cfg: &TuningConfig{SigmaTick: ptrFloat64(-0.5)}, wantErr: true},
		{name: "zero sigmas allowed", cfg: &TuningConfig{SigmaWire: ptrFloat64(0), SigmaTick: ptrFloat64(0)}},
		{name: "zero tick width rescale", cfg: &TuningConfig{TickWidthRescale: ptrFloat64(0)}, wantErr: true},
		{name: "zero max tick width scale", cfg: &TuningConfig{MaxTickWidthScale: ptrInt(0)}, wantErr: true},
		{name: "negative neighbour window", cfg: &TuningConfig{ClusterTickDistance: ptrInt(-2)}, wantErr: true},
		{name: "zero min size", cfg: &TuningConfig{MinSize: ptrInt(0)}, wantErr: true},
		{name: "negative time threshold", cfg: &TuningConfig{TimeThreshold: ptrFloat64(-1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
