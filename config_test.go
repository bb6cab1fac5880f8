package duocache

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid minimal config",
			cfg: Config{
				Model:              NewJSONCodec[string]("v1"),
				MaxMemoryItems:     10,
				MaxMemorySizeBytes: 1024,
				MaxDiskItems:       100,
				MaxDiskSizeBytes:   4096,
				MaxItemSizeBytes:   256,
			},
			wantErr: false,
		},
		{
			name:    "missing model",
			cfg:     Config{MaxMemoryItems: 10},
			wantErr: true,
		},
		{
			name: "negative budget",
			cfg: Config{
				Model:          NewJSONCodec[string]("v1"),
				MaxMemoryItems: -1,
			},
			wantErr: true,
		},
		{
			name: "negative ttl",
			cfg: Config{
				Model:     NewJSONCodec[string]("v1"),
				MemoryTTL: -1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateDefaultsCollaborators(t *testing.T) {
	cfg := Config{
		Model:              NewJSONCodec[string]("v1"),
		MaxMemoryItems:     10,
		MaxMemorySizeBytes: 1024,
		MaxDiskItems:       100,
		MaxDiskSizeBytes:   4096,
		MaxItemSizeBytes:   256,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Logger == nil {
		t.Error("expected Logger to be defaulted")
	}
	if cfg.Clock == nil {
		t.Error("expected Clock to be defaulted")
	}
	if cfg.MetricsCollector == nil {
		t.Error("expected MetricsCollector to be defaulted")
	}
}
