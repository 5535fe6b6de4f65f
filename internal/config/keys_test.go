package config

import "testing"

func TestGetAPIKeyBedrockNeedsNoKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := Default()
	cfg.Anthropic.UseAWSBedrock = true

	key, err := GetAPIKey(cfg)
	if err != nil {
		t.Fatalf("GetAPIKey with bedrock: %v", err)
	}
	if key != "" {
		t.Errorf("key = %q, want empty for bedrock", key)
	}
}

func TestGetAPIKeyEnvWins(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-REDACTED")

	cfg := Default()
	cfg.Anthropic.APIKey = "sk-ant-REDACTED"

	key, err := GetAPIKey(cfg)
	if err != nil {
		t.Fatalf("GetAPIKey: %v", err)
	}
	if key != "sk-ant-REDACTED" {
		t.Errorf("key = %q, want environment value", key)
	}
}

func TestGetAPIKeyMissing(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	if _, err := GetAPIKey(Default()); err != ErrNoAPIKey {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestValidateAPIKey(t *testing.T) {
	cases := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid", "sk-ant-REDACTED", false},
		{"empty", "", true},
		{"wrong prefix", "sk-live-0123456789abcdef", true},
		{"too short", "sk-ant-x", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAPIKey(tc.key)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateAPIKey(%q) = %v, wantErr %v", tc.key, err, tc.wantErr)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := MaskAPIKey(""); got != "(not set)" {
		t.Errorf("empty key mask = %q", got)
	}
	if got := MaskAPIKey("short"); got != "***" {
		t.Errorf("short key mask = %q", got)
	}
	got := MaskAPIKey("sk-ant-REDACTED")
	if got != "sk-ant-...cdef" {
		t.Errorf("mask = %q", got)
	}
}
