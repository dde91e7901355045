package instrumentation

import "testing"

func TestClassifyEnvironment(t *testing.T) {
	tests := []struct {
		env  string
		want EnvironmentType
	}{
		{"", EnvironmentTypeDefault},
		{"prod", EnvironmentTypeProduction},
		{"PROD", EnvironmentTypeProduction},
		{"prod-eu-1", EnvironmentTypeProduction},
		{"homelab_live", EnvironmentTypeProduction},
		{"production", EnvironmentTypeProduction},
		{"staging", EnvironmentTypeStaging},
		{"uat", EnvironmentTypeStaging},
		{"eu-stg", EnvironmentTypeStaging},
		{"dev", EnvironmentTypeDevelopment},
		{"homelab-dev", EnvironmentTypeDevelopment},
		{"local", EnvironmentTypeDevelopment},
		{"test.lab", EnvironmentTypeDevelopment},
		{"homelab", EnvironmentTypeOther},
		{"productive", EnvironmentTypeOther},
		{"1", EnvironmentTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := ClassifyEnvironment(tt.env); got != string(tt.want) {
				t.Errorf("ClassifyEnvironment(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}
