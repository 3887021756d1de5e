package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestValidateFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "sales.txt")
	if err := os.WriteFile(validFile, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name        string
		filePath    string
		description string
		expectError bool
	}{
		{
			name:        "valid file",
			filePath:    validFile,
			description: "test file",
			expectError: false,
		},
		{
			name:        "empty path",
			filePath:    "",
			description: "test file",
			expectError: true,
		},
		{
			name:        "non-existent file",
			filePath:    "/non/existent/sales.txt",
			description: "test file",
			expectError: true,
		},
		{
			name:        "directory instead of file",
			filePath:    tmpDir,
			description: "test file",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFileExists(tt.filePath, tt.description)

			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateAnalyzeFlags(t *testing.T) {
	tmpDir := t.TempDir()
	salesFile := filepath.Join(tmpDir, "sales.txt")
	if err := os.WriteFile(salesFile, []byte("T001|2024-03-01|P101|Laptop|2|499.99|C001|North"), 0644); err != nil {
		t.Fatalf("failed to create sales file: %v", err)
	}

	defaults := func() {
		viper.Reset()
		viper.Set("input", salesFile)
		viper.Set("output-format", "console")
		viper.Set("top-n", 5)
		viper.Set("low-quantity-threshold", 10)
		viper.Set("catalog-timeout", 10*time.Second)
	}

	tests := []struct {
		name        string
		setup       func()
		expectError bool
	}{
		{
			name:        "valid defaults",
			setup:       defaults,
			expectError: false,
		},
		{
			name: "missing input",
			setup: func() {
				defaults()
				viper.Set("input", "")
			},
			expectError: true,
		},
		{
			name: "bad output format",
			setup: func() {
				defaults()
				viper.Set("output-format", "xml")
			},
			expectError: true,
		},
		{
			name: "zero top-n",
			setup: func() {
				defaults()
				viper.Set("top-n", 0)
			},
			expectError: true,
		},
		{
			name: "malformed min amount",
			setup: func() {
				defaults()
				viper.Set("min-amount", "abc")
			},
			expectError: true,
		},
		{
			name: "inverted amount bounds",
			setup: func() {
				defaults()
				viper.Set("min-amount", "500")
				viper.Set("max-amount", "100")
			},
			expectError: true,
		},
		{
			name: "valid filters",
			setup: func() {
				defaults()
				viper.Set("region", "North")
				viper.Set("min-amount", "100")
				viper.Set("max-amount", "5000")
			},
			expectError: false,
		},
		{
			name: "missing output directory",
			setup: func() {
				defaults()
				viper.Set("report-file", filepath.Join(tmpDir, "missing", "report.txt"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer viper.Reset()

			err := validateAnalyzeFlags(analyzeCmd, nil)

			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
