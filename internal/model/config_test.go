package model

import (
	"bytes"
	"go/format"
	"os"
	"testing"
)

func TestDefaultConfig_CacheBounds(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Cache.MaxRaw <= 0 {
		t.Errorf("raw tier must be bounded by default, got max_raw=%d", cfg.Cache.MaxRaw)
	}
	if cfg.Cache.MaxRecords <= 0 {
		t.Errorf("record tier must be bounded by default, got max_records=%d", cfg.Cache.MaxRecords)
	}
}

func TestConfigSourceFormatted(t *testing.T) {
	src, err := os.ReadFile("config.go")
	if err != nil {
		t.Fatal(err)
	}
	formatted, err := format.Source(src)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(src, formatted) {
		t.Error("config.go is not gofmt-clean")
	}
}
