package infrastructure_test

import (
	"testing"

	"github.com/fra-atlas/atlas/internal/config"
	"github.com/fra-atlas/atlas/internal/infrastructure"
	"github.com/fra-atlas/atlas/pkg/database"
	"github.com/fra-atlas/atlas/pkg/ocr"
	"github.com/fra-atlas/atlas/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=atlasstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/atlasstore;"

func validConfig() *config.Config {
	cfg := &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "atlas",
			User:            "atlas",
			Password:        "atlas",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "claim-documents",
			ConnectionString: azuriteConnString,
		},
		OCR:         ocr.Config{Binary: "tesseract", Languages: "eng+hin", Timeout: "1m", MaxPages: 5, DPI: 300},
		Persistence: config.PersistencePostgres,
		Version:     "0.1.0",
	}
	return cfg
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.OCR == nil {
		t.Error("OCR is nil")
	}
	if infra.Registry == nil {
		t.Error("Registry is nil")
	}
	if !infra.Persistent() {
		t.Error("Persistent: got false, want true")
	}
}

func TestNewDatabaseConnection(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestNewInMemory(t *testing.T) {
	cfg := validConfig()
	cfg.Persistence = config.PersistenceMemory
	cfg.Storage.ConnectionString = ""

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Database != nil || infra.Storage != nil {
		t.Error("memory mode should not create database or storage")
	}
	if infra.Persistent() {
		t.Error("Persistent: got true, want false")
	}
	if err := infra.Start(); err != nil {
		t.Errorf("Start() error = %v", err)
	}
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not-a-connection-string"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}

func TestNewInvalidFormsFile(t *testing.T) {
	cfg := validConfig()
	cfg.Extraction.FormsFile = "/nonexistent/forms.yaml"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Fatal("expected error for missing forms file")
	}
}
