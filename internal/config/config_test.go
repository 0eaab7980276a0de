package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("AIRTABLE_API_KEY", "key_test_123")
	os.Setenv("AIRTABLE_BASE_ID", "appTestBase")
	os.Setenv("AIRTABLE_TABLE_NAME_PERSONALES", "Nomina Activa")
	os.Setenv("AIRTABLE_TABLE_NAME_PROYECTOS", "Proyectos")
	os.Setenv("AIRTABLE_TABLE_NAME_USERS_APP", "Usuarios MobyApp")
	os.Setenv("AIRTABLE_TABLE_NAME_PROYECTOS_APP", "Proyectos MobyApp")
	os.Setenv("AIRTABLE_TABLE_NAME_CLIENTES", "Clientes")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Airtable.APIKey == "" || cfg.Airtable.BaseID == "" {
		t.Fatalf("unexpected empty Airtable credentials: %+v", cfg)
	}
	if cfg.Airtable.Tables.Payroll != "Nomina Activa" {
		t.Fatalf("unexpected payroll table name: %q", cfg.Airtable.Tables.Payroll)
	}
	if cfg.Airtable.Tables.Clients != "Clientes" {
		t.Fatalf("unexpected clients table name: %q", cfg.Airtable.Tables.Clients)
	}
	if cfg.Server.Port == "" {
		t.Fatalf("expected default server port to be set")
	}
}
