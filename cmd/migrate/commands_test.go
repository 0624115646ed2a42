package main

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestStepCountRejected(t *testing.T) {
	for _, args := range [][]string{
		{"up", "0"},
		{"up", "two"},
		{"down", "1.5"},
	} {
		err := run(t, args...)
		if err == nil || !strings.Contains(err.Error(), "positive integer") {
			t.Errorf("%v: err = %v, want step count error", args, err)
		}
	}
}

func TestForceRejectsNonNumeric(t *testing.T) {
	err := run(t, "force", "latest")
	if err == nil || !strings.Contains(err.Error(), "invalid version") {
		t.Errorf("err = %v, want invalid version", err)
	}
}

func TestURLPrefersFlag(t *testing.T) {
	t.Setenv("ATLAS_DB_DSN", "postgres://env@db/atlas")

	o := &options{dsn: "postgres://flag@db/atlas"}
	got, err := o.url()
	if err != nil {
		t.Fatal(err)
	}
	if got != "postgres://flag@db/atlas" {
		t.Errorf("url = %q", got)
	}
}

func TestURLFromEnv(t *testing.T) {
	t.Setenv("ATLAS_DB_DSN", "postgres://env@db/atlas")

	got, err := (&options{}).url()
	if err != nil {
		t.Fatal(err)
	}
	if got != "postgres://env@db/atlas" {
		t.Errorf("url = %q", got)
	}
}
