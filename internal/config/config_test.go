package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "source")
	if err := os.WriteFile(file, []byte("data"), 0600); err != nil {
		t.Fatal(err)
	}

	version := Version{Version: "test", Revision: "none"}

	tests := []struct {
		name        string
		args        []string
		wantCommand string
		wantErr     bool
		check       func(t *testing.T, c *Config)
	}{
		{
			name:        "snapshot to disk",
			args:        []string{"snapshot", file, "--offset", "2", "--dir", dir, "-z"},
			wantCommand: "snapshot <file>",
			check: func(t *testing.T, c *Config) {
				if diff := cmp.Diff(file, c.Snapshot.File); diff != "" {
					t.Errorf("file mismatch (-want +got):\n%s", diff)
				}
				if c.Snapshot.Offset != 2 {
					t.Errorf("expected offset 2, got %d", c.Snapshot.Offset)
				}
				if c.Snapshot.Sink != "disk" {
					t.Errorf("expected default sink disk, got %s", c.Snapshot.Sink)
				}
				if !c.Snapshot.Compress {
					t.Error("expected compression")
				}
				if c.LogLevel != "info" {
					t.Errorf("expected default log level info, got %s", c.LogLevel)
				}
			},
		},
		{
			name:        "snapshot to s3",
			args:        []string{"snapshot", file, "--sink", "s3", "--s3.bucket", "b", "--s3.use-path-style"},
			wantCommand: "snapshot <file>",
			check: func(t *testing.T, c *Config) {
				if c.Snapshot.S3.Bucket != "b" || !c.Snapshot.S3.UsePathStyle {
					t.Errorf("unexpected S3 config: %+v", c.Snapshot.S3)
				}
				if c.Snapshot.S3.Endpoint != "s3.amazonaws.com" {
					t.Errorf("expected default endpoint, got %s", c.Snapshot.S3.Endpoint)
				}
			},
		},
		{
			name:        "fanout with defaults",
			args:        []string{"-l", "debug", "fanout", file},
			wantCommand: "fanout <file>",
			check: func(t *testing.T, c *Config) {
				if c.Fanout.Clones != 4 {
					t.Errorf("expected 4 clones, got %d", c.Fanout.Clones)
				}
				if c.LogLevel != "debug" {
					t.Errorf("expected log level debug, got %s", c.LogLevel)
				}
			},
		},
		{
			name:        "split",
			args:        []string{"split", file, "--parts", "3", "--dir", dir},
			wantCommand: "split <file>",
			check: func(t *testing.T, c *Config) {
				if c.Split.Parts != 3 {
					t.Errorf("expected 3 parts, got %d", c.Split.Parts)
				}
			},
		},
		{
			name:    "missing file",
			args:    []string{"fanout", filepath.Join(dir, "missing")},
			wantErr: true,
		},
		{
			name:    "zero clones",
			args:    []string{"fanout", file, "--clones", "0"},
			wantErr: true,
		},
		{
			name:    "negative offset",
			args:    []string{"split", file, "--dir", dir, "--offset=-1"},
			wantErr: true,
		},
		{
			name:    "unknown sink",
			args:    []string{"snapshot", file, "--sink", "ftp"},
			wantErr: true,
		},
		{
			name:    "split without dir",
			args:    []string{"split", file},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, command, err := Load(version, tt.args)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(tt.wantCommand, command); diff != "" {
				t.Errorf("command mismatch (-want +got):\n%s", diff)
			}
			tt.check(t, c)
		})
	}
}
