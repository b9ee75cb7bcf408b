package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		appName string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "poisynclogs",
			appName: "poisync",
			want:    filepath.Join("poisynclogs", "poisync.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./poisynclogs",
			appName: "poisync",
			want:    filepath.Join(".", "poisynclogs", "poisync.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "poisync"),
			appName: "poisync",
			want:    filepath.Join("/var", "log", "poisync", "poisync.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.appName, sessionStart)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poisync.log")
	f := NewRotatingFile(path)
	defer f.Close()

	_, err := f.Write([]byte("line\n"))
	assert.NoError(t, err)
	assert.Equal(t, path, f.Filename)
	assert.FileExists(t, path)
}

func TestNewGraylogWriter(t *testing.T) {
	w, err := NewGraylogWriter("127.0.0.1:12201", "poisync")
	if !assert.NoError(t, err) {
		return
	}
	defer w.Close()
	assert.Equal(t, "poisync", w.Facility)
}
