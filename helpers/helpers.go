package helpers

import (
	"os"
	"path/filepath"
)

var dataDirPath = ""

const DataDirEnv = "ENUMCOMPLETE_DIR"

func SetDataDirPath(newPath string) {
	// NOTE: when path does not exist, use GetOrInitializeDataDir
	dataDirPath = newPath
}

func GetDataDirPath() string {
	// ENUMCOMPLETE_DIR takes precedence over the configured path
	if envPath := os.Getenv(DataDirEnv); len(envPath) != 0 && dataDirPath != envPath {
		SetDataDirPath(envPath)
	}

	if len(dataDirPath) != 0 {
		return dataDirPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		if homeEnv := os.Getenv("HOME"); len(homeEnv) != 0 {
			homeDir = homeEnv
		} else {
			homeDir = os.TempDir()
		}
	}

	return filepath.Join(homeDir, ".enumcomplete")
}

func GetOrInitializeDataDir() (string, error) {
	dirPath := GetDataDirPath()
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return "", err
		}
	}

	return dirPath, nil
}
