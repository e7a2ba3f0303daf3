// Package validation checks user-supplied paths and option values before
// any work starts.
package validation

import (
	"fmt"
	"os"
	"strings"
)

// Report output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// SupportedOutputFormats lists the report formats in help-text order.
var SupportedOutputFormats = []string{FormatJSON, FormatYAML, FormatText}

// IsValidPath checks if a given path exists and is a file or directory.
func IsValidPath(path string) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}
	return nil
}

// IsValidInputFile checks that path exists and is a regular file.
func IsValidInputFile(path string) error {
	if err := IsValidPath(path); err != nil {
		return err
	}
	if info, _ := os.Stat(path); info.IsDir() {
		return fmt.Errorf("expected a file, got directory: %s", path)
	}
	return nil
}

// IsValidInputDir checks that path exists and is a directory.
func IsValidInputDir(path string) error {
	if err := IsValidPath(path); err != nil {
		return err
	}
	if info, _ := os.Stat(path); !info.IsDir() {
		return fmt.Errorf("expected a directory, got file: %s", path)
	}
	return nil
}

// IsValidOutputFormat checks if the given report format is supported.
func IsValidOutputFormat(format string) error {
	for _, f := range SupportedOutputFormats {
		if strings.EqualFold(format, f) {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format: %s. Supported formats are %s",
		format, strings.Join(SupportedOutputFormats, ", "))
}

// IsValidFilePermissions checks that others have no access to a file
// holding ledger data or credentials.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0640", mode.String())
	}
	return nil
}
