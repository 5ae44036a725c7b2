// Copyright (C) 2025 Tim Bastin, l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const maxPathLength = 4096

func checkPathSyntax(path string) error {
	if len(path) == 0 {
		return fmt.Errorf("path is empty")
	}
	if !utf8.ValidString(path) || strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains invalid bytes")
	}
	if len(path) > maxPathLength {
		return fmt.Errorf("path length exceeds %d characters", maxPathLength)
	}
	return nil
}

// isValidPath checks that path names an existing regular file.
func isValidPath(path string) error {
	if err := checkPathSyntax(path); err != nil {
		return err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return errors.Wrap(err, "path does not exist: "+absPath)
	} else if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory: %s", absPath)
	}
	return nil
}

// isValidOutputPath checks that path can be created: its directory exists and
// the path itself is not a directory.
func isValidOutputPath(path string) error {
	if err := checkPathSyntax(path); err != nil {
		return err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory: %s", absPath)
	}

	dir := filepath.Dir(absPath)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return errors.Wrap(err, "directory does not exist: "+dir)
	} else if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	return nil
}
