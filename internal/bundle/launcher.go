// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

package bundle

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// Directory names inside the bundle tree.
const (
	WineDir = "wine"
	FexDir  = "fex"
	LibsDir = "libs"
	BinDir  = "bin"
)

// envScriptName is the shared environment setup script sourced by every
// wrapper.
const envScriptName = "setup-env.sh"

// launchers are the generated wrapper scripts and the runtime executables
// they hand over to, relative to the bundle root.
var launchers = []struct {
	name   string
	target string
}{
	{name: "wine", target: WineDir + "/bin/wine"},
	{name: "wine64", target: WineDir + "/bin/wine64"},
	{name: "wineserver", target: WineDir + "/bin/wineserver"},
}

// The environment script computes the bundle root from its own location, so
// the bundle stays relocatable. FEX_BIN and FEX_X86_LIBS are the fixed
// variables the wrappers rely on; LD_LIBRARY_PATH is consumed by the bundled
// x86_64 dynamic loader running under the translation engine.
const envScriptTemplate = `#!/bin/sh
# Generated by winebundle. Sourced by the wrapper scripts in bin/.

WINEBUNDLE_ROOT="$(CDPATH='' cd -- "$(dirname -- "$0")/.." && pwd)"
export WINEBUNDLE_ROOT

FEX_BIN="$WINEBUNDLE_ROOT/{{.FexDir}}/bin/FEXInterpreter"
export FEX_BIN

FEX_X86_LIBS="$WINEBUNDLE_ROOT/{{.LibsDir}}"
export FEX_X86_LIBS

LD_LIBRARY_PATH="$FEX_X86_LIBS${LD_LIBRARY_PATH:+:$LD_LIBRARY_PATH}"
export LD_LIBRARY_PATH
`

// Wrappers are pure passthrough: no argument parsing, no validation.
const wrapperTemplate = `#!/bin/sh
# Generated by winebundle.

. "$(CDPATH='' cd -- "$(dirname -- "$0")" && pwd)/{{.EnvScript}}"

exec "$FEX_BIN" "$WINEBUNDLE_ROOT/{{.Target}}" "$@"
`

// WriteLaunchers generates the environment setup script and one wrapper
// script per runtime executable into the bundle's bin directory. All scripts
// are created executable.
func WriteLaunchers(bundleDir string) error {
	binDir := filepath.Join(bundleDir, BinDir)

	err := os.MkdirAll(binDir, 0o755)
	if err != nil {
		return fmt.Errorf("create bin directory: %w", err)
	}

	envScript, err := renderTemplate(envScriptTemplate, map[string]string{
		"FexDir":  FexDir,
		"LibsDir": LibsDir,
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", envScriptName, err)
	}

	err = writeScript(filepath.Join(binDir, envScriptName), envScript)
	if err != nil {
		return err
	}

	for _, launcher := range launchers {
		wrapper, err := renderTemplate(wrapperTemplate, map[string]string{
			"EnvScript": envScriptName,
			"Target":    launcher.target,
		})
		if err != nil {
			return fmt.Errorf("render wrapper %s: %w", launcher.name, err)
		}

		err = writeScript(filepath.Join(binDir, launcher.name), wrapper)
		if err != nil {
			return err
		}
	}

	return nil
}

func renderTemplate(text string, data any) ([]byte, error) {
	tmpl, err := template.New("script").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer

	err = tmpl.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	return buf.Bytes(), nil
}

func writeScript(path string, content []byte) error {
	err := os.WriteFile(path, content, 0o755)
	if err != nil {
		return fmt.Errorf("write script %s: %w", filepath.Base(path), err)
	}

	return nil
}
