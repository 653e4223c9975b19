// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package pkgmgr

import "vl_installer/internal/runner"

// Pip drives pip through a Python interpreter ("python -m pip")
type Pip struct {
	python string
}

// NewPip creates a pip manager for the given interpreter
func NewPip(python string) *Pip {
	return &Pip{python: python}
}

// InstallCommand builds "<python> -m pip install <packages>"
func (p *Pip) InstallCommand(packages ...string) runner.Command {
	return p.command(append([]string{"install"}, packages...)...)
}

// RequirementsCommand builds "<python> -m pip install -r <file>"
func (p *Pip) RequirementsCommand(file string) runner.Command {
	return p.command("install", "-r", file)
}

// SetIndexCommand builds "<python> -m pip config set global.index-url <url>"
func (p *Pip) SetIndexCommand(url string) runner.Command {
	return p.command("config", "set", "global.index-url", url)
}

func (p *Pip) command(args ...string) runner.Command {
	return runner.New(p.python, append([]string{"-m", "pip"}, args...)...)
}
