package schema

import "fmt"

// License is the closed set of license choices a package can be generated
// with. NotOpenSource produces no license file and no license field.
type License int

const (
	MIT License = iota
	BSD3Clause
	BSD2Clause
	ISC
	Apache2
	GPL3
	GPL2
	LGPL21
	NotOpenSource
)

type licenseInfo struct {
	title      string
	identifier string
	banner     string
}

var licenses = [...]licenseInfo{
	MIT:           {"MIT license", "MIT", "MIT License"},
	BSD3Clause:    {"BSD 3-Clause 'New' or 'Revised' License", "BSD-3-Clause", "Copyright (c)"},
	BSD2Clause:    {"BSD 2-Clause 'Simplified' License", "BSD-2-Clause", "Copyright (c)"},
	ISC:           {"ISC license", "ISC", "ISC License"},
	Apache2:       {"Apache Software License 2.0", "Apache-2.0", "Apache License"},
	GPL3:          {"GNU General Public License v3.0", "GPL-3.0-only", "GNU GENERAL PUBLIC LICENSE"},
	GPL2:          {"GNU General Public License v2.0", "GPL-2.0-only", "GNU GENERAL PUBLIC LICENSE"},
	LGPL21:        {"GNU Lesser General Public License v2.1", "LGPL-2.1-only", "GNU LESSER GENERAL PUBLIC LICENSE"},
	NotOpenSource: {"Not open source", "", ""},
}

// Licenses lists every variant in declaration order.
func Licenses() []License {
	all := make([]License, len(licenses))
	for i := range licenses {
		all[i] = License(i)
	}
	return all
}

// ParseLicense maps a license title, as shown to the user, to its variant.
func ParseLicense(title string) (License, error) {
	for i, info := range licenses {
		if info.title == title {
			return License(i), nil
		}
	}
	return 0, fmt.Errorf("unknown license %q", title)
}

func (l License) valid() bool {
	return l >= 0 && int(l) < len(licenses)
}

func (l License) Title() string {
	if !l.valid() {
		return ""
	}
	return licenses[l].title
}

// Identifier is the SPDX identifier, empty for NotOpenSource.
func (l License) Identifier() string {
	if !l.valid() {
		return ""
	}
	return licenses[l].identifier
}

// Banner is text the generated license file is expected to open with.
// BSD licenses open with a copyright line that is completed at render time.
func (l License) Banner() string {
	if !l.valid() {
		return ""
	}
	return licenses[l].banner
}

func (l License) OpenSource() bool {
	return l.valid() && l != NotOpenSource
}

func (l License) String() string {
	return l.Title()
}

// Interface is the command-line interface style of a generated package.
type Interface int

const (
	Click Interface = iota
	Argparse
	NoInterface
)

var interfaceTitles = [...]string{
	Click:       "Click",
	Argparse:    "Argparse",
	NoInterface: "No command-line interface",
}

func ParseInterface(title string) (Interface, error) {
	for i, t := range interfaceTitles {
		if t == title {
			return Interface(i), nil
		}
	}
	return 0, fmt.Errorf("unknown command-line interface %q", title)
}

func (i Interface) String() string {
	if i < 0 || int(i) >= len(interfaceTitles) {
		return ""
	}
	return interfaceTitles[i]
}

// HasCLI reports whether a console script is generated.
func (i Interface) HasCLI() bool {
	return i == Click || i == Argparse
}

// TestFramework is the test runner the generated tests are written for.
type TestFramework int

const (
	Unittest TestFramework = iota
	Pytest
)

func (f TestFramework) String() string {
	switch f {
	case Unittest:
		return "unittest"
	case Pytest:
		return "pytest"
	default:
		return ""
	}
}

// Variant variable names shared by the packaged templates.
const (
	LicenseVar       = "open_source_license"
	InterfaceVar     = "command_line_interface"
	TestFrameworkVar = "use_pytest"
)

// RegisterVariants binds the closed variant types to their variables so
// Resolve enforces them.
func RegisterVariants(s *Schema) {
	s.RegisterChoice(LicenseVar, func(v string) error {
		_, err := ParseLicense(v)
		return err
	})
	s.RegisterChoice(InterfaceVar, func(v string) error {
		_, err := ParseInterface(v)
		return err
	})
}

// LicenseOf reads the license variant of a resolved configuration.
func LicenseOf(c Configuration) (License, error) {
	return ParseLicense(c.Get(LicenseVar))
}

func InterfaceOf(c Configuration) (Interface, error) {
	return ParseInterface(c.Get(InterfaceVar))
}

func TestFrameworkOf(c Configuration) TestFramework {
	if c.Bool(TestFrameworkVar) {
		return Pytest
	}
	return Unittest
}
